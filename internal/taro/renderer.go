// Package taro renders a world onto a terminal: cameras project sprite
// transforms into cells and windows hand the resulting draw list to a
// renderer on every redraw.
package taro

import (
	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"
)

// Surface is the drawable area a renderer writes to. tcell.Screen satisfies
// it.
type Surface interface {
	Size() (width, height int)
	Fill(r rune, style tcell.Style)
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
}

type Op uint8

const (
	OpClear Op = iota // fill the surface with Style
	OpGlyph           // one rune at X, Y
	OpText            // a left-to-right string starting at X, Y
)

type DrawCommand struct {
	Op    Op
	X, Y  int
	Rune  rune
	Text  string
	Style tcell.Style
}

func Clear(style tcell.Style) DrawCommand {
	return DrawCommand{Op: OpClear, Style: style}
}

func Glyph(x, y int, r rune, style tcell.Style) DrawCommand {
	return DrawCommand{Op: OpGlyph, X: x, Y: y, Rune: r, Style: style}
}

func Text(x, y int, s string, style tcell.Style) DrawCommand {
	return DrawCommand{Op: OpText, X: x, Y: y, Text: s, Style: style}
}

// Renderer executes a draw list against a surface. Nothing it does feeds
// back into the world.
type Renderer interface {
	Render(cmds []DrawCommand, surface Surface)
}

// TerminalRenderer draws commands cell by cell, clipping everything that
// falls outside the surface.
type TerminalRenderer struct {
	log    *zap.Logger
	frames uint64
}

func NewTerminalRenderer(log *zap.Logger) *TerminalRenderer {
	if log == nil {
		log = zap.NewNop()
	}
	return &TerminalRenderer{log: log}
}

// Frames returns the number of draw lists rendered so far.
func (r *TerminalRenderer) Frames() uint64 { return r.frames }

func (r *TerminalRenderer) Render(cmds []DrawCommand, surface Surface) {
	w, h := surface.Size()
	clipped := 0
	for _, cmd := range cmds {
		switch cmd.Op {
		case OpClear:
			surface.Fill(' ', cmd.Style)
		case OpGlyph:
			if !inside(cmd.X, cmd.Y, w, h) {
				clipped++
				continue
			}
			surface.SetContent(cmd.X, cmd.Y, cmd.Rune, nil, cmd.Style)
		case OpText:
			x := cmd.X
			for _, ch := range cmd.Text {
				if inside(x, cmd.Y, w, h) {
					surface.SetContent(x, cmd.Y, ch, nil, cmd.Style)
				}
				x++
			}
		}
	}
	r.frames++
	if clipped > 0 {
		r.log.Debug("glyphs clipped", zap.Int("count", clipped), zap.Uint64("frame", r.frames))
	}
}

func inside(x, y, w, h int) bool {
	return x >= 0 && y >= 0 && x < w && y < h
}
