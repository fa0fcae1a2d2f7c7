package taro

import (
	"math"
	"sort"

	"github.com/boba-engine/boba/internal/core/ecs"
	"github.com/boba-engine/boba/internal/transform"
	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"
)

// CellAspect is how many columns make up one world unit per row. Terminal
// cells are roughly twice as tall as they are wide.
const CellAspect = 2.0

// Camera looks down the -Z axis of its transform. A zero or dead transform
// link puts it at the origin.
type Camera struct {
	Transform transform.Link
	Skybox    tcell.Color
	Glyph     rune    // drawn at the view centre; 0 = none
	Scale     float64 // world units per row; 0 = 1
}

func NewCamera(t transform.Link, skybox tcell.Color) Camera {
	return Camera{Transform: t, Skybox: skybox, Scale: 1}
}

// View returns the matrix taking world space into camera space.
func (c *Camera) View(ctx ecs.Context) mgl64.Mat4 {
	t, ok := ecs.Get(ctx, c.Transform)
	if !ok {
		return mgl64.Ident4()
	}
	return t.WorldMatrix().Inv()
}

// Project maps a world position to a cell of a width x height surface, with
// +Y pointing up. The second result is false when the cell is off-surface.
func (c *Camera) Project(view mgl64.Mat4, pos mgl64.Vec3, width, height int) (int, int, bool) {
	scale := c.Scale
	if scale == 0 {
		scale = 1
	}
	p := view.Mul4x1(pos.Vec4(1))
	x := width/2 + int(math.Round(p[0]*CellAspect/scale))
	y := height/2 - int(math.Round(p[1]/scale))
	return x, y, inside(x, y, width, height)
}

// Commands builds the draw list for one frame: the skybox, every visible
// sprite from far to near, then the camera glyph.
func (c *Camera) Commands(ctx ecs.Context, width, height int) []DrawCommand {
	sky := tcell.StyleDefault.Background(c.Skybox)
	cmds := []DrawCommand{Clear(sky)}
	view := c.View(ctx)

	type placed struct {
		x, y  int
		depth float64
		cmd   DrawCommand
	}
	var sprites []placed
	ecs.Each(ctx, func(_ ecs.Link[Sprite], s *Sprite) {
		t, ok := ecs.Get(ctx, s.Transform)
		if !ok || s.Glyph == 0 {
			return
		}
		pos := t.WorldPos()
		x, y, visible := c.Project(view, pos, width, height)
		if !visible {
			return
		}
		depth := view.Mul4x1(pos.Vec4(1))[2]
		sprites = append(sprites, placed{
			x: x, y: y, depth: depth,
			cmd: Glyph(x, y, s.Glyph, sky.Foreground(s.Color)),
		})
	})
	sort.SliceStable(sprites, func(i, j int) bool {
		return sprites[i].depth < sprites[j].depth
	})
	for _, s := range sprites {
		cmds = append(cmds, s.cmd)
	}

	if c.Glyph != 0 {
		cmds = append(cmds, Glyph(width/2, height/2, c.Glyph, sky.Foreground(tcell.ColorWhite)))
	}
	return cmds
}
