package taro

import (
	"math"
	"testing"
	"time"

	"github.com/boba-engine/boba/internal/core/ecs"
	"github.com/boba-engine/boba/internal/core/signal"
	"github.com/boba-engine/boba/internal/milktea"
	"github.com/boba-engine/boba/internal/transform"
	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cell struct {
	r     rune
	style tcell.Style
}

// grid is an in-memory surface.
type grid struct {
	w, h  int
	cells map[[2]int]cell
	fills int
}

func newGrid(w, h int) *grid {
	return &grid{w: w, h: h, cells: make(map[[2]int]cell)}
}

func (g *grid) Size() (int, int) { return g.w, g.h }

func (g *grid) Fill(r rune, style tcell.Style) {
	g.fills++
	for x := 0; x < g.w; x++ {
		for y := 0; y < g.h; y++ {
			g.cells[[2]int{x, y}] = cell{r: r, style: style}
		}
	}
}

func (g *grid) SetContent(x, y int, r rune, _ []rune, style tcell.Style) {
	if x < 0 || y < 0 || x >= g.w || y >= g.h {
		panic("write outside surface")
	}
	g.cells[[2]int{x, y}] = cell{r: r, style: style}
}

func (g *grid) at(x, y int) rune { return g.cells[[2]int{x, y}].r }

func TestTerminalRenderer_ClipsAndDraws(t *testing.T) {
	t.Parallel()

	g := newGrid(10, 3)
	r := NewTerminalRenderer(nil)
	r.Render([]DrawCommand{
		Clear(tcell.StyleDefault.Background(tcell.ColorNavy)),
		Glyph(2, 1, '@', tcell.StyleDefault),
		Glyph(-1, 1, 'x', tcell.StyleDefault),
		Glyph(10, 0, 'x', tcell.StyleDefault),
		Text(7, 2, "boba", tcell.StyleDefault),
	}, g)

	assert.Equal(t, 1, g.fills)
	assert.Equal(t, '@', g.at(2, 1))
	assert.Equal(t, "bob", string([]rune{g.at(7, 2), g.at(8, 2), g.at(9, 2)}))
	assert.Equal(t, ' ', g.at(0, 0))
	assert.Equal(t, uint64(1), r.Frames())
}

func TestCamera_Project(t *testing.T) {
	t.Parallel()

	w := ecs.NewWorld()
	eye := ecs.Insert(w, transform.New())
	cam := NewCamera(eye, tcell.ColorBlack)

	x, y, ok := cam.Project(cam.View(w), mgl64.Vec3{3, 2, 0}, 40, 12)
	require.True(t, ok)
	assert.Equal(t, 26, x)
	assert.Equal(t, 4, y)

	ecs.With(w, eye, func(v *transform.View) { transform.SetLocalPos(v, mgl64.Vec3{3, 0, 0}) })
	x, y, ok = cam.Project(cam.View(w), mgl64.Vec3{3, 2, 0}, 40, 12)
	require.True(t, ok)
	assert.Equal(t, 20, x)
	assert.Equal(t, 4, y)

	ecs.With(w, eye, func(v *transform.View) {
		transform.SetLocalPos(v, mgl64.Vec3{})
		transform.SetLocalRot(v, mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 0, 1}))
	})
	x, y, ok = cam.Project(cam.View(w), mgl64.Vec3{0, 2, 0}, 40, 12)
	require.True(t, ok)
	assert.Equal(t, 24, x)
	assert.Equal(t, 6, y)

	_, _, ok = cam.Project(cam.View(w), mgl64.Vec3{0, 100, 0}, 40, 12)
	assert.False(t, ok)
}

func TestCamera_CommandsOrderByDepth(t *testing.T) {
	t.Parallel()

	w := ecs.NewWorld()
	near := ecs.Insert(w, transform.FromPos(mgl64.Vec3{1, 1, 0}))
	far := ecs.Insert(w, transform.FromPos(mgl64.Vec3{1, 1, -5}))
	gone := ecs.Insert(w, transform.New())
	ecs.Insert(w, Sprite{Transform: near, Glyph: 'n', Color: tcell.ColorRed})
	ecs.Insert(w, Sprite{Transform: far, Glyph: 'f', Color: tcell.ColorBlue})
	ecs.Insert(w, Sprite{Transform: gone, Glyph: 'g'})
	ecs.Remove(w, gone)

	cam := Camera{Skybox: tcell.ColorNavy, Glyph: '+'}
	cmds := cam.Commands(w, 20, 10)
	require.Len(t, cmds, 4)
	assert.Equal(t, OpClear, cmds[0].Op)
	assert.Equal(t, 'f', cmds[1].Rune)
	assert.Equal(t, 'n', cmds[2].Rune)
	assert.Equal(t, 12, cmds[2].X)
	assert.Equal(t, 4, cmds[2].Y)
	assert.Equal(t, '+', cmds[3].Rune)

	g := newGrid(20, 10)
	NewTerminalRenderer(nil).Render(cmds, g)
	assert.Equal(t, 'n', g.at(12, 4))
	assert.Equal(t, '+', g.at(10, 5))
}

func simScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(40, 12)
	t.Cleanup(screen.Fini)
	return screen
}

func TestWindow_RedrawAndClose(t *testing.T) {
	t.Parallel()

	screen := simScreen(t)
	w := ecs.NewWorld()
	eye := ecs.Insert(w, transform.New())
	cam := ecs.Insert(w, Camera{Transform: eye, Skybox: tcell.ColorNavy, Glyph: '+', Scale: 1})
	planet := ecs.Insert(w, transform.FromPos(mgl64.Vec3{3, 2, 0}))
	ecs.Insert(w, Sprite{Transform: planet, Glyph: 'o', Color: tcell.ColorGreen})
	renderer := NewTerminalRenderer(nil)
	win := ecs.Insert(w, NewWindow("demo", cam, screen, renderer))
	ecs.Insert(w, Sentinel{})

	app := milktea.New(w, milktea.Settings{TickRate: time.Millisecond}, milktea.WithScreen(screen))
	app.Step(0)

	r, _, _, _ := screen.GetContent(26, 4)
	assert.Equal(t, 'o', r)
	r, _, _, _ = screen.GetContent(20, 6)
	assert.Equal(t, '+', r)
	title := make([]rune, 4)
	for i := range title {
		title[i], _, _, _ = screen.GetContent(1+i, 0)
	}
	assert.Equal(t, "demo", string(title))
	assert.Equal(t, uint64(1), renderer.Frames())
	assert.False(t, app.Frame().Exiting())

	ecs.Trigger(w, &milktea.CloseRequest{Frame: app.Frame()})
	assert.False(t, ecs.Contains(w, win))

	app.Step(time.Millisecond)
	assert.True(t, app.Frame().Exiting())
	assert.Equal(t, uint64(1), renderer.Frames())
}

func TestWindow_KeepsOpenWhenAsked(t *testing.T) {
	t.Parallel()

	w := ecs.NewWorld()
	g := newGrid(8, 4)
	win := NewWindow("", ecs.Link[Camera]{}, g, NewTerminalRenderer(nil))
	win.DestroyOnClose = false
	link := ecs.Insert(w, win)

	var frame milktea.Frame
	ecs.Trigger(w, &milktea.CloseRequest{Frame: &frame})
	assert.True(t, ecs.Contains(w, link))

	ecs.Trigger(w, &milktea.Redraw{Frame: &frame})
	assert.Equal(t, 1, g.fills)
}

type usher struct{ seen []string }

func TestWindow_ClosedSignal(t *testing.T) {
	t.Parallel()

	w := ecs.NewWorld()
	win := NewWindow("main", ecs.Link[Camera]{}, newGrid(4, 2), NewTerminalRenderer(nil))
	ecs.Insert(w, win)
	u := ecs.Insert(w, usher{})
	signal.Connect(win.Closed, u, func(v *ecs.View[usher], e *Closed) {
		v.Current().seen = append(v.Current().seen, e.Title)
		e.Exit()
	})

	var frame milktea.Frame
	ecs.Trigger(w, &milktea.CloseRequest{Frame: &frame})
	ecs.Trigger(w, &milktea.CloseRequest{Frame: &frame})

	got, ok := ecs.Get(w, u)
	require.True(t, ok)
	assert.Equal(t, []string{"main"}, got.seen)
	assert.True(t, frame.Exiting())
	assert.False(t, ecs.Has[Window](w))
}
