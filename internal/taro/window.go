package taro

import (
	"github.com/boba-engine/boba/internal/core/ecs"
	"github.com/boba-engine/boba/internal/core/signal"
	"github.com/boba-engine/boba/internal/milktea"
	"github.com/gdamore/tcell/v2"
)

// Closed is sent on a window's Closed signal when it destroys itself.
type Closed struct {
	*milktea.Frame
	Title string
}

// Window presents what its camera sees on a surface every redraw. By default
// it destroys itself when the user asks to close.
type Window struct {
	Title          string
	Camera         ecs.Link[Camera]
	Surface        Surface
	Renderer       Renderer
	DestroyOnClose bool
	Closed         *signal.Signal[Closed]
}

func NewWindow(title string, camera ecs.Link[Camera], surface Surface, renderer Renderer) Window {
	return Window{
		Title:          title,
		Camera:         camera,
		Surface:        surface,
		Renderer:       renderer,
		DestroyOnClose: true,
		Closed:         signal.New[Closed](),
	}
}

func (Window) Register(src *ecs.EventSource[Window]) {
	ecs.ListenFunc(src, redraw)
	ecs.ListenFunc(src, closeRequested)
}

func redraw(v *ecs.View[Window], _ *milktea.Redraw) {
	win := *v.Current()
	if win.Surface == nil || win.Renderer == nil {
		return
	}
	width, height := win.Surface.Size()

	var cmds []DrawCommand
	cam, ok := ecs.Get(v, win.Camera)
	if ok {
		cmds = cam.Commands(v, width, height)
	} else {
		cmds = []DrawCommand{Clear(tcell.StyleDefault)}
	}
	if win.Title != "" {
		cmds = append(cmds, Text(1, 0, win.Title, tcell.StyleDefault.Reverse(true)))
	}
	win.Renderer.Render(cmds, win.Surface)
}

func closeRequested(v *ecs.View[Window], e *milktea.CloseRequest) {
	win := *v.Current()
	if !win.DestroyOnClose || !v.DestroySelf() {
		return
	}
	if win.Closed != nil {
		win.Closed.Send(v, &Closed{Frame: e.Frame, Title: win.Title})
	}
}

// Sentinel stops the app once no window is left.
type Sentinel struct{}

func (Sentinel) Register(src *ecs.EventSource[Sentinel]) {
	ecs.Listen[milktea.Update](src)
}

func (Sentinel) Trigger(v *ecs.View[Sentinel], e *milktea.Update) {
	if !ecs.Has[Window](v) {
		e.Exit()
	}
}
