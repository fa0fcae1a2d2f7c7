// Package milktea drives a world: it owns the run loop, turns terminal input
// into events and triggers the per-frame Update and Redraw passes.
package milktea

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/boba-engine/boba/internal/core/ecs"
	"github.com/boba-engine/boba/internal/core/system"
	"github.com/gdamore/tcell/v2"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

type Settings struct {
	TickRate  time.Duration
	MaxFrames int // 0 = until exit is requested
}

// App runs one world. It is not safe for concurrent use; everything except
// the terminal input pump runs on the goroutine that called Run.
type App struct {
	world    *ecs.World
	screen   tcell.Screen
	settings Settings
	runner   *system.Runner
	frame    Frame
	pending  []tcell.Event
	log      *zap.Logger
}

type Option func(*App)

// WithScreen attaches an initialised terminal. Without one the app runs
// headless: no input and no Redraw.
func WithScreen(screen tcell.Screen) Option {
	return func(a *App) { a.screen = screen }
}

func WithLogger(log *zap.Logger) Option {
	return func(a *App) {
		if log != nil {
			a.log = log
		}
	}
}

func New(world *ecs.World, settings Settings, opts ...Option) *App {
	a := &App{
		world:    world,
		settings: settings,
		runner:   system.NewRunner(),
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}

	a.runner.Register(system.Func{At: system.PhaseInput, Fn: a.drainInput})
	a.runner.Register(system.Func{At: system.PhaseUpdate, Fn: a.update})
	a.runner.Register(system.Func{At: system.PhaseRender, Fn: a.redraw})
	a.runner.Register(system.Func{At: system.PhaseCleanup, Fn: a.cleanup})
	return a
}

func (a *App) World() *ecs.World { return a.world }

// Runner exposes the frame pipeline so callers can add their own systems.
func (a *App) Runner() *system.Runner { return a.runner }

func (a *App) Frame() *Frame { return &a.frame }

// Run triggers Init, then steps one frame per tick until a listener calls
// Exit, MaxFrames is reached, ctx is cancelled or the process receives an
// interrupt. Exit is triggered before Run returns. The caller keeps
// ownership of the screen.
func (a *App) Run(ctx context.Context) error {
	if a.settings.TickRate <= 0 {
		return eris.Errorf("milktea: tick rate must be positive, got %s", a.settings.TickRate)
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var input <-chan tcell.Event
	if a.screen != nil {
		ch := make(chan tcell.Event, 64)
		done := make(chan struct{})
		defer close(done)
		go pump(a.screen, ch, done)
		input = ch
	}

	a.log.Info("milktea started",
		zap.Duration("tick_rate", a.settings.TickRate),
		zap.Int("max_frames", a.settings.MaxFrames),
		zap.Bool("headless", a.screen == nil),
	)
	ecs.Trigger(a.world, &Init{&a.frame})

	ticker := time.NewTicker(a.settings.TickRate)
	defer ticker.Stop()

	var last time.Time
	for !a.frame.Exiting() {
		select {
		case <-ctx.Done():
			a.log.Info("milktea stopping", zap.Error(context.Cause(ctx)))
			a.frame.Exit()
		case ev := <-input:
			a.pending = append(a.pending, ev)
			a.runner.TickPhase(system.PhaseInput, 0)
		case now := <-ticker.C:
			var dt time.Duration
			if !last.IsZero() {
				dt = now.Sub(last)
			}
			last = now
			a.Step(dt)
		}
	}

	ecs.Trigger(a.world, &Exit{&a.frame})
	a.log.Info("milktea stopped",
		zap.Uint64("frames", a.frame.Index()),
		zap.Duration("game_time", a.frame.GameTime()),
	)
	return nil
}

// Step runs one full frame with the given delta.
func (a *App) Step(dt time.Duration) {
	a.runner.Tick(dt)
}

func pump(screen tcell.Screen, out chan<- tcell.Event, done <-chan struct{}) {
	for {
		ev := screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case out <- ev:
		case <-done:
			return
		}
	}
}

func (a *App) drainInput(time.Duration) {
	events := a.pending
	a.pending = nil
	for _, ev := range events {
		switch ev := ev.(type) {
		case *tcell.EventKey:
			ecs.Trigger(a.world, &KeyPress{
				Frame: &a.frame,
				Key:   ev.Key(),
				Rune:  ev.Rune(),
				Mod:   ev.Modifiers(),
			})
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
				a.log.Debug("close requested", zap.String("key", ev.Name()))
				ecs.Trigger(a.world, &CloseRequest{&a.frame})
			}
		case *tcell.EventResize:
			w, h := ev.Size()
			if a.screen != nil {
				a.screen.Sync()
			}
			ecs.Trigger(a.world, &Resize{Frame: &a.frame, Width: w, Height: h})
		}
	}
}

func (a *App) update(dt time.Duration) {
	a.frame.advance(dt)
	ecs.Trigger(a.world, &Update{&a.frame})
}

func (a *App) redraw(time.Duration) {
	if a.screen == nil {
		return
	}
	ecs.Trigger(a.world, &Redraw{&a.frame})
	a.screen.Show()
}

func (a *App) cleanup(time.Duration) {
	if a.settings.MaxFrames > 0 && a.frame.Index() >= uint64(a.settings.MaxFrames) {
		a.log.Debug("frame limit reached", zap.Int("max_frames", a.settings.MaxFrames))
		a.frame.Exit()
	}
}
