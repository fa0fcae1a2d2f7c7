package system

import "time"

// Phase defines execution ordering within a single frame.
type Phase int

const (
	PhaseInput   Phase = iota // 0: drain terminal events into the world
	PhaseUpdate               // 1: per-frame game logic
	PhaseRender               // 2: redraw windows
	PhaseCleanup              // 3: exit checks, frame bookkeeping

	phaseCount = int(PhaseCleanup) + 1
)

// Valid reports whether p is one of the declared phases.
func (p Phase) Valid() bool { return p >= 0 && int(p) < phaseCount }

func (p Phase) String() string {
	switch p {
	case PhaseInput:
		return "input"
	case PhaseUpdate:
		return "update"
	case PhaseRender:
		return "render"
	case PhaseCleanup:
		return "cleanup"
	}
	return "unknown"
}

// System is one step of the frame pipeline.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}

// Func adapts a plain function to System.
type Func struct {
	At Phase
	Fn func(dt time.Duration)
}

func (f Func) Phase() Phase            { return f.At }
func (f Func) Update(dt time.Duration) { f.Fn(dt) }
