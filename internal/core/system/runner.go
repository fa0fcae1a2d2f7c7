package system

import (
	"time"

	"github.com/boba-engine/boba/internal/assert"
)

// Runner is the frame pipeline of the driver. A frame walks the phases in
// order: input drains the terminal events queued since the last frame, update
// advances game time, render redraws the windows, cleanup decides whether the
// loop goes on. Within a phase systems run in registration order.
type Runner struct {
	phases [phaseCount][]System
	count  int
}

func NewRunner() *Runner {
	return &Runner{}
}

// Register appends s to its phase. Systems added while a frame runs take part
// from the next phase pass on.
func (r *Runner) Register(s System) {
	p := s.Phase()
	assert.That(p.Valid(), "system registered for unknown phase %d", int(p))
	r.phases[p] = append(r.phases[p], s)
	r.count++
}

func (r *Runner) Len() int { return r.count }

// Tick runs one full frame with dt as the frame delta.
func (r *Runner) Tick(dt time.Duration) {
	for p := range r.phases {
		r.TickPhase(Phase(p), dt)
	}
}

// TickPhase runs a single phase. The driver calls it for PhaseInput whenever
// terminal events arrive between ticks, so key presses are delivered without
// advancing the frame.
func (r *Runner) TickPhase(phase Phase, dt time.Duration) {
	if !phase.Valid() {
		return
	}
	for _, s := range r.phases[phase] {
		s.Update(dt)
	}
}
