package milktea

import "time"

// Frame is the per-frame context shared by every driver event. Listeners
// read timing from it and ask the driver to stop through Exit.
type Frame struct {
	delta   time.Duration
	elapsed time.Duration
	index   uint64
	exit    bool
}

// DeltaTime is the wall time between the previous frame and this one. It is
// zero on the first frame.
func (f *Frame) DeltaTime() time.Duration { return f.delta }

func (f *Frame) DeltaSeconds() float64 { return f.delta.Seconds() }

// GameTime is the sum of every delta so far.
func (f *Frame) GameTime() time.Duration { return f.elapsed }

// Index counts completed update steps.
func (f *Frame) Index() uint64 { return f.index }

// Exit asks the driver to stop after the current step.
func (f *Frame) Exit() { f.exit = true }

func (f *Frame) Exiting() bool { return f.exit }

func (f *Frame) advance(dt time.Duration) {
	f.delta = dt
	f.elapsed += dt
	f.index++
}
