package ecs

import "github.com/boba-engine/boba/internal/assert"

// View is a scoped handle on one instance. It is only valid inside the
// function it was handed to. Every access re-resolves through the world, so
// other instances can be read, inserted or opened while the view is live.
type View[P any] struct {
	q    *Queue
	link Link[P]
}

func (v *View[P]) world() *World { return v.q.w }
func (v *View[P]) queue() *Queue { return v.q }

func (v *View[P]) Link() Link[P] { return v.link }

// Queue exposes the destroy queue shared by this view and every view nested
// inside the same outermost scope.
func (v *View[P]) Queue() *Queue { return v.q }

// Current returns the instance the view is open on. The pointer is valid
// until the next insert of P; call Current again after inserting.
func (v *View[P]) Current() *P {
	p, ok := Get(v, v.link)
	assert.That(ok, "view over %s no longer resolves", v.link)
	return p
}

// DestroySelf queues the removal of the instance this view is open on.
func (v *View[P]) DestroySelf() bool {
	return Destroy(v, v.link)
}

// Open runs fn with a View over link inside scope s and then runs P's
// OnScopeEnd hook. It returns false without calling fn when link does not
// resolve.
func Open[P any](s Scope, link Link[P], fn func(v *View[P])) bool {
	q := s.queue()
	if !Contains(q, link) {
		return false
	}
	v := &View[P]{q: q, link: link}
	fn(v)
	if h, ok := hookOf[ScopeEnder[P], P](); ok && Contains(q, link) {
		h.OnScopeEnd(v)
	}
	return true
}

// With opens a View on the World itself. Destroys queued by fn and by any
// nested view are applied once fn and its scope-end hook have returned.
func With[P any](w *World, link Link[P], fn func(v *View[P])) bool {
	var opened bool
	scoped(w, func(q *Queue) {
		opened = Open(q, link, fn)
	})
	return opened
}
