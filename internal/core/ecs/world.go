package ecs

import (
	"github.com/boba-engine/boba/internal/core/event"
	"go.uber.org/zap"
)

// World is the top-level container. It owns one store per component type,
// created lazily on first insert and removed with the last instance, and the
// event bus listeners register into.
//
// A World has exactly one owner at a time; nothing here is safe for
// concurrent use.
type World struct {
	reg    registry
	events *event.Bus[*Queue]
	log    *zap.Logger
}

type Option func(*World)

// WithLogger routes store and listener bookkeeping to log.
func WithLogger(log *zap.Logger) Option {
	return func(w *World) {
		if log != nil {
			w.log = log
		}
	}
}

func NewWorld(opts ...Option) *World {
	w := &World{
		reg:    newRegistry(),
		events: event.NewBus[*Queue](),
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *World) world() *World { return w }

// Types returns the number of component types with a live store.
func (w *World) Types() int { return w.reg.stores.Len() }

func (w *World) IsEmpty() bool { return w.reg.stores.IsEmpty() }

// Context is anything that can reach a World: the World itself, a Queue, a
// View or a removal context. Reads and inserts accept any Context.
type Context interface {
	world() *World
}

// Scope is a Context carrying a destroy queue. Destructive operations need a
// Scope so they can be deferred until the outermost scope closes.
type Scope interface {
	Context
	queue() *Queue
}

// scoped runs fn with c's queue when c already is a scope. Otherwise it opens
// a fresh queue and flushes it once fn returns.
func scoped(c Context, fn func(q *Queue)) {
	if s, ok := c.(Scope); ok {
		fn(s.queue())
		return
	}
	q := newQueue(c.world())
	fn(q)
	q.flush()
}

// Within runs fn inside c's scope, or inside a fresh one that is flushed once
// fn returns when c is not a scope itself.
func Within(c Context, fn func(s Scope)) {
	scoped(c, func(q *Queue) { fn(q) })
}

// Insert stores value and returns its link. Inserting never invalidates other
// links.
func Insert[P any](c Context, value P) Link[P] {
	return InsertThen(c, value, nil)
}

// InsertThen stores value, runs P's OnInsert hook and then, when non-nil,
// then with a View over the new instance before returning its link.
func InsertThen[P any](c Context, value P, then func(v *View[P])) Link[P] {
	link, _ := insertValue(c.world(), value)
	scoped(c, func(q *Queue) {
		if h, ok := hookOf[Inserter[P], P](); ok {
			Open(q, link, h.OnInsert)
		}
		if then != nil {
			Open(q, link, then)
		}
	})
	return link
}

// Remove takes the instance out of w immediately and runs P's OnRemove hook.
// Removing the last instance of P drops its store and event registrations.
// Code running inside a scope must use Destroy instead.
func Remove[P any](w *World, link Link[P]) (P, bool) {
	var zero P
	m, ok := resolve(w, link)
	if !ok {
		return zero, false
	}
	value, ok := m.Remove(link.item)
	if !ok {
		return zero, false
	}
	if m.IsEmpty() {
		teardown[P](w, link.store)
	}

	if h, ok := hookOf[Remover[P], P](); ok {
		q := newQueue(w)
		h.OnRemove(&Removed[P]{q: q, link: link, Value: &value})
		q.flush()
	}
	return value, true
}

// Get returns the instance behind link. The pointer is valid until the next
// insert or removal of P; hold on to the Link, not the pointer.
func Get[P any](c Context, link Link[P]) (*P, bool) {
	m, ok := resolve(c.world(), link)
	if !ok {
		return nil, false
	}
	return m.Get(link.item)
}

func Contains[P any](c Context, link Link[P]) bool {
	m, ok := resolve(c.world(), link)
	return ok && m.Contains(link.item)
}

// Has reports whether at least one instance of P exists.
func Has[P any](c Context) bool {
	_, _, ok := storeFor[P](c.world())
	return ok
}

// Count returns the number of live instances of P.
func Count[P any](c Context) int {
	m, _, ok := storeFor[P](c.world())
	if !ok {
		return 0
	}
	return m.Len()
}

// Trigger delivers data to every component type listening to E. Called on a
// scope it nests into that scope's destroy queue; called on the World it
// flushes queued destroys after the last listener returns.
func Trigger[E any](c Context, data *E) {
	scoped(c, func(q *Queue) {
		event.Dispatch(c.world().events, q, data)
	})
}
