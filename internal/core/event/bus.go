package event

import "reflect"

// Key identifies a Go type: an event payload type or a listener type.
type Key = reflect.Type

// KeyOf returns the key for T.
func KeyOf[T any]() Key {
	return reflect.TypeFor[T]()
}

// Runner prepares one listener type for a dispatch pass. It is called before
// any listener runs, so it can capture the instances that exist at trigger
// time, and returns the function that delivers the payload to them.
type Runner[S, E any] func(scope S) func(data *E)

// Bus maps event types to their runner tables. S is the scope handed to every
// runner. Single-goroutine access only (game loop).
type Bus[S any] struct {
	tables map[Key]any
}

func NewBus[S any]() *Bus[S] {
	return &Bus[S]{tables: make(map[Key]any)}
}

// Len returns the number of event types with at least one listener.
func (b *Bus[S]) Len() int { return len(b.tables) }

// Listen registers r for events of type E on behalf of listener. Registration
// is per (event, listener) pair; a repeated call is a no-op and returns false.
func Listen[E, S any](b *Bus[S], listener Key, r Runner[S, E]) bool {
	key := KeyOf[E]()
	t, ok := b.tables[key].(*table[S, E])
	if !ok {
		t = newTable[S, E]()
		b.tables[key] = t
	}
	return t.add(listener, r)
}

// Unlisten drops the listener's runner for E. The table is discarded once
// nobody listens to E any more.
func Unlisten[E, S any](b *Bus[S], listener Key) bool {
	key := KeyOf[E]()
	t, ok := b.tables[key].(*table[S, E])
	if !ok {
		return false
	}
	removed := t.remove(listener)
	if t.len() == 0 {
		delete(b.tables, key)
	}
	return removed
}

// Listening reports whether listener has a runner registered for E.
func Listening[E, S any](b *Bus[S], listener Key) bool {
	t, ok := b.tables[KeyOf[E]()].(*table[S, E])
	return ok && t.has(listener)
}

// Dispatch snapshots every runner for E in registration order, prepares all of
// them against scope, then delivers data. Listeners added or removed while the
// pass runs only affect later passes.
func Dispatch[E, S any](b *Bus[S], scope S, data *E) int {
	t, ok := b.tables[KeyOf[E]()].(*table[S, E])
	if !ok {
		return 0
	}
	runners := t.snapshot()
	prepared := make([]func(*E), len(runners))
	for i, r := range runners {
		prepared[i] = r(scope)
	}
	for _, run := range prepared {
		run(data)
	}
	return len(prepared)
}
