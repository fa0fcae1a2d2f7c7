package ecs

import (
	"github.com/boba-engine/boba/internal/core/event"
	"go.uber.org/zap"
)

// EventSource is handed to a component's Register hook.
type EventSource[P any] struct {
	w     *World
	entry *storeEntry
}

// Listen subscribes component type P to events of type E. Each trigger of E
// opens a View on every instance of P that existed when the trigger started
// and calls its Trigger method. Subscribing twice is a no-op. The
// subscription is dropped when P's store is torn down.
func Listen[E any, P Listener[E, P]](src *EventSource[P]) bool {
	var zero P
	return ListenFunc(src, zero.Trigger)
}

// ListenFunc is Listen with an explicit callback, for components that handle
// more than one event type.
func ListenFunc[E, P any](src *EventSource[P], fn func(v *View[P], data *E)) bool {
	listener := event.KeyOf[P]()
	added := event.Listen[E, *Queue](src.w.events, listener, func(q *Queue) func(*E) {
		links := Links[P](q)
		return func(data *E) {
			for _, link := range links {
				Open(q, link, func(v *View[P]) {
					fn(v, data)
				})
			}
		}
	})
	if !added {
		return false
	}

	events := src.w.events
	src.entry.unlisten = append(src.entry.unlisten, func() {
		event.Unlisten[E](events, listener)
	})
	src.w.log.Debug("listener registered",
		zap.Stringer("component", listener),
		zap.Stringer("event", event.KeyOf[E]()),
	)
	return true
}
