// Package signal delivers messages to individual component instances, as
// opposed to the ecs event bus which addresses every instance of a listening
// type.
package signal

import (
	"github.com/boba-engine/boba/internal/core/ecs"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// deliver opens the listener's view and reports whether it still resolved.
type deliver[T any] func(s ecs.Scope, msg *T) bool

// Signal is a list of instance listeners kept in connection order. Each
// instance is connected at most once; connecting it again replaces its
// callback in place.
type Signal[T any] struct {
	listeners *orderedmap.OrderedMap[any, deliver[T]]
}

func New[T any]() *Signal[T] {
	return &Signal[T]{listeners: orderedmap.New[any, deliver[T]]()}
}

func (s *Signal[T]) Len() int { return s.listeners.Len() }

// Connect makes fn receive every message sent on s through a View over link.
func Connect[P, T any](s *Signal[T], link ecs.Link[P], fn func(v *ecs.View[P], msg *T)) {
	s.listeners.Set(link, func(scope ecs.Scope, msg *T) bool {
		return ecs.Open(scope, link, func(v *ecs.View[P]) {
			fn(v, msg)
		})
	})
}

// Disconnect removes link's listener. Remaining listeners keep their order.
func Disconnect[P, T any](s *Signal[T], link ecs.Link[P]) bool {
	_, ok := s.listeners.Delete(link)
	return ok
}

func Connected[P, T any](s *Signal[T], link ecs.Link[P]) bool {
	_, ok := s.listeners.Get(link)
	return ok
}

// Send delivers msg to the listeners connected when the call starts, in
// connection order. Listeners whose instance no longer exists are skipped and
// dropped. It returns the number of listeners that received msg.
func (s *Signal[T]) Send(c ecs.Context, msg *T) int {
	type target struct {
		key any
		fn  deliver[T]
	}
	targets := make([]target, 0, s.listeners.Len())
	for pair := s.listeners.Oldest(); pair != nil; pair = pair.Next() {
		targets = append(targets, target{key: pair.Key, fn: pair.Value})
	}

	var sent int
	var stale []any
	ecs.Within(c, func(scope ecs.Scope) {
		for _, t := range targets {
			if t.fn(scope, msg) {
				sent++
			} else {
				stale = append(stale, t.key)
			}
		}
	})
	for _, key := range stale {
		s.listeners.Delete(key)
	}
	return sent
}
