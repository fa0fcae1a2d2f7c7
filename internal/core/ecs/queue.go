package ecs

// Queue defers structural changes while views are open. Removing from a dense
// store moves another instance into the hole, so destroys requested inside a
// scope wait until the outermost scope closes and are applied in request
// order.
type Queue struct {
	w         *World
	pending   []func(*World)
	destroyed map[linkKey]struct{}
}

func newQueue(w *World) *Queue {
	return &Queue{w: w}
}

func (q *Queue) world() *World { return q.w }
func (q *Queue) queue() *Queue { return q }

// Defer queues fn to run against the world when the queue is flushed.
func (q *Queue) Defer(fn func(w *World)) {
	q.pending = append(q.pending, fn)
}

// Pending returns the number of queued operations.
func (q *Queue) Pending() int { return len(q.pending) }

func (q *Queue) flush() {
	for len(q.pending) > 0 {
		ops := q.pending
		q.pending = nil
		for _, op := range ops {
			op(q.w)
		}
	}
	q.destroyed = nil
}

// Destroy queues the removal of link. It returns false when link does not
// resolve or is already queued, so a second destroy of the same link is a
// no-op.
func Destroy[P any](s Scope, link Link[P]) bool {
	q := s.queue()
	if !Contains(q, link) {
		return false
	}
	key := link.key()
	if _, queued := q.destroyed[key]; queued {
		return false
	}
	if q.destroyed == nil {
		q.destroyed = make(map[linkKey]struct{}, 8)
	}
	q.destroyed[key] = struct{}{}
	q.Defer(func(w *World) {
		Remove(w, link)
	})
	return true
}
