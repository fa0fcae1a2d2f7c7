package ecs

// Components opt into lifecycle callbacks by implementing any of the
// interfaces below on a value receiver. The world calls them on the zero
// value of the component type, so the receiver carries no state: work goes
// through the View or removal context argument.

// Registerer is called once, when the first instance of P is inserted into a
// world that has no store for P. It is where a component declares the events
// it listens to.
type Registerer[P any] interface {
	Register(src *EventSource[P])
}

// Inserter runs right after an instance is stored.
type Inserter[P any] interface {
	OnInsert(v *View[P])
}

// Remover runs after an instance was taken out of the world.
type Remover[P any] interface {
	OnRemove(r *Removed[P])
}

// ScopeEnder runs when a View over an instance closes.
type ScopeEnder[P any] interface {
	OnScopeEnd(v *View[P])
}

// Listener receives events of type E for every live instance of P.
type Listener[E, P any] interface {
	Trigger(v *View[P], data *E)
}

func hookOf[H, P any]() (H, bool) {
	var zero P
	if h, ok := any(zero).(H); ok {
		return h, true
	}
	h, ok := any(&zero).(H)
	return h, ok
}

// Removed gives an OnRemove hook the removed value and a scope over the
// world it left. Destroys queued through it are flushed when the hook returns.
type Removed[P any] struct {
	q     *Queue
	link  Link[P]
	Value *P
}

// OldLink is the link the value was stored under. It no longer resolves.
func (r *Removed[P]) OldLink() Link[P] { return r.link }

func (r *Removed[P]) world() *World { return r.q.w }
func (r *Removed[P]) queue() *Queue { return r.q }
