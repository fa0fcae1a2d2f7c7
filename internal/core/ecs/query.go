package ecs

import "github.com/boba-engine/boba/internal/core/handle"

// Links returns a snapshot of the links of every live P in packed order.
func Links[P any](c Context) []Link[P] {
	m, h, ok := storeFor[P](c.world())
	if !ok {
		return nil
	}
	items := m.Handles()
	out := make([]Link[P], len(items))
	for i, item := range items {
		out[i] = Link[P]{store: h, item: item}
	}
	return out
}

// Each calls fn for every live P. fn may mutate the instance but must not
// insert or remove instances of P.
func Each[P any](c Context, fn func(Link[P], *P)) {
	m, h, ok := storeFor[P](c.world())
	if !ok {
		return
	}
	m.Each(func(item handle.Handle[P], p *P) {
		fn(Link[P]{store: h, item: item}, p)
	})
}
