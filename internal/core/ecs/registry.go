package ecs

import (
	"github.com/boba-engine/boba/internal/assert"
	"github.com/boba-engine/boba/internal/core/event"
	"github.com/boba-engine/boba/internal/core/handle"
	"go.uber.org/zap"
)

// store is the type-erased face of a component store. Every concrete store is
// a *handle.DenseMap[P]; the world only needs its size without knowing P.
type store interface {
	Len() int
}

// storeEntry is the bookkeeping kept per component type next to its store.
type storeEntry struct {
	handle   handle.Handle[store]
	unlisten []func()
}

// registry tracks one store per component type and tears a store down
// together with its event registrations when it empties.
type registry struct {
	stores  *handle.SparseMap[store]
	entries map[event.Key]*storeEntry
}

func newRegistry() registry {
	return registry{
		stores:  handle.NewSparseMap[store](),
		entries: make(map[event.Key]*storeEntry, 16),
	}
}

func asDense[P any](boxed store, h handle.Handle[store]) *handle.DenseMap[P] {
	m, ok := boxed.(*handle.DenseMap[P])
	assert.That(ok, "store %s does not hold %s", h, event.KeyOf[P]())
	return m
}

// resolve returns the store a link names, or false when the store is gone.
func resolve[P any](w *World, link Link[P]) (*handle.DenseMap[P], bool) {
	boxed, ok := w.reg.stores.Get(link.store)
	if !ok {
		return nil, false
	}
	return asDense[P](*boxed, link.store), true
}

// storeFor returns the current store for P, if one exists.
func storeFor[P any](w *World) (*handle.DenseMap[P], handle.Handle[store], bool) {
	entry, ok := w.reg.entries[event.KeyOf[P]()]
	if !ok {
		return nil, handle.Handle[store]{}, false
	}
	boxed, ok := w.reg.stores.Get(entry.handle)
	assert.That(ok, "store entry for %s points at a removed store", event.KeyOf[P]())
	return asDense[P](*boxed, entry.handle), entry.handle, true
}

// insertValue stores value, creating P's store on first use. The returned
// bool is true when the store was created by this call.
func insertValue[P any](w *World, value P) (Link[P], bool) {
	if m, h, ok := storeFor[P](w); ok {
		return Link[P]{store: h, item: m.Insert(value)}, false
	}

	key := event.KeyOf[P]()
	m := handle.NewDenseMap[P]()
	item := m.Insert(value)
	h := w.reg.stores.Insert(m)
	entry := &storeEntry{handle: h}
	w.reg.entries[key] = entry
	w.log.Debug("component store created",
		zap.Stringer("component", key),
		zap.Uint16("map_id", m.ID()),
	)

	if r, ok := hookOf[Registerer[P], P](); ok {
		r.Register(&EventSource[P]{w: w, entry: entry})
	}
	return Link[P]{store: h, item: item}, true
}

// teardown drops P's store and every event registration made for P.
func teardown[P any](w *World, h handle.Handle[store]) {
	key := event.KeyOf[P]()
	entry, ok := w.reg.entries[key]
	assert.That(ok && entry.handle == h, "teardown of unknown store %s for %s", h, key)

	delete(w.reg.entries, key)
	w.reg.stores.Remove(h)
	for _, unlisten := range entry.unlisten {
		unlisten()
	}
	w.log.Debug("component store removed",
		zap.Stringer("component", key),
		zap.Int("listeners", len(entry.unlisten)),
	)
}
