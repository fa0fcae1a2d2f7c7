package ecs

import (
	"fmt"

	"github.com/boba-engine/boba/internal/core/event"
	"github.com/boba-engine/boba/internal/core/handle"
)

// Link identifies one instance of component P inside a World: the handle of
// P's store, then the handle of the instance inside that store. A Link stops
// resolving for good once either level is removed. The zero Link never
// resolves.
type Link[P any] struct {
	store handle.Handle[store]
	item  handle.Handle[P]
}

// ID returns the raw id of the instance handle.
func (l Link[P]) ID() uint64 { return l.item.Raw() }

func (l Link[P]) IsZero() bool { return l.store.IsZero() && l.item.IsZero() }

func (l Link[P]) String() string {
	return fmt.Sprintf("Link<%s>(%d)", event.KeyOf[P](), l.item.Raw())
}

type linkKey struct {
	store uint64
	item  uint64
}

func (l Link[P]) key() linkKey {
	return linkKey{store: l.store.Raw(), item: l.item.Raw()}
}
