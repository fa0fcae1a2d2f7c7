package handle

import (
	"fmt"
	"math"
	"reflect"
	"sync/atomic"
)

const (
	genShift  = 32
	metaShift = 48

	// MaxIndex is the largest slot index a map may hand out.
	MaxIndex = math.MaxUint32
)

// Handle encodes a 32-bit slot index in the lower bits, a 16-bit generation
// above it and a 16-bit metadata tag in the top bits. The type parameter only
// records intent; the bit pattern can be moved between types with Cast.
type Handle[T any] struct {
	raw uint64
}

// FromRaw returns a handle wrapping the raw id.
func FromRaw[T any](raw uint64) Handle[T] {
	return Handle[T]{raw: raw}
}

// FromParts packs index, generation and metadata into a handle.
func FromParts[T any](index uint32, generation uint16, meta uint16) Handle[T] {
	return Handle[T]{raw: uint64(index) | uint64(generation)<<genShift | uint64(meta)<<metaShift}
}

// Cast reinterprets h as a handle for another type.
func Cast[U, T any](h Handle[T]) Handle[U] {
	return Handle[U]{raw: h.raw}
}

func (h Handle[T]) Raw() uint64        { return h.raw }
func (h Handle[T]) Index() uint32      { return uint32(h.raw) }
func (h Handle[T]) Generation() uint16 { return uint16(h.raw >> genShift) }
func (h Handle[T]) Meta() uint16       { return uint16(h.raw >> metaShift) }
func (h Handle[T]) IsZero() bool       { return h.raw == 0 }

// Parts decomposes the handle into index, generation and metadata.
func (h Handle[T]) Parts() (uint32, uint16, uint16) {
	return h.Index(), h.Generation(), h.Meta()
}

func (h Handle[T]) bump() Handle[T] {
	index, gen, meta := h.Parts()
	return FromParts[T](index, gen+1, meta)
}

func (h Handle[T]) String() string {
	var zero T
	return fmt.Sprintf("Handle<%s>{index: %d, gen: %d, meta: %d}",
		reflect.TypeOf(&zero).Elem(), h.Index(), h.Generation(), h.Meta())
}

var mapIDs atomic.Uint32

// NextMapID returns a process-unique, non-zero id used as the metadata tag of
// every handle a map issues. Ids wrap after 65535 maps; zero is skipped so the
// zero Handle is never valid.
func NextMapID() uint16 {
	for {
		id := uint16(mapIDs.Add(1))
		if id != 0 {
			return id
		}
	}
}
