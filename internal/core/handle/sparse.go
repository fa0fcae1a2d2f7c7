package handle

import "github.com/boba-engine/boba/internal/assert"

type sparseEntry[T any] struct {
	handle   Handle[T]
	value    T
	occupied bool
}

// SparseMap stores values behind generational handles. Removing a value leaves
// a hole that is refilled, oldest first, by later inserts with the slot's
// generation bumped so stale handles stop resolving.
type SparseMap[T any] struct {
	id       uint16
	entries  []sparseEntry[T]
	freeList []uint32
}

func NewSparseMap[T any]() *SparseMap[T] {
	return &SparseMap[T]{
		id:       NextMapID(),
		entries:  make([]sparseEntry[T], 0, 64),
		freeList: make([]uint32, 0, 16),
	}
}

// ID returns the metadata tag stamped on every handle of this map.
func (m *SparseMap[T]) ID() uint16 { return m.id }

func (m *SparseMap[T]) Len() int      { return len(m.entries) - len(m.freeList) }
func (m *SparseMap[T]) IsEmpty() bool { return m.Len() == 0 }

// PredictHandle returns the handle the n-th future insert (zero based) will
// receive. The prediction only holds for an unbroken chain of inserts; any
// removal in between invalidates it.
func (m *SparseMap[T]) PredictHandle(n int) Handle[T] {
	if n < len(m.freeList) {
		return m.entries[m.freeList[n]].handle
	}
	index := len(m.entries) + n - len(m.freeList)
	assert.That(fitsIndex(index), "sparse map %d capacity overflow", m.id)
	return FromParts[T](uint32(index), 0, m.id)
}

// fitsIndex reports whether n can be stored in a handle's index bits.
func fitsIndex(n int) bool {
	return n >= 0 && uint64(n) <= MaxIndex
}

// Insert stores value and returns its handle.
func (m *SparseMap[T]) Insert(value T) Handle[T] {
	if len(m.freeList) > 0 {
		index := m.freeList[0]
		m.freeList = m.freeList[1:]
		entry := &m.entries[index]
		entry.value = value
		entry.occupied = true
		return entry.handle
	}

	index := len(m.entries)
	assert.That(fitsIndex(index), "sparse map %d capacity overflow", m.id)
	h := FromParts[T](uint32(index), 0, m.id)
	m.entries = append(m.entries, sparseEntry[T]{handle: h, value: value, occupied: true})
	return h
}

func (m *SparseMap[T]) entry(h Handle[T]) *sparseEntry[T] {
	index := int(h.Index())
	if index >= len(m.entries) {
		return nil
	}
	e := &m.entries[index]
	if !e.occupied || e.handle != h {
		return nil
	}
	return e
}

// Contains reports whether h currently resolves in this map.
func (m *SparseMap[T]) Contains(h Handle[T]) bool {
	return m.entry(h) != nil
}

// Get returns a pointer to the value behind h. The pointer is valid until the
// next Insert.
func (m *SparseMap[T]) Get(h Handle[T]) (*T, bool) {
	e := m.entry(h)
	if e == nil {
		return nil, false
	}
	return &e.value, true
}

// Remove takes the value out of the map and invalidates h.
func (m *SparseMap[T]) Remove(h Handle[T]) (T, bool) {
	var zero T
	e := m.entry(h)
	if e == nil {
		return zero, false
	}
	value := e.value
	e.value = zero
	e.occupied = false
	e.handle = e.handle.bump()
	m.freeList = append(m.freeList, h.Index())
	return value, true
}

// Each calls fn for every occupied slot in index order.
func (m *SparseMap[T]) Each(fn func(Handle[T], *T)) {
	for i := range m.entries {
		e := &m.entries[i]
		if e.occupied {
			fn(e.handle, &e.value)
		}
	}
}
