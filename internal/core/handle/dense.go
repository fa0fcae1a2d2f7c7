package handle

// DenseMap keeps its values packed in one slice. Handles resolve through an
// internal SparseMap of positions; removal swaps the last value into the hole
// and patches the moved value's position, so handles survive compaction.
type DenseMap[T any] struct {
	positions *SparseMap[int]
	backLink  []Handle[T]
	values    []T
}

func NewDenseMap[T any]() *DenseMap[T] {
	return &DenseMap[T]{
		positions: NewSparseMap[int](),
		backLink:  make([]Handle[T], 0, 64),
		values:    make([]T, 0, 64),
	}
}

func (m *DenseMap[T]) ID() uint16    { return m.positions.ID() }
func (m *DenseMap[T]) Len() int      { return len(m.values) }
func (m *DenseMap[T]) IsEmpty() bool { return len(m.values) == 0 }

// PredictHandle has the same contract as SparseMap.PredictHandle.
func (m *DenseMap[T]) PredictHandle(n int) Handle[T] {
	return Cast[T](m.positions.PredictHandle(n))
}

func (m *DenseMap[T]) Insert(value T) Handle[T] {
	h := Cast[T](m.positions.Insert(len(m.values)))
	m.backLink = append(m.backLink, h)
	m.values = append(m.values, value)
	return h
}

func (m *DenseMap[T]) Contains(h Handle[T]) bool {
	return m.positions.Contains(Cast[int](h))
}

// Get returns a pointer into the packed slice. It is valid until the next
// Insert or Remove.
func (m *DenseMap[T]) Get(h Handle[T]) (*T, bool) {
	pos, ok := m.positions.Get(Cast[int](h))
	if !ok {
		return nil, false
	}
	return &m.values[*pos], true
}

func (m *DenseMap[T]) Remove(h Handle[T]) (T, bool) {
	var zero T
	pos, ok := m.positions.Remove(Cast[int](h))
	if !ok {
		return zero, false
	}

	last := len(m.values) - 1
	value := m.values[pos]
	if pos != last {
		m.values[pos] = m.values[last]
		m.backLink[pos] = m.backLink[last]
		moved, _ := m.positions.Get(Cast[int](m.backLink[pos]))
		*moved = pos
	}
	m.values[last] = zero
	m.values = m.values[:last]
	m.backLink = m.backLink[:last]
	return value, true
}

// Handles returns a copy of the live handles in packed order.
func (m *DenseMap[T]) Handles() []Handle[T] {
	out := make([]Handle[T], len(m.backLink))
	copy(out, m.backLink)
	return out
}

// Values exposes the packed values. The slice aliases the map's storage.
func (m *DenseMap[T]) Values() []T {
	return m.values
}

func (m *DenseMap[T]) Each(fn func(Handle[T], *T)) {
	for i := range m.values {
		fn(m.backLink[i], &m.values[i])
	}
}
