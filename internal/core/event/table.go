package event

import orderedmap "github.com/wk8/go-ordered-map/v2"

// table is an insertion-ordered set of runners keyed by listener type.
type table[S, E any] struct {
	runners *orderedmap.OrderedMap[Key, Runner[S, E]]
}

func newTable[S, E any]() *table[S, E] {
	return &table[S, E]{runners: orderedmap.New[Key, Runner[S, E]](4)}
}

func (t *table[S, E]) len() int { return t.runners.Len() }

func (t *table[S, E]) has(k Key) bool {
	_, ok := t.runners.Get(k)
	return ok
}

func (t *table[S, E]) add(k Key, r Runner[S, E]) bool {
	if t.has(k) {
		return false
	}
	t.runners.Set(k, r)
	return true
}

func (t *table[S, E]) remove(k Key) bool {
	_, ok := t.runners.Delete(k)
	return ok
}

func (t *table[S, E]) snapshot() []Runner[S, E] {
	out := make([]Runner[S, E], 0, t.runners.Len())
	for pair := t.runners.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value)
	}
	return out
}
