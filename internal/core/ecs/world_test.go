package ecs

import (
	"testing"

	"github.com/boba-engine/boba/internal/core/handle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type health struct{ hp int }
type position struct{ x, y int }

func TestWorld_InsertGetRoundTrip(t *testing.T) {
	t.Parallel()

	w := NewWorld()
	h := Insert(w, health{hp: 10})
	p := Insert(w, position{x: 1, y: 2})

	got, ok := Get(w, h)
	require.True(t, ok)
	assert.Equal(t, health{hp: 10}, *got)

	pos, ok := Get(w, p)
	require.True(t, ok)
	assert.Equal(t, position{x: 1, y: 2}, *pos)

	assert.Equal(t, 2, w.Types())
	assert.Equal(t, 1, Count[health](w))
	assert.True(t, Has[position](w))
}

func TestWorld_GetMutatesInPlace(t *testing.T) {
	t.Parallel()

	w := NewWorld()
	h := Insert(w, health{hp: 10})
	got, ok := Get(w, h)
	require.True(t, ok)
	got.hp = 3

	again, ok := Get(w, h)
	require.True(t, ok)
	assert.Equal(t, 3, again.hp)
}

func TestWorld_InsertKeepsOtherLinksValid(t *testing.T) {
	t.Parallel()

	w := NewWorld()
	links := make([]Link[health], 0, 200)
	for i := 0; i < 200; i++ {
		links = append(links, Insert(w, health{hp: i}))
		Insert(w, position{x: i})
	}
	for i, l := range links {
		got, ok := Get(w, l)
		require.True(t, ok)
		assert.Equal(t, i, got.hp)
	}
}

func TestWorld_RemoveInvalidatesForever(t *testing.T) {
	t.Parallel()

	w := NewWorld()
	keep := Insert(w, health{hp: 1})
	gone := Insert(w, health{hp: 2})

	value, ok := Remove(w, gone)
	require.True(t, ok)
	assert.Equal(t, 2, value.hp)
	assert.False(t, Contains(w, gone))

	reused := Insert(w, health{hp: 3})
	assert.False(t, Contains(w, gone))
	assert.True(t, Contains(w, reused))
	assert.True(t, Contains(w, keep))

	_, ok = Remove(w, gone)
	assert.False(t, ok)
}

func TestWorld_StoreTornDownWithLastInstance(t *testing.T) {
	t.Parallel()

	w := NewWorld()
	first := Insert(w, health{hp: 1})
	require.Equal(t, 1, w.Types())

	_, ok := Remove(w, first)
	require.True(t, ok)
	assert.Equal(t, 0, w.Types())
	assert.True(t, w.IsEmpty())
	assert.False(t, Has[health](w))
	assert.Equal(t, 0, Count[health](w))
	assert.Nil(t, Links[health](w))

	second := Insert(w, health{hp: 2})
	assert.False(t, Contains(w, first))
	assert.True(t, Contains(w, second))
}

func TestWorld_ForeignAndZeroLinks(t *testing.T) {
	t.Parallel()

	a := NewWorld()
	b := NewWorld()
	la := Insert(a, health{hp: 1})
	Insert(b, health{hp: 1})

	assert.False(t, Contains(b, la))
	_, ok := Get(b, la)
	assert.False(t, ok)

	var zero Link[health]
	assert.True(t, zero.IsZero())
	assert.False(t, Contains(a, zero))
	assert.False(t, With(a, zero, func(*View[health]) { t.Fatal("opened zero link") }))
}

func TestWorld_MismatchedStoreIsFatal(t *testing.T) {
	t.Parallel()

	w := NewWorld()
	h := Insert(w, health{hp: 1})
	corrupt := Link[position]{store: h.store, item: handle.Cast[position](h.item)}

	assert.Panics(t, func() { Get(w, corrupt) })
}

func TestWorld_LinksAndEach(t *testing.T) {
	t.Parallel()

	w := NewWorld()
	a := Insert(w, health{hp: 1})
	b := Insert(w, health{hp: 2})
	c := Insert(w, health{hp: 3})
	Remove(w, a)

	assert.ElementsMatch(t, []Link[health]{b, c}, Links[health](w))

	Each(w, func(_ Link[health], h *health) { h.hp *= 10 })
	var total int
	Each(w, func(_ Link[health], h *health) { total += h.hp })
	assert.Equal(t, 50, total)
}

func TestDestroy_IsDeferredAndIdempotent(t *testing.T) {
	t.Parallel()

	w := NewWorld()
	h := Insert(w, health{hp: 1})

	opened := With(w, h, func(v *View[health]) {
		assert.True(t, v.DestroySelf())
		assert.False(t, Destroy(v, h))
		assert.True(t, Contains(v, h))
		assert.Equal(t, 1, v.Current().hp)
		assert.Equal(t, 1, v.Queue().Pending())
	})
	require.True(t, opened)
	assert.False(t, Contains(w, h))

	other := Insert(w, position{})
	With(w, other, func(v *View[position]) {
		assert.False(t, Destroy(v, h))
	})
}

func TestView_NestedViewsShareQueue(t *testing.T) {
	t.Parallel()

	w := NewWorld()
	h := Insert(w, health{hp: 1})
	p := Insert(w, position{x: 5})

	With(w, h, func(outer *View[health]) {
		ok := Open(outer, p, func(inner *View[position]) {
			assert.Equal(t, 5, inner.Current().x)
			assert.True(t, Destroy(inner, h))
			assert.True(t, inner.DestroySelf())
			assert.Same(t, outer.Queue(), inner.Queue())
		})
		require.True(t, ok)
		assert.Equal(t, 2, outer.Queue().Pending())
		assert.True(t, Contains(outer, h))
		assert.True(t, Contains(outer, p))
	})

	assert.False(t, Contains(w, h))
	assert.False(t, Contains(w, p))
	assert.Equal(t, 0, w.Types())
}

func TestView_InsertInsideScopeIsImmediate(t *testing.T) {
	t.Parallel()

	w := NewWorld()
	h := Insert(w, health{hp: 1})

	var spawned Link[health]
	With(w, h, func(v *View[health]) {
		spawned = Insert(v, health{hp: v.Current().hp + 1})
		assert.True(t, Contains(v, spawned))
		assert.Equal(t, 1, v.Current().hp)
	})
	got, ok := Get(w, spawned)
	require.True(t, ok)
	assert.Equal(t, 2, got.hp)
}

func TestView_OpenStaleLinkReturnsFalse(t *testing.T) {
	t.Parallel()

	w := NewWorld()
	h := Insert(w, health{hp: 1})
	p := Insert(w, position{})
	Remove(w, p)

	With(w, h, func(v *View[health]) {
		called := false
		assert.False(t, Open(v, p, func(*View[position]) { called = true }))
		assert.False(t, called)
	})
}

// tracked records its own lifecycle into a shared log.
type tracked struct {
	name string
	log  *[]string
}

func (tracked) OnInsert(v *View[tracked]) {
	t := v.Current()
	*t.log = append(*t.log, "insert "+t.name)
}

func (tracked) OnRemove(r *Removed[tracked]) {
	*r.Value.log = append(*r.Value.log, "remove "+r.Value.name)
}

func (tracked) OnScopeEnd(v *View[tracked]) {
	t := v.Current()
	*t.log = append(*t.log, "end "+t.name)
}

func TestHooks_Lifecycle(t *testing.T) {
	t.Parallel()

	w := NewWorld()
	var log []string
	link := InsertThen(w, tracked{name: "a", log: &log}, func(v *View[tracked]) {
		*v.Current().log = append(*v.Current().log, "then a")
	})
	assert.Equal(t, []string{"insert a", "end a", "then a", "end a"}, log)

	log = log[:0]
	With(w, link, func(*View[tracked]) {})
	assert.Equal(t, []string{"end a"}, log)

	log = log[:0]
	value, ok := Remove(w, link)
	require.True(t, ok)
	assert.Equal(t, "a", value.name)
	assert.Equal(t, []string{"remove a"}, log)
}

func TestHooks_RemoveContextDefersDestroys(t *testing.T) {
	t.Parallel()

	w := NewWorld()
	var log []string
	first := Insert(w, owner{name: "first", log: &log})
	second := Insert(w, owner{name: "second", log: &log, victim: first})

	Remove(w, second)
	assert.Equal(t, []string{"remove second", "queued second victim", "remove first"}, log)
	assert.False(t, Contains(w, first))
}

// owner takes its victim down with it.
type owner struct {
	name   string
	log    *[]string
	victim Link[owner]
}

func (owner) OnRemove(r *Removed[owner]) {
	*r.Value.log = append(*r.Value.log, "remove "+r.Value.name)
	if !r.Value.victim.IsZero() && Destroy(r, r.Value.victim) && Contains(r, r.Value.victim) {
		*r.Value.log = append(*r.Value.log, "queued "+r.Value.name+" victim")
	}
}
