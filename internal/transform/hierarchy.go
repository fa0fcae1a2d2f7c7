package transform

import (
	"github.com/boba-engine/boba/internal/assert"
	"github.com/boba-engine/boba/internal/core/ecs"
	"github.com/go-gl/mathgl/mgl64"
)

func mustGet(c ecs.Context, link Link) *Transform {
	t, ok := ecs.Get(c, link)
	assert.That(ok, "transform tree references dead node %s", link)
	return t
}

// SetLocalPos moves the transform and recomputes its subtree.
func SetLocalPos(v *View, pos mgl64.Vec3) {
	t := v.Current()
	if t.localPos == pos {
		return
	}
	t.localPos = pos
	Sync(v)
}

func SetLocalRot(v *View, rot mgl64.Quat) {
	t := v.Current()
	if t.localRot == rot {
		return
	}
	t.localRot = rot
	Sync(v)
}

func SetLocalScale(v *View, scale mgl64.Vec3) {
	t := v.Current()
	if t.localScale == scale {
		return
	}
	t.localScale = scale
	Sync(v)
}

// SetLocalPosNoSync changes the local position and leaves the world pose of
// the subtree to be recomputed when v closes.
func SetLocalPosNoSync(v *View, pos mgl64.Vec3) {
	t := v.Current()
	t.localPos = pos
	t.pendingSync = true
}

func SetLocalRotNoSync(v *View, rot mgl64.Quat) {
	t := v.Current()
	t.localRot = rot
	t.pendingSync = true
}

func SetLocalScaleNoSync(v *View, scale mgl64.Vec3) {
	t := v.Current()
	t.localScale = scale
	t.pendingSync = true
}

// SetParent attaches the transform under parent and recomputes the affected
// branches. Attaching under one of its own descendants relocates the branch
// that would close the loop to the transform's previous parent. It returns
// false, changing nothing, when parent is not a live transform.
func SetParent(v *View, parent Link) bool {
	moved, ok := reparent(v, v.Link(), parent)
	if !ok {
		return false
	}
	syncTree(v, moved)
	return true
}

// SetParentNoSync is SetParent with the transform's own recomputation left to
// the end of the view. A branch relocated to break a cycle is still
// recomputed immediately.
func SetParentNoSync(v *View, parent Link) bool {
	moved, ok := reparent(v, v.Link(), parent)
	if !ok {
		return false
	}
	if moved != v.Link() {
		syncTree(v, moved)
		return true
	}
	v.Current().pendingSync = true
	return true
}

// Unparent turns the transform into a root. Its local pose becomes its world
// pose.
func Unparent(v *View) {
	if _, ok := v.Current().Parent(); !ok {
		return
	}
	reparent(v, v.Link(), Link{})
	Sync(v)
}

// reparent rewires link under parent and returns the root of the subtree
// whose world pose is now stale. That is link itself unless a cycle had to
// be broken, in which case it is the relocated branch, which contains link.
func reparent(c ecs.Context, link, parent Link) (Link, bool) {
	if !parent.IsZero() && !ecs.Contains(c, parent) {
		return Link{}, false
	}
	t := mustGet(c, link)
	old := t.parent
	if parent == old || parent == link {
		return link, true
	}

	t.parent = parent
	if !old.IsZero() {
		mustGet(c, old).children.Delete(link)
	}
	if parent.IsZero() {
		return link, true
	}
	mustGet(c, parent).children.Set(link, struct{}{})

	// Walk up from the new parent. Reaching a root means no loop was made;
	// meeting a node whose parent is link means link was its ancestor, so
	// that node's branch moves to link's previous place in the tree.
	for node := parent; ; {
		n := mustGet(c, node)
		if n.parent.IsZero() {
			return link, true
		}
		if n.parent != link {
			node = n.parent
			continue
		}
		n.parent = old
		t.children.Delete(node)
		if !old.IsZero() {
			mustGet(c, old).children.Set(node, struct{}{})
		}
		return node, true
	}
}

// Ancestors returns the parent chain of link, nearest first. The walk stops
// after as many steps as there are transforms, so a corrupted tree yields a
// chain that repeats instead of never returning.
func Ancestors(c ecs.Context, link Link) []Link {
	var out []Link
	limit := ecs.Count[Transform](c)
	t, ok := ecs.Get(c, link)
	for ok && !t.parent.IsZero() && len(out) < limit {
		out = append(out, t.parent)
		t, ok = ecs.Get(c, t.parent)
	}
	return out
}

// IsAncestor reports whether ancestor appears in the parent chain of link.
func IsAncestor(c ecs.Context, ancestor, link Link) bool {
	for _, a := range Ancestors(c, link) {
		if a == ancestor {
			return true
		}
	}
	return false
}

// Root returns the topmost ancestor of link, or link itself for a root.
func Root(c ecs.Context, link Link) Link {
	chain := Ancestors(c, link)
	if len(chain) == 0 {
		return link
	}
	return chain[len(chain)-1]
}
