// Package transform implements the hierarchical pose component: local and
// world position, rotation and scale plus parent/children links, kept
// consistent down the tree on every change.
package transform

import (
	"github.com/boba-engine/boba/internal/core/ecs"
	"github.com/go-gl/mathgl/mgl64"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Link addresses a Transform stored in a world.
type Link = ecs.Link[Transform]

// View is an open scope over one Transform.
type View = ecs.View[Transform]

type childSet = orderedmap.OrderedMap[Link, struct{}]

// Transform is a node of the scene graph. Construct it with New or one of the
// From helpers and insert it into a world; the world matrix is only
// maintained for inserted transforms. The zero Transform is inserted as the
// identity.
type Transform struct {
	localMatrix mgl64.Mat4
	worldMatrix mgl64.Mat4
	localPos    mgl64.Vec3
	worldPos    mgl64.Vec3
	localRot    mgl64.Quat
	worldRot    mgl64.Quat
	localScale  mgl64.Vec3
	lossyScale  mgl64.Vec3
	pendingSync bool

	link     Link
	parent   Link
	children *childSet
}

func New() Transform {
	return FromPosRotScale(mgl64.Vec3{}, mgl64.QuatIdent(), mgl64.Vec3{1, 1, 1})
}

func FromPos(pos mgl64.Vec3) Transform {
	return FromPosRotScale(pos, mgl64.QuatIdent(), mgl64.Vec3{1, 1, 1})
}

func FromRot(rot mgl64.Quat) Transform {
	return FromPosRotScale(mgl64.Vec3{}, rot, mgl64.Vec3{1, 1, 1})
}

func FromScale(scale mgl64.Vec3) Transform {
	return FromPosRotScale(mgl64.Vec3{}, mgl64.QuatIdent(), scale)
}

func FromPosRot(pos mgl64.Vec3, rot mgl64.Quat) Transform {
	return FromPosRotScale(pos, rot, mgl64.Vec3{1, 1, 1})
}

func FromPosScale(pos, scale mgl64.Vec3) Transform {
	return FromPosRotScale(pos, mgl64.QuatIdent(), scale)
}

func FromRotScale(rot mgl64.Quat, scale mgl64.Vec3) Transform {
	return FromPosRotScale(mgl64.Vec3{}, rot, scale)
}

// FromPosRotScale builds a root transform with the given local pose. Until it
// gets a parent its world pose equals its local pose.
func FromPosRotScale(pos mgl64.Vec3, rot mgl64.Quat, scale mgl64.Vec3) Transform {
	m := compose(pos, rot, scale)
	return Transform{
		localMatrix: m,
		worldMatrix: m,
		localPos:    pos,
		worldPos:    pos,
		localRot:    rot,
		worldRot:    rot,
		localScale:  scale,
		lossyScale:  scale,
	}
}

func (t *Transform) LocalMatrix() mgl64.Mat4 { return t.localMatrix }
func (t *Transform) WorldMatrix() mgl64.Mat4 { return t.worldMatrix }
func (t *Transform) LocalPos() mgl64.Vec3    { return t.localPos }
func (t *Transform) WorldPos() mgl64.Vec3    { return t.worldPos }
func (t *Transform) LocalRot() mgl64.Quat    { return t.localRot }
func (t *Transform) WorldRot() mgl64.Quat    { return t.worldRot }
func (t *Transform) LocalScale() mgl64.Vec3  { return t.localScale }

// LossyScale is the scale decomposed from the world matrix. It is exact only
// when no ancestor combines rotation with non-uniform scale.
func (t *Transform) LossyScale() mgl64.Vec3 { return t.lossyScale }

// Link is the link this transform was inserted under.
func (t *Transform) Link() Link { return t.link }

// Parent returns the parent link, or false for a root.
func (t *Transform) Parent() (Link, bool) {
	return t.parent, !t.parent.IsZero()
}

// Children returns a snapshot of the child links in attach order.
func (t *Transform) Children() []Link {
	if t.children == nil {
		return nil
	}
	out := make([]Link, 0, t.children.Len())
	for pair := t.children.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Key)
	}
	return out
}

func (t *Transform) HasChild(child Link) bool {
	if t.children == nil {
		return false
	}
	_, ok := t.children.Get(child)
	return ok
}

// PendingSync reports whether a NoSync change is waiting for its view to close.
func (t *Transform) PendingSync() bool { return t.pendingSync }

func (Transform) OnInsert(v *View) {
	t := v.Current()
	if *t == (Transform{}) {
		*t = New()
	}
	t.link = v.Link()
	t.parent = Link{}
	t.children = orderedmap.New[Link, struct{}]()
	t.pendingSync = false
	syncNode(v, t)
}

// OnRemove re-attaches the removed node's children to its former parent, or
// makes them roots, and recomputes their subtrees.
func (Transform) OnRemove(r *ecs.Removed[Transform]) {
	old := r.Value
	link := r.OldLink()

	parent, hasParent := ecs.Get(r, old.parent)
	if hasParent {
		parent.children.Delete(link)
	}

	children := old.Children()
	for _, child := range children {
		c, ok := ecs.Get(r, child)
		if !ok {
			continue
		}
		c.parent = Link{}
		if hasParent {
			c.parent = old.parent
			parent.children.Set(child, struct{}{})
		}
	}
	for _, child := range children {
		syncTree(r, child)
	}
	old.parent = Link{}
	old.children = nil
}

func (Transform) OnScopeEnd(v *View) {
	if v.Current().pendingSync {
		Sync(v)
	}
}
