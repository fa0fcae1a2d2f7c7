package transform

import (
	"github.com/boba-engine/boba/internal/core/ecs"
	"github.com/go-gl/mathgl/mgl64"
)

// Sync recomputes the world pose of the transform and of every descendant,
// parents before children, children in attach order.
func Sync(v *View) {
	syncTree(v, v.Link())
}

func syncTree(c ecs.Context, root Link) {
	stack := []Link{root}
	for len(stack) > 0 {
		link := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		t, ok := ecs.Get(c, link)
		if !ok {
			continue
		}
		syncNode(c, t)

		children := t.Children()
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
}

func syncNode(c ecs.Context, t *Transform) {
	t.pendingSync = false
	t.localMatrix = compose(t.localPos, t.localRot, t.localScale)
	t.worldMatrix = t.localMatrix
	if p, ok := ecs.Get(c, t.parent); ok {
		t.worldMatrix = p.worldMatrix.Mul4(t.localMatrix)
	}
	t.worldPos, t.worldRot, t.lossyScale = decompose(t.worldMatrix)
}

func compose(pos mgl64.Vec3, rot mgl64.Quat, scale mgl64.Vec3) mgl64.Mat4 {
	return mgl64.Translate3D(pos[0], pos[1], pos[2]).
		Mul4(rot.Mat4()).
		Mul4(mgl64.Scale3D(scale[0], scale[1], scale[2]))
}

// decompose splits an affine matrix into translation, rotation and scale. A
// mirrored basis is reported as a negative x scale.
func decompose(m mgl64.Mat4) (mgl64.Vec3, mgl64.Quat, mgl64.Vec3) {
	pos := m.Col(3).Vec3()
	x, y, z := m.Col(0).Vec3(), m.Col(1).Vec3(), m.Col(2).Vec3()
	scale := mgl64.Vec3{x.Len(), y.Len(), z.Len()}
	if m.Det() < 0 {
		scale[0] = -scale[0]
	}
	if scale[0] == 0 || scale[1] == 0 || scale[2] == 0 {
		return pos, mgl64.QuatIdent(), scale
	}

	x, y, z = x.Mul(1/scale[0]), y.Mul(1/scale[1]), z.Mul(1/scale[2])
	basis := mgl64.Mat4FromCols(x.Vec4(0), y.Vec4(0), z.Vec4(0), mgl64.Vec4{0, 0, 0, 1})
	return pos, mgl64.Mat4ToQuat(basis).Normalize(), scale
}
