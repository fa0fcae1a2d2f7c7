package scripting

import (
	"math"

	"github.com/boba-engine/boba/internal/core/ecs"
	"github.com/boba-engine/boba/internal/milktea"
	"github.com/boba-engine/boba/internal/transform"
	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"
)

// Behavior drives a transform from a Lua function every Update. It removes
// itself when its transform is gone or its script fails.
type Behavior struct {
	Target transform.Link
	Func   string
	Engine *Engine
}

func (Behavior) Register(src *ecs.EventSource[Behavior]) {
	ecs.Listen[milktea.Update](src)
}

func (Behavior) Trigger(v *ecs.View[Behavior], e *milktea.Update) {
	b := *v.Current()
	if b.Engine == nil {
		return
	}

	ok := true
	opened := ecs.Open(v, b.Target, func(tv *transform.View) {
		t := tv.Current()
		pos := t.LocalPos()
		in := StepContext{
			DT:   e.DeltaSeconds(),
			Time: e.GameTime().Seconds(),
			Pose: Pose{X: pos[0], Y: pos[1], Z: pos[2], Angle: angleZ(t.LocalRot())},
		}
		var out Pose
		out, ok = b.Engine.Step(b.Func, in)
		if !ok || out == in.Pose {
			return
		}
		transform.SetLocalPosNoSync(tv, mgl64.Vec3{out.X, out.Y, out.Z})
		if out.Angle != in.Pose.Angle {
			transform.SetLocalRotNoSync(tv, mgl64.QuatRotate(out.Angle, mgl64.Vec3{0, 0, 1}))
		}
	})
	if !opened || !ok {
		b.Engine.log.Info("behaviour stopped",
			zap.String("func", b.Func),
			zap.Bool("target_alive", opened),
		)
		v.DestroySelf()
	}
}

// angleZ reads the rotation about Z from a quaternion that only rotates
// about Z.
func angleZ(q mgl64.Quat) float64 {
	return 2 * math.Atan2(q.V[2], q.W)
}
