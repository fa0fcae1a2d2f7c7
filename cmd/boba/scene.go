package main

import (
	"math"

	"github.com/boba-engine/boba/internal/core/ecs"
	"github.com/boba-engine/boba/internal/data"
	"github.com/boba-engine/boba/internal/scripting"
	"github.com/boba-engine/boba/internal/taro"
	"github.com/boba-engine/boba/internal/transform"
	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/rotisserie/eris"
)

type spawnResult struct {
	links      map[string]transform.Link
	camera     transform.Link
	count      int
	behaviours int
}

// spawnScene inserts one transform per scene node, attaches it to its parent
// and adds the sprite and behaviour the node asks for.
func spawnScene(w *ecs.World, scene *data.SceneTable, engine *scripting.Engine) (*spawnResult, error) {
	res := &spawnResult{links: make(map[string]transform.Link, scene.Count())}

	for _, n := range scene.Nodes() {
		if n.Behavior != "" && !engine.Has(n.Behavior) {
			return nil, eris.Errorf("node %q: unknown behaviour %q", n.Name, n.Behavior)
		}
	}

	for _, n := range scene.Nodes() {
		scale := n.ScaleOrUnit()
		rot := mgl64.QuatRotate(n.Angle*math.Pi/180, mgl64.Vec3{0, 0, 1})
		link := ecs.Insert(w, transform.FromPosRotScale(mgl64.Vec3(n.Pos), rot, mgl64.Vec3(scale)))
		res.links[n.Name] = link
		res.count++

		if n.Parent != "" {
			parent := res.links[n.Parent]
			ecs.With(w, link, func(v *transform.View) {
				transform.SetParent(v, parent)
			})
		}
		if n.Glyph != "" {
			ecs.Insert(w, taro.Sprite{
				Transform: link,
				Glyph:     firstRune(n.Glyph),
				Color:     tcell.GetColor(n.Color),
			})
		}
		if n.Behavior != "" {
			ecs.Insert(w, scripting.Behavior{Target: link, Func: n.Behavior, Engine: engine})
			res.behaviours++
		}
	}

	if scene.Camera() != "" {
		res.camera = res.links[scene.Camera()]
	}
	return res, nil
}
