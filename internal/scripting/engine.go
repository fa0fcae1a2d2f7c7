package scripting

import (
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM for behaviour scripts.
// Single-goroutine access only (the driver loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads every script in scriptsDir. A
// missing directory yields an engine with no behaviours.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	if log == nil {
		log = zap.NewNop()
	}
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}
	if err := e.loadDir(scriptsDir); err != nil {
		vm.Close()
		return nil, eris.Wrap(err, "load behaviour scripts")
	}
	return e, nil
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return eris.Wrapf(err, "read %s", dir)
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return eris.Wrapf(err, "load %s", path)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// LoadString runs a chunk of Lua source, typically to define behaviours.
func (e *Engine) LoadString(name, src string) error {
	fn, err := e.vm.LoadString(src)
	if err != nil {
		return eris.Wrapf(err, "compile %s", name)
	}
	e.vm.Push(fn)
	if err := e.vm.PCall(0, lua.MultRet, nil); err != nil {
		return eris.Wrapf(err, "run %s", name)
	}
	return nil
}

// Has reports whether a global Lua function with the given name exists.
func (e *Engine) Has(name string) bool {
	_, ok := e.vm.GetGlobal(name).(*lua.LFunction)
	return ok
}

// Pose is the part of a transform a behaviour may change. Angle is a
// rotation about Z in radians.
type Pose struct {
	X, Y, Z float64
	Angle   float64
}

// StepContext is handed to a behaviour once per frame.
type StepContext struct {
	DT   float64 // seconds since the previous frame
	Time float64 // seconds since start
	Pose Pose
}

// Step calls the Lua function name(ctx) and returns the pose it reports.
// Fields missing from the returned table keep their current value; a nil
// return keeps the whole pose. The second result is false when the call
// failed.
func (e *Engine) Step(name string, ctx StepContext) (Pose, bool) {
	fn := e.vm.GetGlobal(name)
	if fn == lua.LNil {
		e.log.Error("lua behaviour not found", zap.String("name", name))
		return ctx.Pose, false
	}

	t := e.vm.NewTable()
	t.RawSetString("dt", lua.LNumber(ctx.DT))
	t.RawSetString("time", lua.LNumber(ctx.Time))
	t.RawSetString("x", lua.LNumber(ctx.Pose.X))
	t.RawSetString("y", lua.LNumber(ctx.Pose.Y))
	t.RawSetString("z", lua.LNumber(ctx.Pose.Z))
	t.RawSetString("angle", lua.LNumber(ctx.Pose.Angle))

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua behaviour error", zap.String("name", name), zap.Error(err))
		return ctx.Pose, false
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	if result == lua.LNil {
		return ctx.Pose, true
	}
	rt, ok := result.(*lua.LTable)
	if !ok {
		e.log.Error("lua behaviour returned non-table",
			zap.String("name", name),
			zap.String("type", result.Type().String()),
		)
		return ctx.Pose, false
	}

	return Pose{
		X:     lFloat(rt, "x", ctx.Pose.X),
		Y:     lFloat(rt, "y", ctx.Pose.Y),
		Z:     lFloat(rt, "z", ctx.Pose.Z),
		Angle: lFloat(rt, "angle", ctx.Pose.Angle),
	}, true
}

// lFloat reads a number field from a Lua table, falling back to def.
func lFloat(t *lua.LTable, key string, def float64) float64 {
	if n, ok := t.RawGetString(key).(lua.LNumber); ok {
		return float64(n)
	}
	return def
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
