package data

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// NodeEntry is one transform to spawn. Parent names another node of the same
// scene; Angle is a rotation about Z in degrees.
type NodeEntry struct {
	Name     string      `yaml:"name"`
	Parent   string      `yaml:"parent"`
	Pos      [3]float64  `yaml:"pos"`
	Angle    float64     `yaml:"angle"`
	Scale    *[3]float64 `yaml:"scale"` // nil = unit scale
	Glyph    string      `yaml:"glyph"` // empty = not drawn
	Color    string      `yaml:"color"`
	Behavior string      `yaml:"behavior"` // Lua function driving the node
}

// ScaleOrUnit returns the node scale, defaulting to 1 on every axis.
func (e *NodeEntry) ScaleOrUnit() [3]float64 {
	if e.Scale == nil {
		return [3]float64{1, 1, 1}
	}
	return *e.Scale
}

type sceneFile struct {
	Camera string      `yaml:"camera"`
	Nodes  []NodeEntry `yaml:"nodes"`
}

// SceneTable holds a validated scene with nodes ordered parents first.
type SceneTable struct {
	camera string
	nodes  []*NodeEntry
	byName map[string]*NodeEntry
}

// LoadSceneTable loads a scene spawn list.
func LoadSceneTable(path string) (*SceneTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "read scene")
	}
	t, err := ParseScene(raw)
	if err != nil {
		return nil, eris.Wrapf(err, "scene %s", path)
	}
	return t, nil
}

// ParseScene validates raw YAML: names are unique and non-empty, parents and
// the camera name existing nodes, and parent chains never loop.
func ParseScene(raw []byte) (*SceneTable, error) {
	var f sceneFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, eris.Wrap(err, "parse scene")
	}

	t := &SceneTable{
		camera: f.Camera,
		byName: make(map[string]*NodeEntry, len(f.Nodes)),
	}
	for i := range f.Nodes {
		e := &f.Nodes[i]
		if e.Name == "" {
			return nil, eris.Errorf("node %d has no name", i)
		}
		if _, dup := t.byName[e.Name]; dup {
			return nil, eris.Errorf("duplicate node %q", e.Name)
		}
		t.byName[e.Name] = e
	}
	for i := range f.Nodes {
		e := &f.Nodes[i]
		if e.Parent != "" && t.byName[e.Parent] == nil {
			return nil, eris.Errorf("node %q: unknown parent %q", e.Name, e.Parent)
		}
	}
	if t.camera != "" && t.byName[t.camera] == nil {
		return nil, eris.Errorf("camera follows unknown node %q", t.camera)
	}

	// Emit parents before children. A node still unplaced after a full pass
	// without progress sits on a parent loop.
	placed := make(map[string]bool, len(f.Nodes))
	for len(t.nodes) < len(f.Nodes) {
		progress := false
		for i := range f.Nodes {
			e := &f.Nodes[i]
			if placed[e.Name] || (e.Parent != "" && !placed[e.Parent]) {
				continue
			}
			placed[e.Name] = true
			t.nodes = append(t.nodes, e)
			progress = true
		}
		if !progress {
			for i := range f.Nodes {
				if !placed[f.Nodes[i].Name] {
					return nil, eris.Errorf("node %q is its own ancestor", f.Nodes[i].Name)
				}
			}
		}
	}
	return t, nil
}

// Camera returns the name of the node the camera follows, or "" for a fixed
// camera at the origin.
func (t *SceneTable) Camera() string { return t.camera }

// Get returns the node with the given name, or nil.
func (t *SceneTable) Get(name string) *NodeEntry { return t.byName[name] }

// Nodes returns the nodes with every parent ahead of its children.
func (t *SceneTable) Nodes() []*NodeEntry { return t.nodes }

func (t *SceneTable) Count() int { return len(t.nodes) }
