package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/rotisserie/eris"
)

type Config struct {
	Loop      LoopConfig      `toml:"loop"`
	Logging   LoggingConfig   `toml:"logging"`
	Window    WindowConfig    `toml:"window"`
	Scripting ScriptingConfig `toml:"scripting"`
	Scene     SceneConfig     `toml:"scene"`
}

type LoopConfig struct {
	TickRate  time.Duration `toml:"tick_rate"`
	MaxFrames int           `toml:"max_frames"` // 0 = run until exit is requested
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
	File   string `toml:"file"`   // empty = stderr; a full-screen terminal hides stderr
}

type WindowConfig struct {
	Title       string  `toml:"title"`
	Skybox      string  `toml:"skybox"`       // tcell color name
	CameraGlyph string  `toml:"camera_glyph"` // drawn at the camera origin
	Scale       float64 `toml:"scale"`        // world units per terminal cell
}

type ScriptingConfig struct {
	Dir string `toml:"dir"`
}

type SceneConfig struct {
	Path string `toml:"path"`
}

// Load reads the TOML file at path over the defaults. A missing file is not
// an error.
func Load(path string) (*Config, error) {
	cfg := defaults()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "read config %s", path)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, eris.Wrapf(err, "parse config %s", path)
	}
	if err := cfg.validate(); err != nil {
		return nil, eris.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Loop.TickRate <= 0 {
		return eris.Errorf("loop.tick_rate must be positive, got %s", c.Loop.TickRate)
	}
	if c.Loop.MaxFrames < 0 {
		return eris.Errorf("loop.max_frames must not be negative, got %d", c.Loop.MaxFrames)
	}
	if c.Window.Scale <= 0 {
		return eris.Errorf("window.scale must be positive, got %g", c.Window.Scale)
	}
	return nil
}

func defaults() *Config {
	return &Config{
		Loop: LoopConfig{
			TickRate: 16 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			File:   "boba.log",
		},
		Window: WindowConfig{
			Title:       "boba",
			Skybox:      "navy",
			CameraGlyph: "+",
			Scale:       1,
		},
		Scripting: ScriptingConfig{
			Dir: "scripts",
		},
		Scene: SceneConfig{
			Path: "scenes/demo.yaml",
		},
	}
}
