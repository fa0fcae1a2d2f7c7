package main

import (
	"context"
	"fmt"
	"os"

	"github.com/boba-engine/boba/internal/config"
	"github.com/boba-engine/boba/internal/core/ecs"
	"github.com/boba-engine/boba/internal/core/signal"
	"github.com/boba-engine/boba/internal/data"
	"github.com/boba-engine/boba/internal/milktea"
	"github.com/boba-engine/boba/internal/scripting"
	"github.com/boba-engine/boba/internal/taro"
	"github.com/gdamore/tcell/v2"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load config
	cfgPath := "config/boba.toml"
	if p := os.Getenv("BOBA_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return eris.Wrap(err, "load config")
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return eris.Wrap(err, "init logger")
	}
	defer log.Sync()

	// 3. Scripts and scene
	engine, err := scripting.NewEngine(cfg.Scripting.Dir, log.Named("lua"))
	if err != nil {
		return err
	}
	defer engine.Close()

	scene, err := data.LoadSceneTable(cfg.Scene.Path)
	if err != nil {
		return err
	}

	world := ecs.NewWorld(ecs.WithLogger(log.Named("ecs")))
	spawned, err := spawnScene(world, scene, engine)
	if err != nil {
		return err
	}
	log.Info("scene loaded",
		zap.String("path", cfg.Scene.Path),
		zap.Int("nodes", spawned.count),
		zap.Int("behaviours", spawned.behaviours),
	)

	// 4. Terminal
	screen, err := tcell.NewScreen()
	if err != nil {
		return eris.Wrap(err, "create screen")
	}
	if err := screen.Init(); err != nil {
		return eris.Wrap(err, "init screen")
	}
	defer screen.Fini()

	camera := ecs.Insert(world, taro.Camera{
		Transform: spawned.camera,
		Skybox:    tcell.GetColor(cfg.Window.Skybox),
		Glyph:     firstRune(cfg.Window.CameraGlyph),
		Scale:     cfg.Window.Scale,
	})
	renderer := taro.NewTerminalRenderer(log.Named("taro"))
	window := taro.NewWindow(cfg.Window.Title, camera, screen, renderer)
	ecs.Insert(world, window)
	ecs.Insert(world, taro.Sentinel{})
	signal.Connect(window.Closed, ecs.Insert(world, farewell{log: log}), sayFarewell)

	// 5. Run
	app := milktea.New(world, milktea.Settings{
		TickRate:  cfg.Loop.TickRate,
		MaxFrames: cfg.Loop.MaxFrames,
	}, milktea.WithScreen(screen), milktea.WithLogger(log.Named("milktea")))
	return app.Run(context.Background())
}

// farewell logs the end of the session when the window closes.
type farewell struct{ log *zap.Logger }

func sayFarewell(v *ecs.View[farewell], e *taro.Closed) {
	v.Current().log.Info("window closed",
		zap.String("title", e.Title),
		zap.Uint64("frames", e.Index()),
		zap.Duration("uptime", e.GameTime()),
	)
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	if cfg.File != "" {
		zapCfg.OutputPaths = []string{cfg.File}
		zapCfg.ErrorOutputPaths = []string{cfg.File}
	}

	return zapCfg.Build()
}
