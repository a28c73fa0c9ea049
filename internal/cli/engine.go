package cli

import (
	"github.com/charmbracelet/log"

	hardcopychrome "github.com/goliatone/go-hardcopy/adapters/chrome"
	"github.com/goliatone/go-hardcopy/config"
	"github.com/goliatone/go-hardcopy/hardcopy"
)

// engineFactory builds the configured engine and a func releasing it.
type engineFactory func(cfg config.Config, logger *log.Logger) (hardcopy.Engine, func() error, error)

func newEngine(cfg config.Config, logger *log.Logger) (hardcopy.Engine, func() error, error) {
	opts, err := cfg.ResolveOptions()
	if err != nil {
		return nil, nil, err
	}
	rc, err := hardcopy.Resolve(opts)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("resolved renderer", "binary", rc.BinaryPath, "engine", cfg.Renderer.Engine)

	switch cfg.Renderer.Engine {
	case config.EngineCDP:
		engine := hardcopychrome.NewCDPEngine(rc)
		engine.Headless = cfg.Renderer.Headless
		engine.Timeout = cfg.Renderer.Timeout.Duration
		engine.Args = cfg.Renderer.Args
		engine.Logger = logger
		return engine, engine.Close, nil
	default:
		engine := hardcopychrome.NewProcessEngine(rc)
		engine.Timeout = cfg.Renderer.Timeout.Duration
		engine.TempDir = cfg.Renderer.TempDir
		engine.Logger = logger
		return engine, func() error { return nil }, nil
	}
}
