package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/taskgridgo/internal/ctxlog"
	"github.com/vk/taskgridgo/internal/hcl"
	"github.com/vk/taskgridgo/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle: an isolated logger, the runner registry, and the loaded grid.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *registry.Registry
	grid     []*hcl.TaskConfig
}

// NewApp constructs a fully initialized App: it configures the logger,
// registers runner modules (the core set when none are supplied), and loads
// the grid declarations from cfg.GridPath.
func NewApp(outW io.Writer, cfg *Config, modules ...registry.Module) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("Runner modules registered.", "count", len(modules), "types", reg.Types())

	grid, err := hcl.NewLoader().Load(ctx, cfg.GridPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load grid: %w", err)
	}
	logger.Debug("Grid loaded.", "task_count", len(grid))

	return &App{
		outW:     outW,
		logger:   logger,
		registry: reg,
		grid:     grid,
	}, nil
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}
