package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/vk/taskgridgo/internal/ctxlog"
	"github.com/vk/taskgridgo/internal/scheduler"
	"github.com/vk/taskgridgo/internal/task"
)

// Run executes the loaded grid and returns an error when the run aborted or
// any task failed. Unreachable tasks are reported alongside the failures
// that caused them.
func (a *App) Run(ctx context.Context, cfg *Config) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if cfg.HealthcheckPort > 0 {
		go a.startHealthcheckServer(cfg.HealthcheckPort)
	}

	tasks, err := a.bindTasks()
	if err != nil {
		return fmt.Errorf("failed to bind tasks: %w", err)
	}

	if len(tasks) == 0 {
		a.logger.Warn("No tasks found in grid, execution not required.")
		return nil
	}

	a.logger.Info("🚀 Starting concurrent execution...", "tasks", len(tasks), "workers", cfg.WorkerCount)
	sched := scheduler.New(cfg.WorkerCount, scheduler.NewLogObserver(a.logger))
	results, err := sched.Run(ctx, tasks)
	if err != nil {
		return fmt.Errorf("execution aborted: %w", err)
	}
	a.logger.Info("🏁 Execution finished.")

	return summarize(a.logger, results)
}

// summarize logs the run totals and folds failures into a single error
// naming the failed tasks, wrapping the first root cause.
func summarize(logger *slog.Logger, results task.RunResult) error {
	failed := results.Failed()
	unreachable := results.Unreachable()
	done := len(results) - len(failed) - len(unreachable)
	logger.Info("Run summary.", "done", done, "failed", len(failed), "unreachable", len(unreachable))

	if len(failed) == 0 {
		return nil
	}
	blocked := ""
	if len(unreachable) > 0 {
		blocked = fmt.Sprintf(" (%s unreachable)", strings.Join(unreachable, ", "))
	}
	return fmt.Errorf("execution failed for %s%s: %w", strings.Join(failed, ", "), blocked, results.Err())
}
