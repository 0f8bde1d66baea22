package app

import (
	"context"
	"fmt"

	"github.com/vk/taskgridgo/internal/hcl"
	"github.com/vk/taskgridgo/internal/task"
)

// bindTasks turns loaded grid declarations into executable tasks by looking
// up each declaration's runner and closing over its raw arguments body.
// Arguments are decoded at execution time, against an eval context captured
// once per run, so a bad argument expression fails the one task it belongs
// to instead of the whole startup.
func (a *App) bindTasks() ([]task.Task, error) {
	evalCtx := hcl.EvalContext()

	tasks := make([]task.Task, 0, len(a.grid))
	for _, cfg := range a.grid {
		runner, ok := a.registry.Runner(cfg.Runner)
		if !ok {
			return nil, fmt.Errorf("task %q: unknown runner type %q", cfg.Name, cfg.Runner)
		}

		cfg := cfg
		runnerFn := runner.Fn
		newInput := runner.NewInput
		tasks = append(tasks, task.Task{
			Name:      cfg.Name,
			DependsOn: cfg.DependsOn,
			Action: func(ctx context.Context) (any, error) {
				var input any
				if newInput != nil {
					input = newInput()
					if err := hcl.DecodeArguments(cfg.Arguments, evalCtx, input); err != nil {
						return nil, err
					}
				}
				return runnerFn(ctx, input)
			},
		})
	}
	return tasks, nil
}
