// Package print provides the 'print' runner, useful as a cheap terminal
// task in a grid and in examples.
package print

import (
	"context"

	"github.com/vk/taskgridgo/internal/ctxlog"
	"github.com/vk/taskgridgo/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments for the print runner.
type Input struct {
	Message string `hcl:"message,optional"`
}

// OnRunPrint is the handler for the 'print' runner. It echoes the message
// through the structured logger and returns it as the task value.
func OnRunPrint(ctx context.Context, input any) (any, error) {
	in := input.(*Input)
	ctxlog.FromContext(ctx).Info("print", "message", in.Message)
	return in.Message, nil
}

// Register registers the runner with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterRunner("print", &registry.RegisteredRunner{
		NewInput: func() any { return new(Input) },
		Fn:       OnRunPrint,
	})
}
