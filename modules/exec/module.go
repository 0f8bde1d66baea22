// Package exec provides the 'exec' runner: it executes a shell command and
// returns its captured standard output.
package exec

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/vk/taskgridgo/internal/ctxlog"
	"github.com/vk/taskgridgo/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments for the exec runner.
type Input struct {
	Command string   `hcl:"command"`
	Dir     string   `hcl:"dir,optional"`
	Env     []string `hcl:"env,optional"`
}

// Output is the value recorded in the run result for a successful command.
type Output struct {
	Stdout string
	Stderr string
}

// OnRunExec is the handler for the 'exec' runner.
func OnRunExec(ctx context.Context, input any) (any, error) {
	in := input.(*Input)
	logger := ctxlog.FromContext(ctx)
	logger.Info("Running command.", "command", in.Command)

	cmd := exec.CommandContext(ctx, "sh", "-c", in.Command)
	cmd.Dir = in.Dir
	if len(in.Env) > 0 {
		cmd.Env = append(os.Environ(), in.Env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("command %q: %w (stderr: %s)", in.Command, err, stderr.String())
	}

	logger.Debug("Command finished.", "stdout_bytes", stdout.Len())
	return &Output{Stdout: stdout.String(), Stderr: stderr.String()}, nil
}

// Register registers the runner with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterRunner("exec", &registry.RegisteredRunner{
		NewInput: func() any { return new(Input) },
		Fn:       OnRunExec,
	})
}
