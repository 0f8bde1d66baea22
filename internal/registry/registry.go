// Package registry holds the runner handlers that give declared tasks their
// behavior. Modules register themselves once at startup; the app then binds
// each grid task to the handler its runner type names.
package registry

import "context"

// Module is the interface all runner modules implement to be registered.
type Module interface {
	Register(r *Registry)
}

// RunnerFunc is a runner's entry point. The input argument is the value
// produced by NewInput after the task's arguments block was decoded into it.
type RunnerFunc func(ctx context.Context, input any) (any, error)

// RegisteredRunner couples a runner's input factory with its handler.
type RegisteredRunner struct {
	// NewInput returns a pointer to a fresh, zero-valued input struct for
	// argument decoding. Runners that take no arguments may return nil.
	NewInput func() any
	// Fn is invoked once per task execution.
	Fn RunnerFunc
}

// Registry maps runner type names to their registered handlers for a single
// application instance.
type Registry struct {
	runners map[string]*RegisteredRunner
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{runners: make(map[string]*RegisteredRunner)}
}

// RegisterRunner adds a handler under the given runner type. Registering the
// same type twice overwrites the earlier handler; last registration wins so
// tests can shadow core modules.
func (r *Registry) RegisterRunner(runnerType string, runner *RegisteredRunner) {
	r.runners[runnerType] = runner
}

// Runner looks up the handler for a runner type.
func (r *Registry) Runner(runnerType string) (*RegisteredRunner, bool) {
	runner, ok := r.runners[runnerType]
	return runner, ok
}

// Types returns the number of registered runner types.
func (r *Registry) Types() int { return len(r.runners) }
