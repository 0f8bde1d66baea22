// Package task defines the immutable task descriptor supplied by callers and
// the per-task outcome types produced by a run.
package task

import (
	"context"
	"fmt"
	"sort"
)

// Action is the unit of computation carried by a task. It receives the run
// context for deadline and logger propagation but no task-specific arguments.
type Action func(ctx context.Context) (any, error)

// Task is an immutable descriptor for a single named unit of work. Tasks are
// constructed by the caller before a run starts and are never mutated by the
// scheduler; DependsOn names other tasks in the same run that must complete
// successfully first.
type Task struct {
	Name      string
	Action    Action
	DependsOn []string
}

// Status classifies the terminal outcome of a task within a RunResult.
type Status int

const (
	// StatusDone means the action ran and returned a value.
	StatusDone Status = iota
	// StatusFailed means the action ran and returned an error.
	StatusFailed
	// StatusUnreachable means the task was never dispatched because a
	// transitive dependency failed.
	StatusUnreachable
)

// String returns the lowercase name of the status for logs and errors.
func (s Status) String() string {
	switch s {
	case StatusDone:
		return "done"
	case StatusFailed:
		return "failed"
	case StatusUnreachable:
		return "unreachable"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Outcome records what happened to one task: a produced value for StatusDone,
// or a non-nil Err for StatusFailed and StatusUnreachable.
type Outcome struct {
	Status Status
	Value  any
	Err    error
}

// RunResult maps every declared task name to its outcome. The scheduler owns
// it while the run is in flight and hands it to the caller as a snapshot;
// it always holds exactly one entry per declared task.
type RunResult map[string]Outcome

// Failed returns the sorted names of tasks whose action failed. Unreachable
// tasks are not included; they are symptoms, not causes.
func (r RunResult) Failed() []string {
	var names []string
	for name, out := range r {
		if out.Status == StatusFailed {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Unreachable returns the sorted names of tasks that never ran because a
// transitive dependency failed.
func (r RunResult) Unreachable() []string {
	var names []string
	for name, out := range r {
		if out.Status == StatusUnreachable {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Err returns nil when every task completed successfully. Otherwise it
// returns the failure of the first failed task in name order, so callers
// that only want a single error get a deterministic root cause.
func (r RunResult) Err() error {
	failed := r.Failed()
	if len(failed) == 0 {
		return nil
	}
	return r[failed[0]].Err
}

// FailureError attributes an action error to the task that produced it.
type FailureError struct {
	Task string
	Err  error
}

func (e *FailureError) Error() string {
	return fmt.Sprintf("task %q failed: %v", e.Task, e.Err)
}

func (e *FailureError) Unwrap() error { return e.Err }

// UnreachableError marks a task that can never become ready because the
// named dependency (direct or transitive) failed.
type UnreachableError struct {
	Task       string
	Dependency string
}

func (e *UnreachableError) Error() string {
	return fmt.Sprintf("task %q unreachable: upstream failure of %q", e.Task, e.Dependency)
}
