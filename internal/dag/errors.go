package dag

import (
	"fmt"
	"strings"
)

// DuplicateTaskError reports two task declarations sharing one name.
type DuplicateTaskError struct {
	Name string
}

func (e *DuplicateTaskError) Error() string {
	return fmt.Sprintf("duplicate task name %q", e.Name)
}

// UnknownDependencyError reports a dependency reference that names no
// declared task.
type UnknownDependencyError struct {
	Task       string
	Dependency string
}

func (e *UnknownDependencyError) Error() string {
	return fmt.Sprintf("task %q depends on unknown task %q", e.Task, e.Dependency)
}

// CycleError reports that the declared edges do not form a DAG. Members
// holds the names of the tasks left with unsatisfiable dependencies, sorted;
// every listed task either sits on a cycle or depends on one.
type CycleError struct {
	Members []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("cycle detected involving %s", strings.Join(e.Members, ", "))
}

// InvalidTransitionError signals a status transition the task state machine
// does not allow, such as dispatching the same task twice. It indicates a
// scheduler defect, not a property of the caller's graph.
type InvalidTransitionError struct {
	Task string
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition for task %q: %s -> %s", e.Task, e.From, e.To)
}
