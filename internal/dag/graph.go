package dag

import (
	"fmt"
	"sort"

	"github.com/vk/taskgridgo/internal/task"
)

// Status is the lifecycle state of a single task inside a Graph.
//
// The state machine is Pending → Ready → Running → {Done | Failed}, with
// Unreachable as the terminal state for tasks whose transitive dependencies
// failed. No task ever re-enters an earlier state.
type Status int

const (
	Pending Status = iota
	Ready
	Running
	Done
	Failed
	Unreachable
)

// String returns the lowercase name of the status.
func (s Status) String() string {
	switch s {
	case Pending:
		return "pending"
	case Ready:
		return "ready"
	case Running:
		return "running"
	case Done:
		return "done"
	case Failed:
		return "failed"
	case Unreachable:
		return "unreachable"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

func (s Status) terminal() bool {
	return s == Done || s == Failed || s == Unreachable
}

// Graph tracks the dependency structure and per-task status for one run.
//
// The structure (successor index and initial in-degrees) is fixed at
// construction; only status and the remaining-predecessor counters change
// afterwards. Graph is not safe for concurrent use: it is owned by the
// scheduler's controller goroutine, which serializes every mutation.
type Graph struct {
	// remaining counts not-yet-completed dependencies per task.
	remaining map[string]int
	// successors is the reverse-edge index, built once so that completion
	// advances the frontier in O(outgoing edges).
	successors map[string][]string
	status     map[string]Status
	// terminalCount tracks tasks in Done, Failed or Unreachable.
	terminalCount int
}

// New validates the task set and builds the dependency graph. It fails with
// DuplicateTaskError, UnknownDependencyError or CycleError before any task
// could run; a graph that constructs successfully is acyclic.
func New(tasks []task.Task) (*Graph, error) {
	g := &Graph{
		remaining:  make(map[string]int, len(tasks)),
		successors: make(map[string][]string, len(tasks)),
		status:     make(map[string]Status, len(tasks)),
	}

	for _, t := range tasks {
		if _, exists := g.status[t.Name]; exists {
			return nil, &DuplicateTaskError{Name: t.Name}
		}
		g.status[t.Name] = Pending
		g.remaining[t.Name] = 0
	}

	for _, t := range tasks {
		// DependsOn is a set; repeated names in a declaration count once.
		seen := make(map[string]struct{}, len(t.DependsOn))
		for _, dep := range t.DependsOn {
			if _, dup := seen[dep]; dup {
				continue
			}
			seen[dep] = struct{}{}
			if _, ok := g.status[dep]; !ok {
				return nil, &UnknownDependencyError{Task: t.Name, Dependency: dep}
			}
			g.remaining[t.Name]++
			g.successors[dep] = append(g.successors[dep], t.Name)
		}
	}

	if err := g.checkAcyclic(); err != nil {
		return nil, err
	}
	return g, nil
}

// checkAcyclic runs a Kahn-style in-degree reduction over a scratch copy of
// the counters. Any task not eliminated has an unsatisfiable dependency and
// is reported as part of a cycle.
func (g *Graph) checkAcyclic() error {
	degree := make(map[string]int, len(g.remaining))
	var queue []string
	for name, n := range g.remaining {
		degree[name] = n
		if n == 0 {
			queue = append(queue, name)
		}
	}

	eliminated := 0
	for len(queue) > 0 {
		name := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		eliminated++
		for _, succ := range g.successors[name] {
			degree[succ]--
			if degree[succ] == 0 {
				queue = append(queue, succ)
			}
		}
	}

	if eliminated == len(degree) {
		return nil
	}
	var members []string
	for name, n := range degree {
		if n > 0 {
			members = append(members, name)
		}
	}
	sort.Strings(members)
	return &CycleError{Members: members}
}

// Len returns the number of tasks in the graph.
func (g *Graph) Len() int { return len(g.status) }

// Status reports the current status of a task.
func (g *Graph) Status(name string) (Status, bool) {
	s, ok := g.status[name]
	return s, ok
}

// InitialReady marks every task with zero dependencies Ready and returns
// their names sorted. Tasks are handed out as Ready exactly once, so a
// second call returns nothing.
func (g *Graph) InitialReady() []string {
	var ready []string
	for name, s := range g.status {
		if s == Pending && g.remaining[name] == 0 {
			g.status[name] = Ready
			ready = append(ready, name)
		}
	}
	sort.Strings(ready)
	return ready
}

// MarkRunning transitions a Ready task to Running. Any other prior status
// is a dispatch defect and fails with InvalidTransitionError.
func (g *Graph) MarkRunning(name string) error {
	s, ok := g.status[name]
	if !ok {
		return fmt.Errorf("unknown task %q", name)
	}
	if s != Ready {
		return &InvalidTransitionError{Task: name, From: s, To: Running}
	}
	g.status[name] = Running
	return nil
}

// MarkDone transitions a Running task to Done, decrements each successor's
// remaining-predecessor count, and returns the names of successors that
// became Ready, sorted.
func (g *Graph) MarkDone(name string) ([]string, error) {
	s, ok := g.status[name]
	if !ok {
		return nil, fmt.Errorf("unknown task %q", name)
	}
	if s != Running {
		return nil, &InvalidTransitionError{Task: name, From: s, To: Done}
	}
	g.status[name] = Done
	g.terminalCount++

	var unlocked []string
	for _, succ := range g.successors[name] {
		g.remaining[succ]--
		if g.remaining[succ] == 0 && g.status[succ] == Pending {
			g.status[succ] = Ready
			unlocked = append(unlocked, succ)
		}
	}
	sort.Strings(unlocked)
	return unlocked, nil
}

// MarkFailed transitions a Running task to Failed. Successor counts are not
// decremented; instead the whole downstream closure is marked Unreachable
// and returned sorted, so the caller can account for it without dispatching.
func (g *Graph) MarkFailed(name string) ([]string, error) {
	s, ok := g.status[name]
	if !ok {
		return nil, fmt.Errorf("unknown task %q", name)
	}
	if s != Running {
		return nil, &InvalidTransitionError{Task: name, From: s, To: Failed}
	}
	g.status[name] = Failed
	g.terminalCount++

	// Walk the reverse edges. Anything downstream of a failure can only be
	// Pending or already Unreachable: a dependent cannot have become Ready
	// while this task was still unfinished.
	var unreachable []string
	stack := append([]string(nil), g.successors[name]...)
	for len(stack) > 0 {
		succ := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if g.status[succ] != Pending {
			continue
		}
		g.status[succ] = Unreachable
		g.terminalCount++
		unreachable = append(unreachable, succ)
		stack = append(stack, g.successors[succ]...)
	}
	sort.Strings(unreachable)
	return unreachable, nil
}

// IsComplete reports whether every task has reached a terminal status.
func (g *Graph) IsComplete() bool {
	return g.terminalCount == len(g.status)
}
