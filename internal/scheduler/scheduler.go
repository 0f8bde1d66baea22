package scheduler

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/vk/taskgridgo/internal/ctxlog"
	"github.com/vk/taskgridgo/internal/dag"
	"github.com/vk/taskgridgo/internal/task"
)

// Scheduler executes a task set concurrently while honoring its dependency
// graph. A single controller goroutine owns the graph and the result map;
// workers only run actions and report back over a channel.
type Scheduler struct {
	workers  int
	observer Observer
}

// New creates a scheduler with the given worker-pool size. A non-positive
// size selects runtime.NumCPU(). The observer may be nil.
func New(workers int, observer Observer) *Scheduler {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Scheduler{workers: workers, observer: observer}
}

// completion is a worker's report back to the controller.
type completion struct {
	name  string
	value any
	err   error
}

// Run executes all tasks and blocks until every one of them is terminal.
//
// Graph-validity errors (duplicate names, unknown dependencies, cycles) and
// internal transition errors abort the run with a nil result. A task failure
// does not: it is recorded in the result, its dependents are recorded as
// unreachable, and every independent branch keeps running.
func (s *Scheduler) Run(ctx context.Context, tasks []task.Task) (task.RunResult, error) {
	logger := ctxlog.FromContext(ctx)

	g, err := dag.New(tasks)
	if err != nil {
		return nil, err
	}
	logger.Debug("Dependency graph validated.", "task_count", g.Len())

	results := make(task.RunResult, len(tasks))
	if len(tasks) == 0 {
		return results, nil
	}

	byName := make(map[string]task.Task, len(tasks))
	for _, t := range tasks {
		byName[t.Name] = t
	}

	// Both channels are sized for the whole run so the controller never
	// blocks while submitting and workers never block while reporting.
	dispatch := make(chan task.Task, len(tasks))
	completions := make(chan completion, len(tasks))

	workers := s.workers
	if workers > len(tasks) {
		workers = len(tasks)
	}
	logger.Debug("Starting worker pool.", "workers", workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for t := range dispatch {
				value, err := runAction(ctx, t)
				completions <- completion{name: t.Name, value: value, err: err}
			}
		}(i)
	}

	ready := g.InitialReady()
	logger.Debug("Initial ready set computed.", "ready", ready)

	inFlight := 0
	var fatal error
	for !g.IsComplete() {
		for _, name := range ready {
			if err := g.MarkRunning(name); err != nil {
				fatal = err
				break
			}
			s.emit(Event{Type: TaskStarted, Task: name})
			dispatch <- byName[name]
			inFlight++
		}
		ready = nil
		if fatal != nil || g.IsComplete() {
			break
		}
		if inFlight == 0 {
			// Cannot happen for a validated DAG; stop rather than spin.
			fatal = errors.New("no tasks in flight but graph is incomplete")
			break
		}

		c := <-completions
		inFlight--
		if c.err != nil {
			results[c.name] = task.Outcome{
				Status: task.StatusFailed,
				Err:    &task.FailureError{Task: c.name, Err: c.err},
			}
			s.emit(Event{Type: TaskFailed, Task: c.name, Err: c.err})
			unreachable, err := g.MarkFailed(c.name)
			if err != nil {
				fatal = err
				break
			}
			for _, name := range unreachable {
				cause := &task.UnreachableError{Task: name, Dependency: c.name}
				results[name] = task.Outcome{Status: task.StatusUnreachable, Err: cause}
				s.emit(Event{Type: TaskUnreachable, Task: name, Err: cause})
			}
			continue
		}

		results[c.name] = task.Outcome{Status: task.StatusDone, Value: c.value}
		s.emit(Event{Type: TaskFinished, Task: c.name})
		ready, err = g.MarkDone(c.name)
		if err != nil {
			fatal = err
			break
		}
		if len(ready) > 0 {
			logger.Debug("Unlocked dependent tasks.", "task", c.name, "unlocked", ready)
		}
	}

	// Stop submitting new work and let everything already dispatched drain,
	// so no worker goroutine outlives the run.
	close(dispatch)
	for inFlight > 0 {
		<-completions
		inFlight--
	}
	wg.Wait()

	if fatal != nil {
		return nil, fmt.Errorf("scheduler aborted: %w", fatal)
	}
	logger.Debug("Run complete.", "tasks", len(results), "failed", len(results.Failed()))
	return results, nil
}

// runAction invokes the task's action, converting a panic into an ordinary
// task failure so one misbehaving action cannot take down the run.
func runAction(ctx context.Context, t task.Task) (value any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("action panicked: %v", r)
		}
	}()
	if t.Action == nil {
		return nil, errors.New("task has no action")
	}
	return t.Action(ctx)
}

func (s *Scheduler) emit(ev Event) {
	if s.observer != nil {
		s.observer.Handle(ev)
	}
}
