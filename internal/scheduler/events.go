package scheduler

import "log/slog"

// EventType identifies a progress notification emitted during a run.
type EventType int

const (
	// TaskStarted fires when a task is dispatched to a worker.
	TaskStarted EventType = iota
	// TaskFinished fires when a task's action returns successfully.
	TaskFinished
	// TaskFailed fires when a task's action returns an error.
	TaskFailed
	// TaskUnreachable fires for each task ruled out by an upstream failure.
	TaskUnreachable
)

// String returns the snake_case event name used in logs.
func (t EventType) String() string {
	switch t {
	case TaskStarted:
		return "task_started"
	case TaskFinished:
		return "task_finished"
	case TaskFailed:
		return "task_failed"
	case TaskUnreachable:
		return "task_unreachable"
	default:
		return "unknown"
	}
}

// Event is a progress notification. Events are a side channel for
// observability only; completion is reported through the RunResult.
type Event struct {
	Type EventType
	Task string
	// Err carries the action error for TaskFailed and the unreachability
	// cause for TaskUnreachable. Nil otherwise.
	Err error
}

// Observer receives progress events from the controller goroutine. Handle is
// called synchronously between scheduling decisions, so implementations must
// return promptly.
type Observer interface {
	Handle(Event)
}

// ObserverFunc adapts a plain function to the Observer interface.
type ObserverFunc func(Event)

// Handle implements Observer.
func (f ObserverFunc) Handle(ev Event) { f(ev) }

// NewLogObserver returns an observer that mirrors events onto the given
// logger, replacing direct progress printing in task bodies.
func NewLogObserver(logger *slog.Logger) Observer {
	return ObserverFunc(func(ev Event) {
		switch ev.Type {
		case TaskFailed:
			logger.Error("Task failed.", "task", ev.Task, "error", ev.Err)
		case TaskUnreachable:
			logger.Warn("Task unreachable.", "task", ev.Task, "cause", ev.Err)
		default:
			logger.Info("Task progress.", "event", ev.Type.String(), "task", ev.Task)
		}
	})
}
