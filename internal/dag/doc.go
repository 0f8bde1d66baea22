// Package dag owns the static structure of a task run: dependency edges,
// per-task status, the initially-ready set, and the ready transitions that
// fire as tasks finish. Validation (duplicate names, unknown dependencies,
// cycles) happens once at construction, so execution never discovers a
// malformed graph at runtime.
//
// The graph is a pure state object. It never dispatches work and is mutated
// only by the scheduler's controller goroutine.
package dag
