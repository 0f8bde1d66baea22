// Package scheduler drives the concurrent execution of a validated task
// graph: it drains the ready frontier, dispatches each ready task to a
// bounded worker pool, waits for a completion, reports it back to the graph,
// and repeats until every task is terminal.
//
// Shared-state discipline: the controller goroutine is the only writer of
// graph and result state. Workers run actions and communicate outcomes over
// a channel; they never touch the graph.
package scheduler
