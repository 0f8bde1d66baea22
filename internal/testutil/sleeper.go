// Package testutil provides shared helpers for integration tests.
package testutil

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/vk/taskgridgo/internal/registry"
)

// ExecutionRecord holds the start and end times for a single task execution.
type ExecutionRecord struct {
	Start time.Time
	End   time.Time
}

// SleeperModule registers a 'sleeper' runner that sleeps for a fixed
// duration and records each execution window, so tests can assert on
// ordering and overlap.
type SleeperModule struct {
	mu            sync.Mutex
	records       map[string]*ExecutionRecord
	sleepDuration time.Duration
	// failIDs lists sleeper ids that must fail instead of succeeding.
	failIDs map[string]struct{}
}

// NewSleeperModule creates a sleeper module with the given sleep duration.
func NewSleeperModule(sleep time.Duration, failIDs ...string) *SleeperModule {
	fails := make(map[string]struct{}, len(failIDs))
	for _, id := range failIDs {
		fails[id] = struct{}{}
	}
	return &SleeperModule{
		records:       make(map[string]*ExecutionRecord),
		sleepDuration: sleep,
		failIDs:       fails,
	}
}

// Record returns the execution record for an id, or nil if it never ran.
func (m *SleeperModule) Record(id string) *ExecutionRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.records[id]
}

// Ran reports whether the sleeper with the given id executed.
func (m *SleeperModule) Ran(id string) bool {
	return m.Record(id) != nil
}

// Register registers the 'sleeper' runner.
func (m *SleeperModule) Register(r *registry.Registry) {
	type sleeperInput struct {
		ID string `hcl:"id"`
	}

	r.RegisterRunner("sleeper", &registry.RegisteredRunner{
		NewInput: func() any { return new(sleeperInput) },
		Fn: func(ctx context.Context, inputRaw any) (any, error) {
			input := inputRaw.(*sleeperInput)

			start := time.Now()
			time.Sleep(m.sleepDuration)

			m.mu.Lock()
			m.records[input.ID] = &ExecutionRecord{Start: start, End: time.Now()}
			m.mu.Unlock()

			if _, fail := m.failIDs[input.ID]; fail {
				return nil, errors.New("sleeper " + input.ID + " failed on request")
			}
			return input.ID, nil
		},
	})
}
