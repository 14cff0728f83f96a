package combiner

import (
	"sync"

	"github.com/colibri-io/colibri/pkg/fabricpb"
	"github.com/colibri-io/colibri/pkg/queryplan"
)

// TaskState tracks a task through its retry lifecycle.
type TaskState int

const (
	// TaskPending is the initial state, before the first attempt.
	TaskPending TaskState = iota
	// TaskInFlight marks an attempt in progress.
	TaskInFlight
	// TaskSucceeded is terminal; the task's output has been released
	// downstream.
	TaskSucceeded
	// TaskTransientFailure marks a failed attempt that is still within the
	// attempt budget. The attempt count says how many attempts failed.
	TaskTransientFailure
	// TaskPermanentFailure is terminal: a non-retryable failure or an
	// exhausted attempt budget.
	TaskPermanentFailure
)

func (s TaskState) String() string {
	switch s {
	case TaskPending:
		return "pending"
	case TaskInFlight:
		return "in-flight"
	case TaskSucceeded:
		return "succeeded"
	case TaskTransientFailure:
		return "transient-failure"
	case TaskPermanentFailure:
		return "permanent-failure"
	}
	return "unknown"
}

// Task pairs one plan fragment with one partition and an execution target.
// It is owned by the combiner that created it until it reaches a terminal
// state.
type Task struct {
	QueryID   string
	Plan      *queryplan.Fragment
	Partition *fabricpb.PartitionDesc

	mtx      sync.Mutex
	state    TaskState
	attempts int
	lastErr  error
}

func newTask(queryID string, plan *queryplan.Fragment, partition *fabricpb.PartitionDesc) *Task {
	return &Task{QueryID: queryID, Plan: plan, Partition: partition}
}

// State returns the task's current lifecycle state.
func (t *Task) State() TaskState {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	return t.state
}

// Attempts returns how many attempts have been started.
func (t *Task) Attempts() int {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	return t.attempts
}

// LastErr returns the failure of the most recent attempt.
func (t *Task) LastErr() error {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	return t.lastErr
}

func (t *Task) beginAttempt() int {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	t.state = TaskInFlight
	t.attempts++
	return t.attempts
}

func (t *Task) succeed() {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	t.state = TaskSucceeded
	t.lastErr = nil
}

func (t *Task) failTransient(err error) {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	t.state = TaskTransientFailure
	t.lastErr = err
}

func (t *Task) failPermanent(err error) {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	t.state = TaskPermanentFailure
	t.lastErr = err
}
