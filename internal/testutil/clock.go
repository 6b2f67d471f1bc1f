package testutil

import (
	"sync"
	"time"
)

// Epoch is the first instant returned by a StepClock built with
// NewStepClock(Epoch, ...). Fixed so golden output never sees wall time.
var Epoch = time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)

// StepClock is a deterministic clock for tests. Each call to Now returns
// the previous instant plus a fixed step.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type StepClock struct {
	mu    sync.Mutex
	next  time.Time
	step  time.Duration
	calls int
}

// NewStepClock creates a clock whose first Now() returns start.
func NewStepClock(start time.Time, step time.Duration) *StepClock {
	return &StepClock{next: start, step: step}
}

// Now returns the current instant and advances the clock by one step.
func (c *StepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.next
	c.next = c.next.Add(c.step)
	c.calls++
	return now
}

// Calls returns how many times Now has been called.
func (c *StepClock) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}
