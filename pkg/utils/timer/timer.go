// Package timer tracks elapsed time for a hook run and its current stage.
package timer

import (
	"sync"
	"time"
)

// Timer tracks total and per-stage elapsed time.
type Timer interface {
	// Start resets the timer and begins the first stage.
	Start()
	// NewStage begins a new stage without resetting the total.
	NewStage()
	// GetTiming returns the total elapsed time and the elapsed time of the current stage.
	GetTiming() (time.Duration, time.Duration)
	// Stop freezes both durations.
	Stop()
}

// Clock returns the current time.
type Clock func() time.Time

type stageTimer struct {
	mu         sync.Mutex
	now        Clock
	start      time.Time
	stageStart time.Time
	stopped    time.Time
}

// New returns a Timer backed by the wall clock.
func New() Timer {
	return NewWithClock(time.Now)
}

// NewWithClock returns a Timer backed by clock.
func NewWithClock(clock Clock) Timer {
	return &stageTimer{now: clock}
}

func (t *stageTimer) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	t.start = now
	t.stageStart = now
	t.stopped = time.Time{}
}

func (t *stageTimer) NewStage() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stageStart = t.now()
}

func (t *stageTimer) GetTiming() (time.Duration, time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.start.IsZero() {
		return 0, 0
	}

	end := t.stopped
	if end.IsZero() {
		end = t.now()
	}

	return end.Sub(t.start), end.Sub(t.stageStart)
}

func (t *stageTimer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stopped.IsZero() {
		t.stopped = t.now()
	}
}
