package domain

import (
	"sync"
	"time"
)

// Timer tracks the elapsed time of a brew. It can be paused and resumed;
// elapsed time keeps accumulating across resumes until Reset.
type Timer struct {
	mu      sync.Mutex
	now     func() time.Time
	running bool
	started time.Time
	paused  time.Duration
}

// NewTimer returns a stopped timer reading the given clock. A nil clock
// means time.Now.
func NewTimer(now func() time.Time) *Timer {
	if now == nil {
		now = time.Now
	}
	return &Timer{now: now}
}

// Start starts or resumes the timer. It is a no-op while running.
func (t *Timer) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		return
	}
	t.started = t.now().Add(-t.paused)
	t.running = true
}

// Pause freezes the elapsed time. It is a no-op while stopped.
func (t *Timer) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.running {
		return
	}
	t.paused = t.now().Sub(t.started)
	t.running = false
}

// Reset stops the timer and clears the elapsed time.
func (t *Timer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.running = false
	t.paused = 0
	t.started = time.Time{}
}

// Running reports whether the timer is counting.
func (t *Timer) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

// Elapsed returns the accumulated running time.
func (t *Timer) Elapsed() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.running {
		return t.paused
	}
	return t.now().Sub(t.started)
}
