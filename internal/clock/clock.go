// Package clock abstracts wall-clock time so debounce and night-window logic
// can be driven deterministically in tests. Use Real in production and
// TestClock in tests.
package clock

import (
	"sync"
	"time"
)

// Clock provides the time operations the monitor needs.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// AfterFunc schedules f to run in its own goroutine after d has elapsed.
	// The returned Timer cancels the call via Stop.
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a single scheduled call that can be cancelled.
type Timer interface {
	// Stop prevents the timer from firing. It returns false if the timer
	// already fired or was already stopped.
	Stop() bool
}

// Real implements Clock with the standard time package.
type Real struct{}

// NewReal returns a Clock backed by the system clock.
func NewReal() *Real { return &Real{} }

func (*Real) Now() time.Time { return time.Now() }

func (*Real) AfterFunc(d time.Duration, f func()) Timer {
	return realTimer{time.AfterFunc(d, f)}
}

type realTimer struct{ t *time.Timer }

func (r realTimer) Stop() bool { return r.t.Stop() }

// TestClock is a Clock whose time only moves when a test calls Advance or Set.
type TestClock struct {
	mu      sync.Mutex
	current time.Time
	timers  []*testTimer
}

type testTimer struct {
	deadline time.Time
	f        func()
	fired    bool
	stopped  bool
}

// NewTestClock returns a TestClock starting at start.
func NewTestClock(start time.Time) *TestClock {
	return &TestClock{current: start}
}

func (c *TestClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

func (c *TestClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &testTimer{deadline: c.current.Add(d), f: f}
	c.timers = append(c.timers, t)
	return timerHandle{c, t}
}

// Advance moves the clock forward by d, firing every timer whose deadline
// falls inside the window. Callbacks run synchronously on the caller's
// goroutine, in deadline order, outside the clock's lock.
func (c *TestClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.current = c.current.Add(d)
	var due []*testTimer
	remaining := c.timers[:0]
	for _, t := range c.timers {
		if !t.stopped && !t.fired && !t.deadline.After(c.current) {
			t.fired = true
			due = append(due, t)
		} else if !t.stopped && !t.fired {
			remaining = append(remaining, t)
		}
	}
	c.timers = remaining
	c.mu.Unlock()

	for i := 0; i < len(due); i++ {
		for j := i + 1; j < len(due); j++ {
			if due[j].deadline.Before(due[i].deadline) {
				due[i], due[j] = due[j], due[i]
			}
		}
	}
	for _, t := range due {
		t.f()
	}
}

// Set jumps the clock to t. Moving forward fires due timers; moving backward
// only changes Now.
func (c *TestClock) Set(t time.Time) {
	c.mu.Lock()
	current := c.current
	c.mu.Unlock()
	if t.After(current) {
		c.Advance(t.Sub(current))
		return
	}
	c.mu.Lock()
	c.current = t
	c.mu.Unlock()
}

type timerHandle struct {
	clock *TestClock
	t     *testTimer
}

func (h timerHandle) Stop() bool {
	h.clock.mu.Lock()
	defer h.clock.mu.Unlock()
	if h.t.fired || h.t.stopped {
		return false
	}
	h.t.stopped = true
	return true
}
