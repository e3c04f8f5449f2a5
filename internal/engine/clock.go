// Package engine implements the real-time typing-session metrics engine.
package engine

import (
	"sync"
	"time"
)

// Clock tracks elapsed wall-clock time from the first accepted keystroke
// and fires a one-shot expiry callback for time-boxed sessions.
type Clock struct {
	mu        sync.Mutex
	now       func() time.Time
	startedAt time.Time
	started   bool
	stopped   bool
	expired   bool
	target    time.Duration
	onExpire  func()
	done      chan struct{}
}

// NewClock returns a clock with no deadline.
func NewClock() *Clock {
	return &Clock{now: time.Now}
}

// NewClockWithNow returns a clock using the provided time source.
func NewClockWithNow(now func() time.Time) *Clock {
	return &Clock{now: now}
}

// SetDeadline arms the expiry callback to fire once target seconds have
// elapsed after Start. Must be called before Start.
func (c *Clock) SetDeadline(seconds int, onExpire func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started {
		return
	}
	c.target = time.Duration(seconds) * time.Second
	c.onExpire = onExpire
}

// Start records the start instant and begins the 1-second expiry tick if
// a deadline is armed. Calling Start twice is a no-op.
func (c *Clock) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started || c.stopped {
		return
	}
	c.started = true
	c.startedAt = c.now()
	if c.target > 0 && c.onExpire != nil {
		c.done = make(chan struct{})
		go c.tick()
	}
}

func (c *Clock) tick() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			if c.checkExpiry() {
				return
			}
		}
	}
}

// checkExpiry fires the expiry callback at most once. Exposed for tests
// via CheckExpiry so expiry can be driven without a real ticker.
func (c *Clock) checkExpiry() bool {
	c.mu.Lock()
	if c.stopped || c.expired || !c.started {
		c.mu.Unlock()
		return true
	}
	if c.now().Sub(c.startedAt) < c.target {
		c.mu.Unlock()
		return false
	}
	c.expired = true
	cb := c.onExpire
	c.mu.Unlock()
	if cb != nil {
		cb()
	}
	return true
}

// CheckExpiry evaluates the deadline immediately, firing the one-shot
// callback if it has passed.
func (c *Clock) CheckExpiry() {
	c.mu.Lock()
	armed := c.started && c.target > 0 && c.onExpire != nil
	c.mu.Unlock()
	if armed {
		c.checkExpiry()
	}
}

// Stop halts ticking. Idempotent; elapsed time is frozen by the caller
// reading it before discarding the clock.
func (c *Clock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return
	}
	c.stopped = true
	if c.done != nil {
		close(c.done)
		c.done = nil
	}
}

// Started reports whether the first keystroke has started the clock.
func (c *Clock) Started() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.started
}

// StartedAt returns the start instant, zero if not started.
func (c *Clock) StartedAt() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.startedAt
}

// Elapsed returns the duration since Start, zero if not started.
func (c *Clock) Elapsed() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.started {
		return 0
	}
	return c.now().Sub(c.startedAt)
}

// ElapsedSeconds returns floor(elapsed) in whole seconds.
func (c *Clock) ElapsedSeconds() int {
	return int(c.Elapsed() / time.Second)
}
