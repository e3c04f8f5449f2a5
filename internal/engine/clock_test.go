package engine

import (
	"testing"
	"time"
)

// fakeNow is an adjustable time source.
type fakeNow struct {
	t time.Time
}

func newFakeNow() *fakeNow {
	return &fakeNow{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (f *fakeNow) now() time.Time { return f.t }

func (f *fakeNow) advance(d time.Duration) { f.t = f.t.Add(d) }

func TestClockExpiryFiresOnce(t *testing.T) {
	fn := newFakeNow()
	c := NewClockWithNow(fn.now)
	fired := 0
	c.SetDeadline(30, func() { fired++ })
	c.Start()

	fn.advance(10 * time.Second)
	c.CheckExpiry()
	if fired != 0 {
		t.Fatalf("expiry fired before deadline")
	}

	fn.advance(25 * time.Second)
	c.CheckExpiry()
	c.CheckExpiry()
	if fired != 1 {
		t.Fatalf("expected expiry to fire exactly once, fired %d times", fired)
	}
}

func TestClockStopIsIdempotent(t *testing.T) {
	fn := newFakeNow()
	c := NewClockWithNow(fn.now)
	c.SetDeadline(5, func() { t.Fatalf("expiry fired after stop") })
	c.Start()
	c.Stop()
	c.Stop()

	fn.advance(10 * time.Second)
	c.CheckExpiry()
}

func TestClockNotStartedHasZeroElapsed(t *testing.T) {
	c := NewClockWithNow(newFakeNow().now)
	if c.Elapsed() != 0 {
		t.Fatalf("expected zero elapsed before start, got %v", c.Elapsed())
	}
	if c.Started() {
		t.Fatalf("expected clock not started")
	}
}

func TestClockElapsedSeconds(t *testing.T) {
	fn := newFakeNow()
	c := NewClockWithNow(fn.now)
	c.Start()
	fn.advance(2500 * time.Millisecond)
	if c.ElapsedSeconds() != 2 {
		t.Fatalf("expected 2 elapsed seconds, got %d", c.ElapsedSeconds())
	}
}

func TestClockDoubleStartKeepsFirstInstant(t *testing.T) {
	fn := newFakeNow()
	c := NewClockWithNow(fn.now)
	c.Start()
	first := c.StartedAt()
	fn.advance(3 * time.Second)
	c.Start()
	if !c.StartedAt().Equal(first) {
		t.Fatalf("second Start moved the start instant")
	}
}
