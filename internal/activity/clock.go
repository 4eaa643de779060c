// Package activity tracks when the user last touched the keyboard or mouse.
package activity

import (
	"sync/atomic"
	"time"
)

// Clock holds the timestamp of the most recent user input.
// The zero value is not usable; create one with NewClock.
type Clock struct {
	// unix nanos of the last recorded activity
	last atomic.Int64
	now  func() time.Time
}

// NewClock returns a clock initialised to now(). A nil now uses time.Now.
func NewClock(now func() time.Time) *Clock {
	if now == nil {
		now = time.Now
	}
	c := &Clock{now: now}
	c.last.Store(now().UnixNano())
	return c
}

// Touch records activity at the current time.
func (c *Clock) Touch() {
	c.TouchAt(c.now())
}

// TouchAt records activity at t, overwriting whatever was stored.
func (c *Clock) TouchAt(t time.Time) {
	c.last.Store(t.UnixNano())
}

// Last returns the time of the most recent recorded activity.
func (c *Clock) Last() time.Time {
	return time.Unix(0, c.last.Load())
}

// Now returns the clock's notion of the current time.
func (c *Clock) Now() time.Time {
	return c.now()
}

// Idle returns how long it has been since the last recorded activity.
func (c *Clock) Idle() time.Duration {
	idle := c.now().Sub(c.Last())
	if idle < 0 {
		return 0
	}
	return idle
}
