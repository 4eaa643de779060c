package activity

import (
	"image"
	"sync"
	"time"
)

// DefaultEchoWindow bounds how long after a nudge its motion events are
// still recognised as our own.
const DefaultEchoWindow = 500 * time.Millisecond

// EchoFilter recognises the mouse events produced by our own cursor
// nudges so they are not mistaken for user activity.
type EchoFilter struct {
	mu      sync.Mutex
	pending []image.Point
	until   time.Time
	window  time.Duration
	now     func() time.Time
}

// NewEchoFilter returns a filter that forgets expected points after window.
func NewEchoFilter(window time.Duration, now func() time.Time) *EchoFilter {
	if window <= 0 {
		window = DefaultEchoWindow
	}
	if now == nil {
		now = time.Now
	}
	return &EchoFilter{window: window, now: now}
}

// Expect arms the filter with the positions a nudge is about to visit.
func (f *EchoFilter) Expect(points ...image.Point) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.pending = append(f.pending[:0], points...)
	f.until = f.now().Add(f.window)
}

// Swallow reports whether p is an expected echo. Each expected point is
// consumed once.
func (f *EchoFilter) Swallow(p image.Point) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.pending) == 0 {
		return false
	}
	if f.now().After(f.until) {
		f.pending = f.pending[:0]
		return false
	}

	for i, want := range f.pending {
		if want == p {
			f.pending = append(f.pending[:i], f.pending[i+1:]...)
			return true
		}
	}
	return false
}
