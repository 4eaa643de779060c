package activity

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

var logger = logrus.WithField("component", "activity")

// Source identifies which kind of input device produced a signal.
type Source int

const (
	SourceKeyboard Source = iota
	SourceMouse
)

func (s Source) String() string {
	switch s {
	case SourceKeyboard:
		return "keyboard"
	case SourceMouse:
		return "mouse"
	default:
		return "unknown"
	}
}

// Signal reports that user input happened.
type Signal struct {
	Source Source
	At     time.Time
}

// DefaultBuffer is the number of signals queued before new ones are dropped.
const DefaultBuffer = 64

// Recorder is the single writer of a Clock. Observers hand it signals
// through Notify and Run applies them in arrival order.
type Recorder struct {
	clock   *Clock
	signals chan Signal

	keyboard atomic.Uint64
	mouse    atomic.Uint64
	dropped  atomic.Uint64
}

// NewRecorder creates a recorder that updates clock.
func NewRecorder(clock *Clock, buffer int) *Recorder {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Recorder{
		clock:   clock,
		signals: make(chan Signal, buffer),
	}
}

// Notify queues a signal without blocking. When the queue is full the
// signal is dropped and counted.
func (r *Recorder) Notify(s Signal) {
	select {
	case r.signals <- s:
	default:
		r.dropped.Add(1)
	}
}

// Run applies queued signals to the clock until ctx is cancelled.
func (r *Recorder) Run(ctx context.Context) error {
	logger.Debug("recorder started")
	for {
		select {
		case <-ctx.Done():
			logger.Debugf("recorder stopped (keyboard=%d mouse=%d dropped=%d)",
				r.keyboard.Load(), r.mouse.Load(), r.dropped.Load())
			return nil
		case s := <-r.signals:
			r.apply(s)
		}
	}
}

func (r *Recorder) apply(s Signal) {
	if s.At.IsZero() {
		r.clock.Touch()
	} else {
		r.clock.TouchAt(s.At)
	}

	switch s.Source {
	case SourceKeyboard:
		r.keyboard.Add(1)
	case SourceMouse:
		r.mouse.Add(1)
	}
}

// Events returns how many signals from source have been applied.
func (r *Recorder) Events(source Source) uint64 {
	switch source {
	case SourceKeyboard:
		return r.keyboard.Load()
	case SourceMouse:
		return r.mouse.Load()
	default:
		return 0
	}
}

// Dropped returns how many signals were discarded because the queue was full.
func (r *Recorder) Dropped() uint64 {
	return r.dropped.Load()
}
