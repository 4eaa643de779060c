// Package idle polls the activity clock and nudges the cursor once the
// user has been idle for longer than the threshold.
package idle

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

var logger = logrus.WithField("component", "idle")

// State is the monitor's current phase.
type State int32

const (
	StateActive State = iota
	StateNudging
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "Active"
	case StateNudging:
		return "Nudging"
	default:
		return "Unknown"
	}
}

// Clock reports the current time and the time of the last user input.
type Clock interface {
	Now() time.Time
	Last() time.Time
}

// Nudger performs the corrective cursor movement.
type Nudger interface {
	Nudge() error
}

// Options configure a Monitor. Zero values fall back to the defaults.
type Options struct {
	PollInterval time.Duration
	Threshold    time.Duration
}

const (
	DefaultPollInterval = 15 * time.Second
	DefaultThreshold    = 30 * time.Second
)

// Monitor is the idle-check loop.
type Monitor struct {
	clock     Clock
	nudger    Nudger
	poll      time.Duration
	threshold time.Duration

	state     atomic.Int32
	nudges    atomic.Uint64
	failures  atomic.Uint64
	lastNudge atomic.Int64
}

// New creates a monitor reading clock and driving nudger.
func New(clock Clock, nudger Nudger, opts Options) *Monitor {
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if opts.Threshold <= 0 {
		opts.Threshold = DefaultThreshold
	}
	return &Monitor{
		clock:     clock,
		nudger:    nudger,
		poll:      opts.PollInterval,
		threshold: opts.Threshold,
	}
}

// Check evaluates idleness once and nudges if the elapsed time since the
// last input strictly exceeds the threshold. It reports whether a nudge
// was attempted.
func (m *Monitor) Check() bool {
	elapsed := m.clock.Now().Sub(m.clock.Last())
	if elapsed <= m.threshold {
		return false
	}

	m.state.Store(int32(StateNudging))
	defer m.state.Store(int32(StateActive))

	if err := m.nudger.Nudge(); err != nil {
		m.failures.Add(1)
		logger.Warnf("nudge failed after %s idle: %v", elapsed.Round(time.Second), err)
		return true
	}

	m.nudges.Add(1)
	m.lastNudge.Store(m.clock.Now().UnixNano())
	logger.Infof("idle for %s; nudged cursor", elapsed.Round(time.Second))
	return true
}

// Run polls until ctx is cancelled. The first check happens one poll
// interval after Run is called.
func (m *Monitor) Run(ctx context.Context) error {
	logger.Infof("monitor started (poll=%s threshold=%s)", m.poll, m.threshold)

	ticker := time.NewTicker(m.poll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("monitor stopped")
			return nil
		case <-ticker.C:
			m.Check()
		}
	}
}

// State returns the monitor's current phase.
func (m *Monitor) State() State {
	return State(m.state.Load())
}

// Nudges returns the number of successful nudges.
func (m *Monitor) Nudges() uint64 {
	return m.nudges.Load()
}

// Failures returns the number of nudges that returned an error.
func (m *Monitor) Failures() uint64 {
	return m.failures.Load()
}

// LastNudge returns when the last successful nudge happened, or the zero
// time if none has.
func (m *Monitor) LastNudge() time.Time {
	ns := m.lastNudge.Load()
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns)
}

// Threshold returns the configured idle threshold.
func (m *Monitor) Threshold() time.Duration {
	return m.threshold
}

// PollInterval returns the configured poll interval.
func (m *Monitor) PollInterval() time.Duration {
	return m.poll
}
