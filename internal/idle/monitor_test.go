package idle

import (
	"context"
	"image"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stigoleg/idle-nudge/internal/activity"
	"github.com/stigoleg/idle-nudge/internal/pointer"
)

type manualTime struct {
	mu  sync.Mutex
	now time.Time
}

func (m *manualTime) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *manualTime) Set(d time.Duration, base time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = base.Add(d)
}

type countingNudger struct {
	calls atomic.Int64
	err   error
}

func (c *countingNudger) Nudge() error {
	c.calls.Add(1)
	return c.err
}

type screenPointer struct {
	mu  sync.Mutex
	pos image.Point
}

func (s *screenPointer) Location() (image.Point, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pos, nil
}

func (s *screenPointer) MoveTo(p image.Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pos = p
	return nil
}

func TestCheckStrictThresholdScenario(t *testing.T) {
	base := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	mt := &manualTime{now: base}
	clock := activity.NewClock(mt.Now)
	nudger := &countingNudger{}
	m := New(clock, nudger, Options{PollInterval: 15 * time.Second, Threshold: 30 * time.Second})

	tests := []struct {
		at        time.Duration
		wantNudge bool
	}{
		{15 * time.Second, false},
		{30 * time.Second, false},
		{45 * time.Second, true},
		{60 * time.Second, true},
	}

	for _, tt := range tests {
		mt.Set(tt.at, base)
		assert.Equal(t, tt.wantNudge, m.Check(), "t=%s", tt.at)
	}
	assert.Equal(t, int64(2), nudger.calls.Load(), "once per poll while idle")
	assert.Equal(t, uint64(2), m.Nudges())
	assert.True(t, m.LastNudge().Equal(base.Add(60*time.Second)))
}

func TestActivityResetsElapsedTime(t *testing.T) {
	base := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	mt := &manualTime{now: base}
	clock := activity.NewClock(mt.Now)
	nudger := &countingNudger{}
	m := New(clock, nudger, Options{Threshold: 30 * time.Second})

	mt.Set(25*time.Second, base)
	clock.Touch()

	mt.Set(45*time.Second, base)
	assert.False(t, m.Check(), "only 20s since the last input")

	mt.Set(56*time.Second, base)
	assert.True(t, m.Check(), "31s since the last input")
	assert.Equal(t, int64(1), nudger.calls.Load())
}

func TestRepeatedIdleNudgesRestorePosition(t *testing.T) {
	base := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	mt := &manualTime{now: base}
	clock := activity.NewClock(mt.Now)

	start := image.Pt(1920, 500)
	p := &screenPointer{pos: start}
	m := New(clock, pointer.NewNudger(p, 1920, nil), Options{})

	for i := 3; i <= 8; i++ {
		mt.Set(time.Duration(i)*15*time.Second, base)
		require.True(t, m.Check())
		pos, _ := p.Location()
		assert.Equal(t, start, pos)
	}
	assert.Equal(t, uint64(6), m.Nudges())
}

func TestNudgeFailureIsCountedAndLoopContinues(t *testing.T) {
	base := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	mt := &manualTime{now: base.Add(time.Hour)}
	clock := activity.NewClock(mt.Now)
	clock.TouchAt(base)

	nudger := &countingNudger{err: errors.New("no display")}
	m := New(clock, nudger, Options{})

	assert.True(t, m.Check())
	assert.True(t, m.Check())
	assert.Equal(t, uint64(2), m.Failures())
	assert.Equal(t, uint64(0), m.Nudges())
	assert.True(t, m.LastNudge().IsZero())
	assert.Equal(t, StateActive, m.State())
}

func TestRunNudgesWhileIdleAndStopsOnCancel(t *testing.T) {
	clock := activity.NewClock(nil)
	clock.TouchAt(time.Now().Add(-time.Hour))
	nudger := &countingNudger{}
	m := New(clock, nudger, Options{PollInterval: 5 * time.Millisecond, Threshold: time.Second})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	require.Eventually(t, func() bool { return nudger.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("monitor did not stop after cancel")
	}
}

func TestRunDoesNotNudgeWhileActive(t *testing.T) {
	clock := activity.NewClock(nil)
	nudger := &countingNudger{}
	m := New(clock, nudger, Options{PollInterval: 5 * time.Millisecond, Threshold: time.Minute})

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()
	require.NoError(t, m.Run(ctx))

	assert.Equal(t, int64(0), nudger.calls.Load())
}

func TestDefaults(t *testing.T) {
	m := New(activity.NewClock(nil), &countingNudger{}, Options{})
	assert.Equal(t, DefaultPollInterval, m.PollInterval())
	assert.Equal(t, DefaultThreshold, m.Threshold())
	assert.Equal(t, "Active", StateActive.String())
	assert.Equal(t, "Nudging", StateNudging.String())
}
