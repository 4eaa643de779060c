// Package keepalive wires the activity clock, input observers, idle
// monitor and cursor nudger into one start/stop session.
package keepalive

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/stigoleg/idle-nudge/internal/activity"
	"github.com/stigoleg/idle-nudge/internal/display"
	"github.com/stigoleg/idle-nudge/internal/idle"
	"github.com/stigoleg/idle-nudge/internal/input"
	"github.com/stigoleg/idle-nudge/internal/platform"
	"github.com/stigoleg/idle-nudge/internal/pointer"
)

var logger = logrus.WithField("component", "keeper")

// ErrAlreadyRunning is returned when starting a keeper that is running.
var ErrAlreadyRunning = errors.New("keeper already running")

// Options configure a Keeper. Zero values use the platform defaults.
type Options struct {
	IdleThreshold time.Duration
	PollInterval  time.Duration
	Backend       string
	StopTimeout   time.Duration

	// Open creates the OS backend; nil uses platform.Open
	Open platform.Opener
}

func (o Options) withDefaults() Options {
	if o.IdleThreshold <= 0 {
		o.IdleThreshold = platform.IdleThreshold
	}
	if o.PollInterval <= 0 {
		o.PollInterval = platform.PollInterval
	}
	if o.StopTimeout <= 0 {
		o.StopTimeout = platform.StopTimeout
	}
	if o.Open == nil {
		o.Open = platform.Open
	}
	return o
}

// Health summarises whether cursor nudges are working.
type Health int

const (
	HealthUnknown Health = iota
	HealthOK
	HealthFailed
)

func (h Health) String() string {
	switch h {
	case HealthOK:
		return "OK"
	case HealthFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Status is a point-in-time view of a session.
type Status struct {
	Running        bool
	Backend        string
	ScreenWidth    int
	State          idle.State
	LastActivity   time.Time
	Idle           time.Duration
	Threshold      time.Duration
	PollInterval   time.Duration
	Nudges         uint64
	Failures       uint64
	LastNudge      time.Time
	KeyboardEvents uint64
	MouseEvents    uint64
	Remaining      time.Duration
	Health         Health
	Err            error
}

// Keeper manages one nudging session at a time. The zero value is ready
// to use with default options.
type Keeper struct {
	opts Options

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	timer   *time.Timer
	endTime time.Time
	session *session
}

// New returns a keeper with the given options.
func New(opts Options) *Keeper {
	return &Keeper{opts: opts}
}

// session holds everything created for one Start.
type session struct {
	backend  string
	width    int
	cursor   pointer.Pointer
	source   input.Source
	clock    *activity.Clock
	recorder *activity.Recorder
	monitor  *idle.Monitor
	cleanup  *CleanupManager
	wg       sync.WaitGroup
	done     chan struct{}

	errMu sync.Mutex
	err   error
}

func (s *session) setErr(err error) {
	s.errMu.Lock()
	defer s.errMu.Unlock()
	if s.err == nil {
		s.err = err
	}
}

func (s *session) lastErr() error {
	s.errMu.Lock()
	defer s.errMu.Unlock()
	return s.err
}

// spawn runs fn in its own goroutine. A panic or error ends only that
// goroutine and is logged and remembered.
func (s *session) spawn(ctx context.Context, name string, fn func(context.Context) error) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				logger.Errorf("%s panicked: %v", name, r)
				s.setErr(errors.Errorf("%s panicked: %v", name, r))
			}
		}()

		if err := fn(ctx); err != nil {
			logger.Errorf("%s stopped: %v", name, err)
			s.setErr(errors.Wrap(err, name))
		}
	}()
}

// IsRunning returns whether a session is active.
func (k *Keeper) IsRunning() bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.running
}

// StartIndefinite starts a session that runs until Stop.
func (k *Keeper) StartIndefinite() error {
	return k.start(0)
}

// StartTimed starts a session that stops by itself after d.
func (k *Keeper) StartTimed(d time.Duration) error {
	if d <= 0 {
		return errors.Errorf("invalid duration %s", d)
	}
	return k.start(d)
}

func (k *Keeper) start(d time.Duration) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.running {
		return ErrAlreadyRunning
	}

	opts := k.opts.withDefaults()
	s, err := newSession(opts)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())

	hub := input.NewHub(s.source)
	echo := activity.NewEchoFilter(platform.EchoWindow, nil)
	s.monitor = idle.New(s.clock,
		pointer.NewNudger(s.cursor, s.width, echo),
		idle.Options{PollInterval: opts.PollInterval, Threshold: opts.IdleThreshold})
	keyboard := input.NewKeyboardObserver(s.recorder)
	mouse := input.NewMouseObserver(s.recorder, echo)
	hub.Attach(keyboard, mouse)
	s.cleanup.RegisterFunc("input hook", func() error {
		hub.Stop()
		return nil
	})

	s.spawn(ctx, "recorder", s.recorder.Run)
	s.spawn(ctx, "input hub", hub.Run)
	s.spawn(ctx, "keyboard observer", keyboard.Run)
	s.spawn(ctx, "mouse observer", mouse.Run)
	s.spawn(ctx, "idle monitor", s.monitor.Run)

	k.session = s
	k.cancel = cancel
	k.running = true
	k.endTime = time.Time{}
	if d > 0 {
		k.endTime = time.Now().Add(d)
		k.timer = time.AfterFunc(d, func() {
			logger.Infof("timed session of %s elapsed", d)
			if err := k.Stop(); err != nil {
				logger.Warnf("stop after timed session: %v", err)
			}
		})
		logger.Infof("started (timed=%s backend=%s width=%d)", d, s.backend, s.width)
	} else {
		logger.Infof("started (indefinite backend=%s width=%d)", s.backend, s.width)
	}
	return nil
}

// newSession opens the backend and resolves the screen width. Width is
// resolved exactly once; failure aborts the start.
func newSession(opts Options) (*session, error) {
	backend, err := opts.Open(opts.Backend)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open backend")
	}

	s := &session{
		backend: backend.Name,
		cursor:  backend.Pointer,
		source:  backend.Input,
		cleanup: NewCleanupManager(opts.StopTimeout),
		done:    make(chan struct{}),
	}
	s.cleanup.RegisterFunc(backend.Name+" backend", backend.Close)

	width, err := display.PrimaryWidth(backend.Display)
	if err != nil {
		s.cleanup.Execute()
		return nil, errors.Wrap(err, "failed to resolve screen width")
	}
	s.width = width

	s.clock = activity.NewClock(nil)
	s.recorder = activity.NewRecorder(s.clock, activity.DefaultBuffer)
	return s, nil
}

// Stop ends the running session and waits for it to shut down.
func (k *Keeper) Stop() error {
	return k.StopWithTimeout(0)
}

// StopWithTimeout is like Stop but bounds how long it waits for every
// goroutine to return.
func (k *Keeper) StopWithTimeout(timeout time.Duration) error {
	k.mu.Lock()
	if !k.running {
		k.mu.Unlock()
		return nil
	}

	if timeout <= 0 {
		timeout = k.opts.withDefaults().StopTimeout
	}

	if k.timer != nil {
		k.timer.Stop()
		k.timer = nil
	}
	if k.cancel != nil {
		k.cancel()
		k.cancel = nil
	}

	s := k.session
	k.running = false
	k.mu.Unlock()

	defer close(s.done)

	joined := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(joined)
	}()

	var stopErr error
	select {
	case <-joined:
	case <-time.After(timeout):
		logger.Warnf("stop timeout exceeded after %v", timeout)
		stopErr = context.DeadlineExceeded
	}

	if errs := s.cleanup.Execute(); len(errs) > 0 && stopErr == nil {
		stopErr = errs[0]
	}

	if stopErr != nil {
		logger.Warnf("stopped with error: %v", stopErr)
		return stopErr
	}
	logger.Infof("stopped (nudges=%d failures=%d)", s.monitor.Nudges(), s.monitor.Failures())
	return nil
}

// Done returns a channel closed when the current or most recent session
// has fully stopped. Without any session it is already closed.
func (k *Keeper) Done() <-chan struct{} {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.session == nil {
		ch := make(chan struct{})
		close(ch)
		return ch
	}
	return k.session.done
}

// Wait blocks until the session stops and returns the first error any
// of its goroutines reported.
func (k *Keeper) Wait() error {
	<-k.Done()

	k.mu.Lock()
	s := k.session
	k.mu.Unlock()
	if s == nil {
		return nil
	}
	return s.lastErr()
}

// TimeRemaining returns the time left in a timed session.
func (k *Keeper) TimeRemaining() time.Duration {
	k.mu.Lock()
	defer k.mu.Unlock()

	if !k.running || k.endTime.IsZero() {
		return 0
	}

	remaining := time.Until(k.endTime)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Status reports the current session's state. Before the first start
// only the configured thresholds are filled in.
func (k *Keeper) Status() Status {
	k.mu.Lock()
	s := k.session
	running := k.running
	k.mu.Unlock()

	opts := k.opts.withDefaults()
	st := Status{
		Running:      running,
		Threshold:    opts.IdleThreshold,
		PollInterval: opts.PollInterval,
		Remaining:    k.TimeRemaining(),
	}
	if s == nil {
		return st
	}

	st.Backend = s.backend
	st.ScreenWidth = s.width
	st.LastActivity = s.clock.Last()
	st.Idle = s.clock.Idle()
	st.KeyboardEvents = s.recorder.Events(activity.SourceKeyboard)
	st.MouseEvents = s.recorder.Events(activity.SourceMouse)
	st.Err = s.lastErr()
	if s.monitor != nil {
		st.State = s.monitor.State()
		st.Nudges = s.monitor.Nudges()
		st.Failures = s.monitor.Failures()
		st.LastNudge = s.monitor.LastNudge()
	}
	st.Health = health(st.Nudges, st.Failures)
	return st
}

func health(nudges, failures uint64) Health {
	switch {
	case nudges == 0 && failures == 0:
		return HealthUnknown
	case nudges == 0:
		return HealthFailed
	default:
		return HealthOK
	}
}
