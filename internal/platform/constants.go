package platform

import "time"

// Activity detection defaults shared by every backend
const (
	// IdleThreshold is how long the user must be idle before the cursor is nudged.
	// Elapsed time must strictly exceed it.
	IdleThreshold = 30 * time.Second

	// PollInterval is how often the idle monitor wakes up.
	// Worst-case detection latency is one interval past the threshold.
	PollInterval = 15 * time.Second

	// EchoWindow bounds how long a nudge's own motion events are ignored
	EchoWindow = 500 * time.Millisecond

	// StopTimeout is how long Stop waits for every context to return
	StopTimeout = 5 * time.Second

	// DefaultBackend is used when no backend is configured
	DefaultBackend = BackendRobotgo
)

// Backend names accepted by Open
const (
	BackendAuto    = "auto"
	BackendRobotgo = "robotgo"
	BackendX11     = "x11"
)
