// Package display resolves the reference screen width used by the nudger.
package display

import (
	"github.com/pkg/errors"
)

// ErrNoMonitors is returned when the display backend reports no monitors.
var ErrNoMonitors = errors.New("no monitors found")

// Monitor describes one connected display.
type Monitor struct {
	ID      int
	X, Y    int
	Width   int
	Height  int
	Primary bool
}

// Lister enumerates the connected monitors.
type Lister interface {
	Monitors() ([]Monitor, error)
}

// SelectPrimary picks the reference monitor. The first monitor is the
// default and any later monitor flagged primary replaces it, so when no
// monitor is flagged the result depends on the backend's enumeration order.
func SelectPrimary(monitors []Monitor) (Monitor, error) {
	if len(monitors) == 0 {
		return Monitor{}, ErrNoMonitors
	}

	selected := monitors[0]
	for _, m := range monitors[1:] {
		if m.Primary {
			selected = m
		}
	}
	return selected, nil
}

// PrimaryWidth returns the pixel width of the primary monitor.
func PrimaryWidth(l Lister) (int, error) {
	monitors, err := l.Monitors()
	if err != nil {
		return 0, errors.Wrap(err, "failed to enumerate monitors")
	}

	m, err := SelectPrimary(monitors)
	if err != nil {
		return 0, err
	}
	return m.Width, nil
}
