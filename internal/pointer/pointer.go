// Package pointer nudges the mouse cursor without visibly moving it.
package pointer

import (
	"image"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var logger = logrus.WithField("component", "pointer")

// Pointer reads and sets the absolute cursor position.
type Pointer interface {
	Location() (image.Point, error)
	MoveTo(p image.Point) error
}

// Expecter is told about the positions a nudge will visit before the
// cursor moves, so the resulting motion events can be ignored.
type Expecter interface {
	Expect(points ...image.Point)
}

// Nudger moves the cursor one pixel and back.
type Nudger struct {
	pointer Pointer
	width   int
	echo    Expecter
}

// NewNudger returns a nudger for a screen of the given width. echo may be nil.
func NewNudger(p Pointer, width int, echo Expecter) *Nudger {
	return &Nudger{pointer: p, width: width, echo: echo}
}

// Width returns the reference screen width.
func (n *Nudger) Width() int {
	return n.width
}

// Step returns the intermediate position for a cursor at origin. It steps
// right unless that would cross the reference width.
func Step(origin image.Point, width int) image.Point {
	if origin.X < width {
		return image.Pt(origin.X+1, origin.Y)
	}
	return image.Pt(origin.X-1, origin.Y)
}

// Nudge displaces the cursor by one pixel and restores it.
func (n *Nudger) Nudge() error {
	origin, err := n.pointer.Location()
	if err != nil {
		return errors.Wrap(err, "failed to read cursor position")
	}

	step := Step(origin, n.width)
	if n.echo != nil {
		n.echo.Expect(step, origin)
	}

	if err := n.pointer.MoveTo(step); err != nil {
		return errors.Wrapf(err, "failed to move cursor to %v", step)
	}
	if err := n.pointer.MoveTo(origin); err != nil {
		return errors.Wrapf(err, "failed to restore cursor to %v", origin)
	}

	logger.Debugf("nudged cursor %v -> %v -> %v", origin, step, origin)
	return nil
}
