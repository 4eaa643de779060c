package platform

import (
	"image"

	"github.com/go-vgo/robotgo"

	"github.com/stigoleg/idle-nudge/internal/display"
)

// robotgoDesktop reaches the pointer and displays through robotgo, which
// covers macOS, Windows and X11.
type robotgoDesktop struct{}

func openRobotgo() (Desktop, func() error, error) {
	return robotgoDesktop{}, nil, nil
}

func (robotgoDesktop) Monitors() ([]display.Monitor, error) {
	n := robotgo.DisplaysNum()
	main := robotgo.GetMainId()

	monitors := make([]display.Monitor, 0, n)
	for i := 0; i < n; i++ {
		x, y, w, h := robotgo.GetDisplayBounds(i)
		monitors = append(monitors, display.Monitor{
			ID:      i,
			X:       x,
			Y:       y,
			Width:   w,
			Height:  h,
			Primary: i == main,
		})
	}
	return monitors, nil
}

func (robotgoDesktop) Location() (image.Point, error) {
	x, y := robotgo.Location()
	return image.Pt(x, y), nil
}

func (robotgoDesktop) MoveTo(p image.Point) error {
	robotgo.Move(p.X, p.Y)
	return nil
}
