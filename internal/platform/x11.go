package platform

import (
	"image"
	"sync"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/randr"
	"github.com/jezek/xgb/xproto"
	"github.com/pkg/errors"

	"github.com/stigoleg/idle-nudge/internal/display"
)

// x11Desktop talks to the X server directly over one connection. RandR
// provides the primary-monitor flag; core requests move the pointer.
type x11Desktop struct {
	mu     sync.Mutex
	conn   *xgb.Conn
	root   xproto.Window
	screen *xproto.ScreenInfo
	randr  bool
}

func openX11() (Desktop, func() error, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to connect to X server")
	}

	screen := xproto.Setup(conn).DefaultScreen(conn)
	d := &x11Desktop{
		conn:   conn,
		root:   screen.Root,
		screen: screen,
	}

	if err := randr.Init(conn); err != nil {
		logger.Warnf("x11: RandR unavailable, using the root window size: %v", err)
	} else {
		d.randr = true
	}

	return d, d.close, nil
}

func (d *x11Desktop) close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.conn != nil {
		d.conn.Close()
		d.conn = nil
	}
	return nil
}

func (d *x11Desktop) Monitors() ([]display.Monitor, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.conn == nil {
		return nil, errors.New("x11: connection closed")
	}

	if !d.randr {
		return []display.Monitor{d.rootMonitor()}, nil
	}

	reply, err := randr.GetMonitors(d.conn, d.root, true).Reply()
	if err != nil {
		return nil, errors.Wrap(err, "x11: RandR GetMonitors failed")
	}

	monitors := make([]display.Monitor, 0, len(reply.Monitors))
	for i, m := range reply.Monitors {
		monitors = append(monitors, display.Monitor{
			ID:      i,
			X:       int(m.X),
			Y:       int(m.Y),
			Width:   int(m.Width),
			Height:  int(m.Height),
			Primary: m.Primary,
		})
	}
	return monitors, nil
}

// rootMonitor describes the whole root window as a single primary monitor.
func (d *x11Desktop) rootMonitor() display.Monitor {
	return display.Monitor{
		Width:   int(d.screen.WidthInPixels),
		Height:  int(d.screen.HeightInPixels),
		Primary: true,
	}
}

func (d *x11Desktop) Location() (image.Point, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.conn == nil {
		return image.Point{}, errors.New("x11: connection closed")
	}

	reply, err := xproto.QueryPointer(d.conn, d.root).Reply()
	if err != nil {
		return image.Point{}, errors.Wrap(err, "x11: QueryPointer failed")
	}
	return image.Pt(int(reply.RootX), int(reply.RootY)), nil
}

func (d *x11Desktop) MoveTo(p image.Point) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.conn == nil {
		return errors.New("x11: connection closed")
	}

	err := xproto.WarpPointerChecked(d.conn, xproto.WindowNone, d.root,
		0, 0, 0, 0, int16(p.X), int16(p.Y)).Check()
	if err != nil {
		return errors.Wrap(err, "x11: WarpPointer failed")
	}
	return nil
}
