package platform

import (
	"image"
	"sync"
	"sync/atomic"

	hook "github.com/robotn/gohook"

	"github.com/stigoleg/idle-nudge/internal/input"
)

// hookSource adapts the process-wide gohook event stream.
type hookSource struct {
	startOnce sync.Once
	stopOnce  sync.Once
	started   atomic.Bool
	out       chan input.Event
	done      chan struct{}
}

func newHookSource() *hookSource {
	return &hookSource{
		out:  make(chan input.Event, 64),
		done: make(chan struct{}),
	}
}

// Start begins capturing OS input. Calling it again returns the same channel.
func (s *hookSource) Start() <-chan input.Event {
	s.startOnce.Do(func() {
		s.started.Store(true)
		events := hook.Start()
		go s.pump(events)
	})
	return s.out
}

func (s *hookSource) pump(events chan hook.Event) {
	defer close(s.out)
	for {
		select {
		case <-s.done:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			kind := hookKind(ev.Kind)
			if kind == input.KindOther {
				continue
			}
			select {
			case s.out <- input.Event{Kind: kind, Pos: image.Pt(int(ev.X), int(ev.Y)), When: ev.When}:
			case <-s.done:
				return
			}
		}
	}
}

// Stop ends the hook. It is safe to call more than once.
func (s *hookSource) Stop() {
	s.stopOnce.Do(func() {
		close(s.done)
		if s.started.Load() {
			hook.End()
		}
	})
}

func hookKind(k uint8) input.Kind {
	switch k {
	case hook.KeyDown:
		return input.KindKeyDown
	case hook.KeyHold:
		return input.KindKeyHold
	case hook.KeyUp:
		return input.KindKeyUp
	case hook.MouseMove:
		return input.KindMouseMove
	case hook.MouseDrag:
		return input.KindMouseDrag
	case hook.MouseDown:
		return input.KindMouseDown
	case hook.MouseHold:
		return input.KindMouseHold
	case hook.MouseUp:
		return input.KindMouseUp
	case hook.MouseWheel:
		return input.KindMouseWheel
	default:
		return input.KindOther
	}
}
