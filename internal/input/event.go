// Package input turns raw keyboard and mouse hook events into activity signals.
package input

import (
	"image"
	"time"
)

// Kind is the type of a hook event.
type Kind uint8

const (
	KindOther Kind = iota
	KindKeyDown
	KindKeyHold
	KindKeyUp
	KindMouseMove
	KindMouseDrag
	KindMouseDown
	KindMouseHold
	KindMouseUp
	KindMouseWheel
)

func (k Kind) String() string {
	switch k {
	case KindKeyDown:
		return "key-down"
	case KindKeyHold:
		return "key-hold"
	case KindKeyUp:
		return "key-up"
	case KindMouseMove:
		return "mouse-move"
	case KindMouseDrag:
		return "mouse-drag"
	case KindMouseDown:
		return "mouse-down"
	case KindMouseHold:
		return "mouse-hold"
	case KindMouseUp:
		return "mouse-up"
	case KindMouseWheel:
		return "mouse-wheel"
	default:
		return "other"
	}
}

// Keyboard reports whether k is a key press or release.
func (k Kind) Keyboard() bool {
	return k == KindKeyDown || k == KindKeyHold || k == KindKeyUp
}

// Mouse reports whether k is a move, click or scroll.
func (k Kind) Mouse() bool {
	return k >= KindMouseMove && k <= KindMouseWheel
}

// Event is a single hook event. Only Kind matters for activity tracking;
// Pos is kept so our own synthetic moves can be recognised.
type Event struct {
	Kind Kind
	Pos  image.Point
	When time.Time
}

// Source delivers hook events. Start is called once; Stop ends delivery
// and should eventually close the channel returned by Start.
type Source interface {
	Start() <-chan Event
	Stop()
}
