package input

import (
	"context"
	"image"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/stigoleg/idle-nudge/internal/activity"
)

var logger = logrus.WithField("component", "input")

// ErrSourceClosed is returned when the event source stops delivering.
var ErrSourceClosed = errors.New("input source closed")

const observerBuffer = 32

// Notifier receives activity signals. *activity.Recorder satisfies it.
type Notifier interface {
	Notify(activity.Signal)
}

// Swallower recognises events that were generated by this process.
type Swallower interface {
	Swallow(p image.Point) bool
}

// Observer listens to one input device and reports every event on it.
type Observer struct {
	name    string
	source  activity.Source
	accepts func(Kind) bool
	notify  Notifier
	filter  Swallower
	now     func() time.Time
	events  chan Event
}

// NewKeyboardObserver reports every key press and release.
func NewKeyboardObserver(n Notifier) *Observer {
	return newObserver("keyboard", activity.SourceKeyboard, Kind.Keyboard, n, nil)
}

// NewMouseObserver reports every mouse move, click and scroll. Events
// recognised by filter are skipped; filter may be nil.
func NewMouseObserver(n Notifier, filter Swallower) *Observer {
	return newObserver("mouse", activity.SourceMouse, Kind.Mouse, n, filter)
}

func newObserver(name string, source activity.Source, accepts func(Kind) bool, n Notifier, filter Swallower) *Observer {
	return &Observer{
		name:    name,
		source:  source,
		accepts: accepts,
		notify:  n,
		filter:  filter,
		now:     time.Now,
		events:  make(chan Event, observerBuffer),
	}
}

// Name returns the observer's device name.
func (o *Observer) Name() string {
	return o.name
}

// Accepts reports whether the observer is interested in events of kind k.
func (o *Observer) Accepts(k Kind) bool {
	return o.accepts(k)
}

// deliver hands an event to the observer, dropping it if the observer is
// behind.
func (o *Observer) deliver(ev Event) {
	select {
	case o.events <- ev:
	default:
	}
}

// Run reports events until ctx is cancelled or the hub closes the observer.
func (o *Observer) Run(ctx context.Context) error {
	logger.Debugf("%s observer started", o.name)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-o.events:
			if !ok {
				return errors.Wrapf(ErrSourceClosed, "%s observer", o.name)
			}
			o.handle(ev)
		}
	}
}

func (o *Observer) handle(ev Event) {
	if !o.accepts(ev.Kind) {
		return
	}
	if o.filter != nil && o.filter.Swallow(ev.Pos) {
		logger.Debugf("%s observer: ignoring synthetic %s at %v", o.name, ev.Kind, ev.Pos)
		return
	}
	o.notify.Notify(activity.Signal{Source: o.source, At: o.now()})
}
