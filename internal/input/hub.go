package input

import (
	"context"
	"sync"

	"github.com/pkg/errors"
)

// Hub fans a single event source out to observers. OS input hooks are
// process-wide, so one hub serves both the keyboard and the mouse.
type Hub struct {
	source Source

	mu        sync.Mutex
	observers []*Observer
	started   bool
}

// NewHub creates a hub reading from source.
func NewHub(source Source) *Hub {
	return &Hub{source: source}
}

// Attach registers observers. It must be called before Run.
func (h *Hub) Attach(observers ...*Observer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.observers = append(h.observers, observers...)
}

// Run starts the source and dispatches its events until ctx is cancelled
// or the source closes. When the source closes, every observer is closed
// too so it can report the failure.
func (h *Hub) Run(ctx context.Context) error {
	h.mu.Lock()
	if h.started {
		h.mu.Unlock()
		return errors.New("input hub already started")
	}
	h.started = true
	observers := make([]*Observer, len(h.observers))
	copy(observers, h.observers)
	h.mu.Unlock()

	events := h.source.Start()
	logger.Infof("input hub started with %d observers", len(observers))

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				for _, o := range observers {
					close(o.events)
				}
				return ErrSourceClosed
			}
			for _, o := range observers {
				if o.Accepts(ev.Kind) {
					o.deliver(ev)
				}
			}
		}
	}
}

// Stop ends the underlying source.
func (h *Hub) Stop() {
	h.source.Stop()
}
