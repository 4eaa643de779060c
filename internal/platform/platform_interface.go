package platform

import (
	"github.com/stigoleg/idle-nudge/internal/display"
	"github.com/stigoleg/idle-nudge/internal/input"
	"github.com/stigoleg/idle-nudge/internal/pointer"
)

// Desktop is the OS pointer and display boundary of a backend.
type Desktop interface {
	display.Lister
	pointer.Pointer
}

// Backend bundles the OS capabilities the keeper depends on.
type Backend struct {
	// Name is the backend identifier, e.g. "robotgo" or "x11"
	Name string

	Display display.Lister
	Pointer pointer.Pointer
	Input   input.Source

	// Close releases backend resources; it may be nil
	Close func() error
}

// Opener creates a backend by name. Open is the production implementation.
type Opener func(name string) (*Backend, error)
