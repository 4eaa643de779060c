package platform

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var logger = logrus.WithField("component", "platform")

// ErrUnknownBackend is returned by Open for unsupported backend names.
var ErrUnknownBackend = errors.New("unknown backend")

var desktops = map[string]func() (Desktop, func() error, error){
	BackendRobotgo: openRobotgo,
	BackendX11:     openX11,
}

// Names lists the accepted backend names.
func Names() []string {
	names := []string{BackendAuto}
	for name := range desktops {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Normalize maps an empty or "auto" backend to the default and lowercases
// everything else.
func Normalize(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == BackendAuto {
		return DefaultBackend
	}
	return name
}

// Valid reports whether Open accepts name.
func Valid(name string) bool {
	_, ok := desktops[Normalize(name)]
	return ok
}

// Open creates the named backend. Every backend reads input through the
// global hook; the name selects how the pointer and displays are reached.
func Open(name string) (*Backend, error) {
	name = Normalize(name)
	open, ok := desktops[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownBackend, "%q (want one of %s)", name, strings.Join(Names(), ", "))
	}

	desktop, closeDesktop, err := open()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s backend", name)
	}

	logger.Infof("opened %s backend", name)
	return &Backend{
		Name:    name,
		Display: desktop,
		Pointer: desktop,
		Input:   newHookSource(),
		Close:   closeDesktop,
	}, nil
}
