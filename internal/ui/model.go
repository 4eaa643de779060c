package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/stigoleg/idle-nudge/internal/keepalive"
)

// state represents the different states of the TUI.
type state int

const (
	stateMenu state = iota
	stateTimedInput
	stateRunning
	stateHelp
)

// Model holds the current state of the UI, including user input and the
// keeper driving the nudges.
type Model struct {
	State        state
	Selected     int
	Input        string
	KeepAlive    *keepalive.Keeper
	ErrorMessage string
	StartTime    time.Time
	Duration     time.Duration
	ShowHelp     bool
}

// InitialModel returns a menu model backed by a default keeper.
func InitialModel() Model {
	return InitialModelWithKeeper(&keepalive.Keeper{})
}

// InitialModelWithKeeper returns a menu model driving k.
func InitialModelWithKeeper(k *keepalive.Keeper) Model {
	return Model{
		State:     stateMenu,
		KeepAlive: k,
	}
}

// InitialModelWithDuration returns a model that starts nudging right away,
// for d or indefinitely when d is zero.
func InitialModelWithDuration(k *keepalive.Keeper, d time.Duration) Model {
	m := InitialModelWithKeeper(k)

	var err error
	if d > 0 {
		err = k.StartTimed(d)
	} else {
		err = k.StartIndefinite()
	}
	if err != nil {
		m.ErrorMessage = err.Error()
		return m
	}

	m.State = stateRunning
	m.StartTime = time.Now()
	m.Duration = d
	return m
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	if m.State == stateRunning {
		return tick()
	}
	return nil
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return Update(msg, m)
}

// View implements tea.Model
func (m Model) View() string {
	return View(m)
}

// TimeRemaining returns the remaining duration of a timed session
func (m Model) TimeRemaining() time.Duration {
	if m.State != stateRunning || m.Duration <= 0 {
		return 0
	}
	remaining := m.Duration - time.Since(m.StartTime)
	if remaining < 0 {
		return 0
	}
	return remaining
}
