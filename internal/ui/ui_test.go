package ui

import (
	"image"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stigoleg/idle-nudge/internal/display"
	"github.com/stigoleg/idle-nudge/internal/input"
	"github.com/stigoleg/idle-nudge/internal/keepalive"
	"github.com/stigoleg/idle-nudge/internal/platform"
)

type stubDesktop struct {
	mu  sync.Mutex
	pos image.Point
}

func (d *stubDesktop) Monitors() ([]display.Monitor, error) {
	return []display.Monitor{{Width: 1440, Primary: true}}, nil
}

func (d *stubDesktop) Location() (image.Point, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pos, nil
}

func (d *stubDesktop) MoveTo(p image.Point) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pos = p
	return nil
}

type stubSource struct {
	events chan input.Event
	once   sync.Once
}

func (s *stubSource) Start() <-chan input.Event { return s.events }
func (s *stubSource) Stop()                     { s.once.Do(func() { close(s.events) }) }

func testKeeper(t *testing.T) *keepalive.Keeper {
	t.Helper()
	k := keepalive.New(keepalive.Options{
		Open: func(string) (*platform.Backend, error) {
			d := &stubDesktop{}
			return &platform.Backend{
				Name:    "stub",
				Display: d,
				Pointer: d,
				Input:   &stubSource{events: make(chan input.Event)},
				Close:   func() error { return nil },
			}, nil
		},
	})
	t.Cleanup(func() { _ = k.Stop() })
	return k
}

func TestInitialModel(t *testing.T) {
	m := InitialModel()
	assert.Equal(t, stateMenu, m.State)
	assert.Equal(t, 0, m.Selected)
	assert.Empty(t, m.Input)
	assert.Empty(t, m.ErrorMessage)
	assert.NotNil(t, m.KeepAlive)
	assert.Nil(t, m.Init())
}

func TestMenuView(t *testing.T) {
	m := InitialModel()
	view := View(m)

	for _, opt := range []string{
		"Nudge cursor when idle indefinitely",
		"Nudge cursor when idle for X minutes",
		"Quit",
	} {
		assert.Contains(t, view, opt)
	}

	foundCursor := false
	for _, line := range strings.Split(view, "\n") {
		if strings.Contains(line, ">") && strings.Contains(line, "Nudge cursor when idle indefinitely") {
			foundCursor = true
			break
		}
	}
	assert.True(t, foundCursor, "expected cursor to be at first option")
}

func TestUpdate(t *testing.T) {
	tests := []struct {
		name         string
		msg          tea.Msg
		model        Model
		wantState    state
		wantSelected int
	}{
		{
			name:         "up key at top stays at top",
			msg:          tea.KeyMsg{Type: tea.KeyUp},
			model:        Model{State: stateMenu, Selected: 0},
			wantState:    stateMenu,
			wantSelected: 0,
		},
		{
			name:         "down key moves selection",
			msg:          tea.KeyMsg{Type: tea.KeyDown},
			model:        Model{State: stateMenu, Selected: 0},
			wantState:    stateMenu,
			wantSelected: 1,
		},
		{
			name:         "down key at bottom stays at bottom",
			msg:          tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")},
			model:        Model{State: stateMenu, Selected: 2},
			wantState:    stateMenu,
			wantSelected: 2,
		},
		{
			name:         "enter on timed input moves to input state",
			msg:          tea.KeyMsg{Type: tea.KeyEnter},
			model:        Model{State: stateMenu, Selected: 1},
			wantState:    stateTimedInput,
			wantSelected: 1,
		},
		{
			name:      "esc in timed input returns to menu",
			msg:       tea.KeyMsg{Type: tea.KeyEsc},
			model:     Model{State: stateTimedInput, Input: "12"},
			wantState: stateMenu,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.model.KeepAlive = testKeeper(t)
			got, _ := Update(tt.msg, tt.model)
			assert.Equal(t, tt.wantState, got.State)
			assert.Equal(t, tt.wantSelected, got.Selected)
		})
	}
}

func TestTimedInputEditing(t *testing.T) {
	m := Model{State: stateTimedInput, KeepAlive: testKeeper(t)}

	for _, r := range "12x345" {
		m, _ = Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}, m)
	}
	assert.Equal(t, "1234", m.Input, "non-digits ignored and input capped at four digits")

	m, _ = Update(tea.KeyMsg{Type: tea.KeyBackspace}, m)
	assert.Equal(t, "123", m.Input)
}

func TestTimedInputValidation(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", "Please enter a duration"},
		{"0", "Duration must be positive"},
	}

	for _, tt := range tests {
		m := Model{State: stateTimedInput, Input: tt.input, KeepAlive: testKeeper(t)}
		got, _ := Update(tea.KeyMsg{Type: tea.KeyEnter}, m)
		assert.Equal(t, stateTimedInput, got.State)
		assert.Equal(t, tt.want, got.ErrorMessage)
	}
}

func TestStartTimedAndStop(t *testing.T) {
	k := testKeeper(t)
	m := Model{State: stateTimedInput, Input: "5", KeepAlive: k}

	m, cmd := Update(tea.KeyMsg{Type: tea.KeyEnter}, m)
	require.Equal(t, stateRunning, m.State, m.ErrorMessage)
	assert.NotNil(t, cmd, "running state schedules a tick")
	assert.Equal(t, 5*time.Minute, m.Duration)
	assert.True(t, k.IsRunning())

	m, _ = Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")}, m)
	assert.Equal(t, stateMenu, m.State)
	assert.False(t, k.IsRunning())
}

func TestStartIndefiniteFromMenu(t *testing.T) {
	k := testKeeper(t)
	m := InitialModelWithKeeper(k)

	m, _ = Update(tea.KeyMsg{Type: tea.KeyEnter}, m)
	require.Equal(t, stateRunning, m.State, m.ErrorMessage)
	assert.Zero(t, m.Duration)
	assert.True(t, k.IsRunning())

	view := View(m)
	assert.Contains(t, view, "Idle Nudge Active")
	assert.Contains(t, view, "stub")
	assert.Contains(t, view, "1440 px")
	assert.NotContains(t, view, "remaining")
}

func TestTickReturnsToMenuWhenStopped(t *testing.T) {
	k := testKeeper(t)
	m := InitialModelWithDuration(k, time.Minute)
	require.Equal(t, stateRunning, m.State)
	assert.NotNil(t, m.Init())

	require.NoError(t, k.Stop())
	m, cmd := Update(tickMsg(time.Now()), m)
	assert.Equal(t, stateMenu, m.State)
	assert.Nil(t, cmd)
}

func TestQuitStopsKeeper(t *testing.T) {
	k := testKeeper(t)
	m := InitialModelWithDuration(k, 0)
	require.True(t, k.IsRunning())

	_, cmd := Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}, m)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.False(t, k.IsRunning())
}

func TestHelpToggle(t *testing.T) {
	m := Model{State: stateMenu, KeepAlive: testKeeper(t)}

	m, _ = Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("?")}, m)
	require.True(t, m.ShowHelp)
	assert.Contains(t, View(m), "Usage:")

	m, _ = Update(tea.KeyMsg{Type: tea.KeyEsc}, m)
	assert.False(t, m.ShowHelp)
	assert.Equal(t, stateMenu, m.State, "closing help does not quit")
}

func TestTimedInputView(t *testing.T) {
	m := Model{
		State:     stateTimedInput,
		Input:     "5",
		KeepAlive: testKeeper(t),
	}
	view := View(m)

	assert.Contains(t, view, "minutes")
	assert.Contains(t, view, "5")
}

func TestRunningView(t *testing.T) {
	m := Model{
		State:     stateRunning,
		StartTime: time.Now(),
		Duration:  5 * time.Minute,
		KeepAlive: testKeeper(t),
	}
	view := View(m)

	assert.Contains(t, view, "Idle Nudge Active")
	assert.Contains(t, view, "Watching for idle input")
	assert.Contains(t, view, "remaining")
	assert.Contains(t, view, "Health")
}

func TestErrorDisplay(t *testing.T) {
	m := Model{
		State:        stateMenu,
		ErrorMessage: "test error",
		KeepAlive:    testKeeper(t),
	}
	assert.Contains(t, View(m), "test error")
}

func TestTimeRemaining(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name      string
		model     Model
		wantZero  bool
		wantRange time.Duration
	}{
		{
			name:     "no duration",
			model:    Model{StartTime: now, State: stateRunning},
			wantZero: true,
		},
		{
			name:      "with duration",
			model:     Model{StartTime: now, Duration: 5 * time.Minute, State: stateRunning},
			wantRange: 5 * time.Minute,
		},
		{
			name:     "expired duration",
			model:    Model{StartTime: now.Add(-6 * time.Minute), Duration: 5 * time.Minute, State: stateRunning},
			wantZero: true,
		},
		{
			name:     "not running",
			model:    Model{StartTime: now, Duration: 5 * time.Minute, State: stateMenu},
			wantZero: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.model.TimeRemaining()
			if tt.wantZero {
				assert.Zero(t, got)
				return
			}
			assert.True(t, got > 0 && got <= tt.wantRange, "TimeRemaining() = %v", got)
		})
	}
}
