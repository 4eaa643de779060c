package ui

import (
	"strconv"
	"time"
	"unicode"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
)

var logger = logrus.WithField("component", "ui")

// tickMsg refreshes the running dashboard
type tickMsg time.Time

const menuItems = 3

// Update handles messages and updates the model accordingly.
func Update(msg tea.Msg, m Model) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && m.ShowHelp {
		switch {
		case key.Matches(msg, keys.ToggleHelp), key.Matches(msg, keys.Back), key.Matches(msg, keys.Quit):
			m.ShowHelp = false
		}
		return m, nil
	}

	switch m.State {
	case stateMenu:
		return updateMenu(msg, m)
	case stateTimedInput:
		return updateTimedInput(msg, m)
	case stateRunning:
		return updateRunning(msg, m)
	}
	return m, nil
}

func updateMenu(msg tea.Msg, m Model) (Model, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(kmsg, keys.Up):
		if m.Selected > 0 {
			m.Selected--
		}
	case key.Matches(kmsg, keys.Down):
		if m.Selected < menuItems-1 {
			m.Selected++
		}
	case key.Matches(kmsg, keys.ToggleHelp):
		m.ShowHelp = true
	case key.Matches(kmsg, keys.Select):
		switch m.Selected {
		case 0:
			return start(m, 0)
		case 1:
			m.State = stateTimedInput
			m.Input = ""
			m.ErrorMessage = ""
		case 2:
			return quit(m)
		}
	case key.Matches(kmsg, keys.Quit), key.Matches(kmsg, keys.Back):
		return quit(m)
	}
	return m, nil
}

func updateTimedInput(msg tea.Msg, m Model) (Model, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(kmsg, keys.Submit):
		if m.Input == "" {
			m.ErrorMessage = "Please enter a duration"
			return m, nil
		}
		minutes, err := strconv.Atoi(m.Input)
		if err != nil {
			m.ErrorMessage = "Invalid duration"
			return m, nil
		}
		if minutes <= 0 {
			m.ErrorMessage = "Duration must be positive"
			return m, nil
		}
		return start(m, time.Duration(minutes)*time.Minute)
	case key.Matches(kmsg, keys.Back):
		m.State = stateMenu
		m.ErrorMessage = ""
	case key.Matches(kmsg, keys.Backspace):
		if len(m.Input) > 0 {
			m.Input = m.Input[:len(m.Input)-1]
			m.ErrorMessage = ""
		}
	case key.Matches(kmsg, keys.Quit) && kmsg.Type == tea.KeyCtrlC:
		return quit(m)
	default:
		s := kmsg.String()
		if len(s) == 1 && unicode.IsDigit(rune(s[0])) && len(m.Input) < 4 {
			m.Input += s
			m.ErrorMessage = ""
		}
	}
	return m, nil
}

func updateRunning(msg tea.Msg, m Model) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Stop):
			if err := m.KeepAlive.Stop(); err != nil {
				m.ErrorMessage = err.Error()
			}
			m.State = stateMenu
			return m, nil
		case key.Matches(msg, keys.ToggleHelp):
			m.ShowHelp = true
		case key.Matches(msg, keys.Quit):
			return quit(m)
		}
	case tickMsg:
		if !m.KeepAlive.IsRunning() {
			// Timed session ran out.
			if err := m.KeepAlive.Status().Err; err != nil {
				m.ErrorMessage = err.Error()
			}
			m.State = stateMenu
			return m, nil
		}
		return m, tick()
	}
	return m, nil
}

func start(m Model, d time.Duration) (Model, tea.Cmd) {
	var err error
	if d > 0 {
		err = m.KeepAlive.StartTimed(d)
	} else {
		err = m.KeepAlive.StartIndefinite()
	}
	if err != nil {
		logger.Errorf("start failed: %v", err)
		m.ErrorMessage = err.Error()
		return m, nil
	}

	m.State = stateRunning
	m.StartTime = time.Now()
	m.Duration = d
	m.ErrorMessage = ""
	return m, tick()
}

func quit(m Model) (Model, tea.Cmd) {
	if m.KeepAlive != nil && m.KeepAlive.IsRunning() {
		if err := m.KeepAlive.Stop(); err != nil {
			logger.Warnf("stop on quit: %v", err)
		}
	}
	return m, tea.Quit
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
