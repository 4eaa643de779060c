package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/stigoleg/idle-nudge/internal/idle"
	"github.com/stigoleg/idle-nudge/internal/keepalive"
)

const progressWidth = 30

// View renders the current state of the model to a string.
func View(m Model) string {
	if m.ShowHelp {
		return HelpView() + "\n\n" + NewHelpModel().View(keys.ForState(stateHelp))
	}

	switch m.State {
	case stateMenu:
		return menuView(m)
	case stateTimedInput:
		return timedInputView(m)
	case stateRunning:
		return runningView(m)
	}

	return ""
}

func menuView(m Model) string {
	var b strings.Builder

	b.WriteString(Current.Title.Render("Idle Nudge"))
	b.WriteString("\n\n")

	b.WriteString(Current.Unselected.Render("Select an option:"))
	b.WriteString("\n\n")

	items := []string{
		"Nudge cursor when idle indefinitely",
		"Nudge cursor when idle for X minutes",
		"Quit",
	}

	for i, opt := range items {
		if i == m.Selected {
			b.WriteString(Current.Selected.Render("> " + opt))
		} else {
			b.WriteString(Current.Unselected.Render("  " + opt))
		}
		b.WriteString("\n")
	}

	if m.ErrorMessage != "" {
		b.WriteString("\n" + Current.Error.Render(m.ErrorMessage))
	}

	b.WriteString("\n\n" + NewHelpModel().View(keys.ForState(stateMenu)))
	return b.String()
}

func timedInputView(m Model) string {
	var b strings.Builder

	b.WriteString(Current.Title.Render("Enter Duration"))
	b.WriteString("\n\n")

	b.WriteString(Current.Unselected.Render("Enter duration in minutes:"))
	b.WriteString("\n")
	input := m.Input
	if input == "" {
		input = " "
	}
	b.WriteString(Current.InputBox.Render(input))
	b.WriteString("\n\n")

	b.WriteString(NewHelpModel().View(keys.ForState(stateTimedInput)))

	if m.ErrorMessage != "" {
		b.WriteString("\n\n" + Current.Error.Render(m.ErrorMessage))
	}

	return b.String()
}

func runningView(m Model) string {
	var b strings.Builder

	b.WriteString(Current.Title.Render("Idle Nudge Active"))
	b.WriteString("\n\n")

	st := m.KeepAlive.Status()
	if st.State == idle.StateNudging {
		b.WriteString(Current.Nudging.Render("Cursor is being nudged"))
	} else {
		b.WriteString(Current.Active.Render("Watching for idle input"))
	}
	b.WriteString("\n\n")

	b.WriteString(Current.Panel.Render(statusPanel(st)))
	b.WriteString("\n")

	if m.Duration > 0 {
		remaining := m.TimeRemaining()
		minutes := int(remaining.Minutes())
		seconds := int(remaining.Seconds()) % 60
		b.WriteString("\n")
		b.WriteString(Current.Countdown.Render(fmt.Sprintf("%d:%02d remaining", minutes, seconds)))
		b.WriteString("\n")

		bar := progress.New(
			progress.WithGradient("#7D56F4", "#43BF6D"),
			progress.WithWidth(progressWidth),
			progress.WithoutPercentage(),
		)
		done := 1.0 - float64(remaining)/float64(m.Duration)
		b.WriteString(" " + bar.ViewAs(done))
		b.WriteString("\n")
	}

	b.WriteString("\n" + NewHelpModel().View(keys.ForState(stateRunning)))

	if m.ErrorMessage != "" {
		b.WriteString("\n\n" + Current.Error.Render(m.ErrorMessage))
	}

	return b.String()
}

func statusPanel(st keepalive.Status) string {
	rows := [][2]string{
		{"Backend", orDash(st.Backend)},
		{"Screen width", fmt.Sprintf("%d px", st.ScreenWidth)},
		{"Idle", fmt.Sprintf("%s / %s", st.Idle.Truncate(time.Second), st.Threshold)},
		{"Last activity", clockOrDash(st.LastActivity)},
		{"Nudges", fmt.Sprintf("%d (%d failed)", st.Nudges, st.Failures)},
		{"Last nudge", clockOrDash(st.LastNudge)},
		{"Input events", fmt.Sprintf("%d keyboard, %d mouse", st.KeyboardEvents, st.MouseEvents)},
		{"Health", st.Health.String()},
	}
	if st.Err != nil {
		rows = append(rows, [2]string{"Error", st.Err.Error()})
	}

	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top,
			Current.Label.Render(r[0]), Current.Value.Render(r[1])))
	}
	return strings.Join(lines, "\n")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func clockOrDash(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("15:04:05")
}

// HelpView renders the usage text.
func HelpView() string {
	help := `Idle Nudge Help

Moves the mouse cursor by one pixel and back whenever no keyboard or
mouse input has been seen for longer than the idle threshold.

Usage:
  idlenudge [flags]

Flags:
  -d, --duration string    How long to run, minutes or duration (e.g. "150", "2h30m")
  -c, --clock string       Run until a time of day (e.g. "22:30", "10:30PM")
  -i, --idle duration      Idle time before nudging (default 30s)
  -p, --poll duration      How often idle time is checked (default 15s)
  -b, --backend string     Desktop backend: auto, robotgo, x11 (default robotgo)
      --headless           Run without the terminal UI
      --log-file string    Log file (default "idlenudge.log", stderr when headless)
      --log-level string   debug, info, warn or error (default info)
  -v, --version            Show version information
  -h, --help               Show help message

Environment:
  IDLENUDGE_IDLE, IDLENUDGE_POLL, IDLENUDGE_BACKEND,
  IDLENUDGE_LOG_FILE, IDLENUDGE_LOG_LEVEL

Examples:
  idlenudge                      # Start with interactive TUI
  idlenudge -d 2h30m             # Nudge for 2 hours and 30 minutes
  idlenudge -c 17:00 --headless  # Nudge until 17:00 without the TUI
  idlenudge -i 2m -p 30s         # Nudge after 2 minutes idle`

	return Current.Help.Render(help)
}
