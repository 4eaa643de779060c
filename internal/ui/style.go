// Package ui provides the terminal user interface for idlenudge.
package ui

import "github.com/charmbracelet/lipgloss"

// Colors defines the color scheme used throughout the application
type Colors struct {
	Subtle    lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
	Special   lipgloss.AdaptiveColor
	Warning   lipgloss.AdaptiveColor
	Error     lipgloss.AdaptiveColor
}

var defaultColors = Colors{
	Subtle:    lipgloss.AdaptiveColor{Light: "#666666", Dark: "#999999"},
	Highlight: lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"},
	Special:   lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"},
	Warning:   lipgloss.AdaptiveColor{Light: "#C48A00", Dark: "#F2C94C"},
	Error:     lipgloss.AdaptiveColor{Light: "#FF0000", Dark: "#FF4040"},
}

// Style represents a collection of styles used in the application
type Style struct {
	Title      lipgloss.Style
	Active     lipgloss.Style
	Nudging    lipgloss.Style
	Selected   lipgloss.Style
	Unselected lipgloss.Style
	Label      lipgloss.Style
	Value      lipgloss.Style
	InputBox   lipgloss.Style
	Panel      lipgloss.Style
	Help       lipgloss.Style
	Error      lipgloss.Style
	Countdown  lipgloss.Style
}

// DefaultStyle returns the default style configuration
func DefaultStyle() Style {
	base := lipgloss.NewStyle().
		PaddingLeft(1).
		PaddingRight(1)

	return Style{
		Title: base.Copy().
			Bold(true).
			Foreground(defaultColors.Highlight),

		Active: base.Copy().
			Bold(true).
			Foreground(defaultColors.Special),

		Nudging: base.Copy().
			Bold(true).
			Foreground(defaultColors.Warning),

		Selected: base.Copy().
			Bold(true).
			Foreground(defaultColors.Highlight),

		Unselected: base.Copy(),

		Label: base.Copy().
			Width(16).
			Foreground(defaultColors.Subtle),

		Value: lipgloss.NewStyle(),

		InputBox: base.Copy().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(defaultColors.Highlight).
			Padding(0, 1),

		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(defaultColors.Subtle).
			Padding(0, 1),

		Help: base.Copy().
			Foreground(defaultColors.Subtle),

		Error: base.Copy().
			Foreground(defaultColors.Error),

		Countdown: base.Copy().
			Foreground(defaultColors.Highlight).
			Bold(true),
	}
}

// Current holds the current style configuration
var Current = DefaultStyle()
