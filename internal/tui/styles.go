// Package tui provides the bubbletea + lipgloss terminal UI for the
// breathing timer.
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/LISSConsulting/LISSTech.Sleepy/internal/breath"
)

// defaultAccentColor is the default accent color (indigo).
const defaultAccentColor = "#7D56F4"

// Color palette.
var (
	colorWhite  = lipgloss.Color("#FAFAFA")
	colorGray   = lipgloss.Color("#888888")
	colorBlue   = lipgloss.Color("#5B9BD5")
	colorGreen  = lipgloss.Color("#6BCB77")
	colorYellow = lipgloss.Color("#FFD93D")
	colorRed    = lipgloss.Color("#FF6B6B")
)

// Styles used across the TUI. Accent-dependent styles live on Theme.
var (
	subtextStyle = lipgloss.NewStyle().
			Foreground(colorGray)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorWhite)

	countdownStyle = lipgloss.NewStyle().
			Foreground(colorWhite).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorRed).
			Bold(true)

	completeStyle = lipgloss.NewStyle().
			Foreground(colorGreen).
			Bold(true)

	pausedStyle = lipgloss.NewStyle().
			Foreground(colorGray).
			Italic(true)
)

// phaseStyle returns the style for a phase name.
func phaseStyle(name breath.PhaseName) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)
	switch name {
	case breath.Inhale:
		return base.Foreground(colorBlue)
	case breath.Hold:
		return base.Foreground(colorYellow)
	case breath.Exhale:
		return base.Foreground(colorGreen)
	default:
		return base.Foreground(colorWhite)
	}
}
