// Package panels renders the header and footer bars of the breathing TUI.
package panels

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// HeaderProps holds all data needed to render the header bar. State is
// passed as strings so panels does not import the session packages.
type HeaderProps struct {
	Title         string
	StateSymbol   string // e.g. "●", "⏸", "✓"
	StateLabel    string // e.g. "BREATHING", "PAUSED"
	TodayMinutes  float64
	TargetMinutes int
	Elapsed       time.Duration
	Clock         time.Time
}

// FormatElapsed renders a duration as a compact string: "5s", "2m30s", "1h15m".
func FormatElapsed(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%dh%dm", h, m)
	}
	if m > 0 {
		return fmt.Sprintf("%dm%ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}

// RenderHeader renders the header bar. accentStyle spans the full width.
func RenderHeader(props HeaderProps, width int, accentStyle lipgloss.Style) string {
	title := "Time to Get Sleepy"
	if props.Title != "" {
		title = props.Title
	}

	parts := []string{"🌙 " + title}

	stateLabel := props.StateLabel
	if props.StateSymbol != "" && props.StateLabel != "" {
		stateLabel = props.StateSymbol + " " + props.StateLabel
	}
	if stateLabel != "" {
		parts = append(parts, stateLabel)
	}
	if props.TargetMinutes > 0 {
		parts = append(parts, fmt.Sprintf("session: %d min", props.TargetMinutes))
	}
	if props.Elapsed > 0 {
		parts = append(parts, fmt.Sprintf("elapsed: %s", FormatElapsed(props.Elapsed)))
	}
	parts = append(parts, fmt.Sprintf("today: %s min", humanize.Ftoa(props.TodayMinutes)))
	if !props.Clock.IsZero() {
		parts = append(parts, props.Clock.Format("15:04"))
	}

	content := strings.Join(parts, "  │  ")
	return accentStyle.Width(width).Render(content)
}
