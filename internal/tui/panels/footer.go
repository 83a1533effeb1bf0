package panels

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))

// FooterProps holds all data needed to render the footer bar.
type FooterProps struct {
	Status string // left side, e.g. "2 sessions tonight · 11 min"
	Help   string // right side, rendered key help
}

// RenderFooter renders the footer bar: status on the left, key help on the
// right.
func RenderFooter(props FooterProps, width int) string {
	left := props.Status
	if left == "" {
		left = "—"
	}
	right := props.Help

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 2 {
		gap = 2
	}

	return footerStyle.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}
