package tui

import "github.com/charmbracelet/lipgloss"

// Theme holds accent-color-derived styles.
type Theme struct {
	accent      string
	accentStyle lipgloss.Style // header bar
	titleStyle  lipgloss.Style
	boxStyle    lipgloss.Style // session panel border
}

// NewTheme creates a Theme from a hex accent color string (e.g. "#7D56F4").
// If accentColor is empty, the default accent color is used.
func NewTheme(accentColor string) Theme {
	color := defaultAccentColor
	if accentColor != "" {
		color = accentColor
	}
	c := lipgloss.Color(color)
	return Theme{
		accent: color,
		accentStyle: lipgloss.NewStyle().
			Background(c).
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true),
		titleStyle: lipgloss.NewStyle().
			Foreground(c).
			Bold(true),
		boxStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(c).
			Padding(0, 2),
	}
}

// Accent returns the hex accent color.
func (t Theme) Accent() string { return t.accent }

// AccentHeaderStyle returns the style for the header bar.
func (t Theme) AccentHeaderStyle() lipgloss.Style { return t.accentStyle }

// TitleStyle returns the style for the app title.
func (t Theme) TitleStyle() lipgloss.Style { return t.titleStyle }

// BoxStyle returns the bordered style wrapping the session panel.
func (t Theme) BoxStyle() lipgloss.Style { return t.boxStyle }
