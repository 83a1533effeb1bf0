package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/LISSConsulting/LISSTech.Sleepy/internal/breath"
	"github.com/LISSConsulting/LISSTech.Sleepy/internal/tui/panels"
)

// View renders the full TUI.
func (m Model) View() string {
	if m.layout.TooSmall {
		msg := fmt.Sprintf("Terminal too small (%dx%d).\nPlease resize to at least %dx%d.",
			m.width, m.height, MinWidth, MinHeight)
		return lipgloss.NewStyle().
			Width(m.width).
			Align(lipgloss.Center).
			Render(msg)
	}

	status := m.ctrl.Status()
	header := panels.RenderHeader(panels.HeaderProps{
		StateSymbol:   status.Symbol(),
		StateLabel:    status.Label(),
		TodayMinutes:  m.today,
		TargetMinutes: m.ctrl.TargetMinutes(),
		Elapsed:       time.Duration(m.ctrl.ElapsedSeconds()) * time.Second,
		Clock:         m.now,
	}, m.layout.Header.Width, m.theme.AccentHeaderStyle())

	footer := panels.RenderFooter(panels.FooterProps{
		Status: m.runStatus(),
		Help:   m.help.View(m.keys),
	}, m.layout.Footer.Width)

	body := lipgloss.Place(m.layout.Body.Width, m.layout.Body.Height,
		lipgloss.Center, lipgloss.Center,
		m.theme.BoxStyle().Render(m.sessionView()))

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

// sessionView renders the centered panel: title, today's total, duration
// field, then either the running session or the completion banner.
func (m Model) sessionView() string {
	lines := []string{
		m.theme.TitleStyle().Render("Time to Get Sleepy"),
		subtextStyle.Render(fmt.Sprintf("Today's total: %s minute(s)", humanize.Ftoa(m.today))),
		"",
		labelStyle.Render("Duration (minutes): ") + m.input.View(),
	}
	if m.inputErr != "" {
		lines = append(lines, errorStyle.Render(m.inputErr))
	}

	switch {
	case m.ctrl.IsComplete():
		lines = append(lines,
			"",
			completeStyle.Render("Session complete. 🧘"),
			m.bar.ViewAs(1),
		)
		if last := m.lastSession(); last != "" {
			lines = append(lines, subtextStyle.Render(last))
		}
	case m.ctrl.IsStarted():
		phase := m.ctrl.CurrentPhase()
		remaining := m.ctrl.TimeRemainingSeconds()
		lines = append(lines,
			"",
			phaseStyle(phase.Name).Render(string(phase.Name)),
			countdownStyle.Render(fmt.Sprintf("%ds", m.ctrl.PhaseTimeLeft())),
			labelStyle.Render(fmt.Sprintf("Time remaining: %d:%02d", remaining/60, remaining%60)),
			m.bar.ViewAs(m.progress()),
		)
		if m.ctrl.Status() == breath.StatusPaused {
			lines = append(lines, pausedStyle.Render("paused"))
		}
	}
	return strings.Join(lines, "\n")
}

// progress returns the completed fraction of the session in [0, 1].
func (m Model) progress() float64 {
	target := m.ctrl.TargetMinutes() * 60
	if target <= 0 {
		return 0
	}
	p := float64(m.ctrl.ElapsedSeconds()) / float64(target)
	if p > 1 {
		p = 1
	}
	return p
}

// lastSession describes the most recent session journaled by this run.
func (m Model) lastSession() string {
	if m.journal == nil {
		return ""
	}
	sessions, err := m.journal.Sessions()
	if err != nil || len(sessions) == 0 {
		return ""
	}
	s := sessions[len(sessions)-1]
	line := fmt.Sprintf("Last: %d min %s, %d:%02d", s.TargetMinutes, s.Outcome, s.Elapsed/60, s.Elapsed%60)
	if s.Pauses > 0 {
		line += fmt.Sprintf(", paused %d×", s.Pauses)
	}
	return line
}

// runStatus summarises the sessions journaled by this run.
func (m Model) runStatus() string {
	if m.journal == nil {
		return ""
	}
	rs, err := m.journal.RunSummary()
	if err != nil || rs.Completed+rs.Abandoned == 0 {
		return ""
	}
	return fmt.Sprintf("%d completed · %d stopped · %s min this run",
		rs.Completed, rs.Abandoned, humanize.Ftoa(rs.Minutes))
}
