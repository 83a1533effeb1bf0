package tui

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/LISSConsulting/LISSTech.Sleepy/internal/clock"
)

// invalidDuration is shown when the duration input is not a whole number of
// minutes >= 1.
const invalidDuration = "Duration must be at least 1 minute"

// Update handles incoming messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout = Calculate(msg.Width, msg.Height)
		m.bar.Width = m.layout.progressWidth()
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tickMsg:
		return m.handleTick(msg)

	case tickStoppedMsg:
		return m, nil

	case clockMsg:
		m.now = time.Time(msg)
		return m, clockCmd()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.ctrl.Close()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Start):
		return m.startSession()

	case key.Matches(msg, m.keys.Pause):
		m.ctrl.TogglePause()
		m.keys.sync(m.ctrl)
		if m.ctrl.IsRunning() {
			return m, waitForTick(m.ctrl.Ticks())
		}
		return m, nil
	}

	// The duration field accepts digits only. Space reaches here while the
	// pause binding is disabled.
	if msg.Type == tea.KeySpace || (msg.Type == tea.KeyRunes && !allDigits(msg.Runes)) {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.inputErr = ""
	return m, cmd
}

// startSession reads the duration field and starts a session. Changing the
// field mid-session only affects the next start.
func (m Model) startSession() (tea.Model, tea.Cmd) {
	minutes, err := strconv.Atoi(strings.TrimSpace(m.input.Value()))
	if err != nil || minutes < 1 {
		m.inputErr = invalidDuration
		return m, nil
	}
	if err := m.ctrl.Start(minutes); err != nil {
		m.inputErr = err.Error()
		return m, nil
	}
	m.inputErr = ""
	m.today = m.ctrl.TodayMinutes()
	m.keys.sync(m.ctrl)
	return m, waitForTick(m.ctrl.Ticks())
}

// handleTick advances the session. Only a tick from the live source re-arms
// the wait; ticks from a cancelled source are dropped by the controller.
func (m Model) handleTick(msg tickMsg) (tea.Model, tea.Cmd) {
	current := msg.Gen == m.ctrl.Generation()
	wasComplete := m.ctrl.IsComplete()

	m.ctrl.HandleTick(clock.Tick(msg))

	if !wasComplete && m.ctrl.IsComplete() {
		m.today = m.ctrl.TodayMinutes()
	}
	m.keys.sync(m.ctrl)
	if current && m.ctrl.IsRunning() {
		return m, waitForTick(m.ctrl.Ticks())
	}
	return m, nil
}

func allDigits(rs []rune) bool {
	for _, r := range rs {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return len(rs) > 0
}
