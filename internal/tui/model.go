package tui

import (
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/LISSConsulting/LISSTech.Sleepy/internal/clock"
	"github.com/LISSConsulting/LISSTech.Sleepy/internal/store"
)

// Options configures the TUI.
type Options struct {
	AccentColor    string
	DefaultMinutes int
	Journal        store.Reader // optional; feeds the footer run summary
	Now            func() time.Time
}

// Model is the root bubbletea model for the breathing timer.
type Model struct {
	ctrl    SessionController
	journal store.Reader

	input textinput.Model
	bar   progress.Model
	help  help.Model
	keys  KeyMap

	theme  Theme
	layout Layout
	width  int
	height int

	now      time.Time
	today    float64
	inputErr string
}

// New creates the TUI model around ctrl.
func New(ctrl SessionController, opts Options) Model {
	if opts.DefaultMinutes < 1 {
		opts.DefaultMinutes = 1
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	th := NewTheme(opts.AccentColor)

	in := textinput.New()
	in.Prompt = ""
	in.Placeholder = "1"
	in.CharLimit = 4
	in.Width = 5
	in.SetValue(strconv.Itoa(opts.DefaultMinutes))
	in.Focus()

	layout := Calculate(80, 24)
	bar := progress.New(
		progress.WithGradient(th.Accent(), "#6BCB77"),
		progress.WithoutPercentage(),
	)
	bar.Width = layout.progressWidth()

	m := Model{
		ctrl:    ctrl,
		journal: opts.Journal,
		input:   in,
		bar:     bar,
		help:    help.New(),
		keys:    DefaultKeyMap(),
		theme:   th,
		layout:  layout,
		width:   80,
		height:  24,
		now:     opts.Now(),
		today:   ctrl.TodayMinutes(),
	}
	m.keys.sync(ctrl)
	return m
}

// Init starts the cursor blink and the header clock.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, clockCmd())
}

// clockCmd schedules the next one-second header clock refresh.
func clockCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return clockMsg(t)
	})
}

// waitForTick blocks on the controller's tick channel. A closed channel
// yields tickStoppedMsg; a nil channel yields no command.
func waitForTick(ch <-chan clock.Tick) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		t, ok := <-ch
		if !ok {
			return tickStoppedMsg{}
		}
		return tickMsg(t)
	}
}
