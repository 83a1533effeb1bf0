package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the TUI key bindings. It implements help.KeyMap.
type KeyMap struct {
	Start key.Binding
	Pause key.Binding
	Help  key.Binding
	Quit  key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Start: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "start"),
		),
		Pause: key.NewBinding(
			key.WithKeys(" ", "p"),
			key.WithHelp("space", "pause"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns the bindings shown in the footer.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Start, k.Pause, k.Help, k.Quit}
}

// FullHelp returns the bindings shown when help is expanded.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Start, k.Pause},
		{k.Help, k.Quit},
	}
}

// sync enables and relabels bindings for the controller's current state:
// enter starts only before the first session or after completion, space
// only acts on a started, unfinished session.
func (k *KeyMap) sync(ctrl SessionController) {
	canStart := !ctrl.IsStarted() || ctrl.IsComplete()
	k.Start.SetEnabled(canStart)
	if ctrl.IsComplete() {
		k.Start.SetHelp("enter", "start another")
	} else {
		k.Start.SetHelp("enter", "start")
	}

	k.Pause.SetEnabled(ctrl.IsStarted() && !ctrl.IsComplete())
	if ctrl.IsRunning() {
		k.Pause.SetHelp("space", "pause")
	} else {
		k.Pause.SetHelp("space", "resume")
	}
}
