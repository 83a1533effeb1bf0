package breath

import "fmt"

// Accounting selects how elapsed session time is accumulated.
type Accounting int

const (
	// AccountCompat adds one second per tick and, on every cycle wrap, the
	// full cycle duration on top. Completion is only checked on a wrap.
	// Sessions end well before TargetMinutes of wall time; kept because
	// existing practice totals were recorded this way.
	AccountCompat Accounting = iota

	// AccountTicks adds exactly one second per tick and checks completion
	// on every tick.
	AccountTicks
)

// ParseAccounting maps a config string to an Accounting mode.
// The empty string selects AccountCompat.
func ParseAccounting(s string) (Accounting, error) {
	switch s {
	case "", "compat":
		return AccountCompat, nil
	case "ticks":
		return AccountTicks, nil
	default:
		return AccountCompat, fmt.Errorf("breath: unknown accounting %q (want \"compat\" or \"ticks\")", s)
	}
}

// String returns the config spelling of the mode.
func (a Accounting) String() string {
	if a == AccountTicks {
		return "ticks"
	}
	return "compat"
}

// Config is captured once when a session starts.
type Config struct {
	TargetMinutes int
	Accounting    Accounting
}

// TargetSeconds returns the session goal in seconds.
func (c Config) TargetSeconds() int { return c.TargetMinutes * 60 }

// Status is the externally visible state of a session.
type Status int

const (
	StatusIdle     Status = iota // no session started yet
	StatusRunning                // ticking
	StatusPaused                 // started, not ticking
	StatusComplete               // finished; terminal until the next Start
)

// Label returns a short uppercase label for the status.
func (s Status) Label() string {
	switch s {
	case StatusIdle:
		return "IDLE"
	case StatusRunning:
		return "BREATHING"
	case StatusPaused:
		return "PAUSED"
	case StatusComplete:
		return "COMPLETE"
	default:
		return "UNKNOWN"
	}
}

// Symbol returns a single-character symbol for the status.
func (s Status) Symbol() string {
	switch s {
	case StatusIdle:
		return "○"
	case StatusRunning:
		return "●"
	case StatusPaused:
		return "⏸"
	case StatusComplete:
		return "✓"
	default:
		return "?"
	}
}

// State is the full session state. It is a plain value: every transition
// below returns a new State and never mutates its argument.
type State struct {
	Config Config

	Started  bool
	Running  bool
	Complete bool

	Elapsed       int // seconds, see Accounting
	PhaseIndex    int
	PhaseTimeLeft int
}

// Idle returns the state before any session has been started.
func Idle() State {
	return State{PhaseTimeLeft: PhaseAt(0).Duration}
}

// Status derives the externally visible status.
func (s State) Status() Status {
	switch {
	case s.Complete:
		return StatusComplete
	case s.Running:
		return StatusRunning
	case s.Started:
		return StatusPaused
	default:
		return StatusIdle
	}
}

// Phase returns the current phase.
func (s State) Phase() Phase { return PhaseAt(s.PhaseIndex) }

// Remaining returns the seconds left until the target, never negative.
func (s State) Remaining() int {
	r := s.Config.TargetSeconds() - s.Elapsed
	if r < 0 {
		return 0
	}
	return r
}

// Transition reports what a Tick did, so the caller can perform the side
// effects (cues, history writes) the pure reducer cannot.
type Transition struct {
	PhaseEntered bool // a new phase began; cue it
	CycleWrapped bool // the cycle returned to index 0
	Completed    bool // the session reached its target on this tick
}

// Start returns a fresh running session for cfg, regardless of the prior
// state.
func Start(cfg Config) State {
	return State{
		Config:        cfg,
		Started:       true,
		Running:       true,
		PhaseIndex:    0,
		PhaseTimeLeft: PhaseAt(0).Duration,
	}
}

// Tick advances a running session by one second. A state that is not
// running is returned unchanged with a zero Transition.
func Tick(s State) (State, Transition) {
	var tr Transition
	if !s.Running {
		return s, tr
	}

	if s.PhaseTimeLeft > 1 {
		s.PhaseTimeLeft--
	} else {
		s.PhaseIndex = Next(s.PhaseIndex)
		s.PhaseTimeLeft = PhaseAt(s.PhaseIndex).Duration
		tr.PhaseEntered = true
		if s.PhaseIndex == 0 {
			tr.CycleWrapped = true
			if s.Config.Accounting == AccountCompat {
				s.Elapsed += TotalCycleDuration()
			}
		}
	}
	s.Elapsed++

	checkNow := tr.CycleWrapped || s.Config.Accounting == AccountTicks
	if checkNow && s.Elapsed >= s.Config.TargetSeconds() {
		s.Running = false
		s.Complete = true
		tr.Completed = true
		// The finish cue replaces the phase cue.
		tr.PhaseEntered = false
	}
	return s, tr
}

// Pause halts a running session. ok is false, and s unchanged, when the
// session was not running.
func Pause(s State) (next State, ok bool) {
	if !s.Running {
		return s, false
	}
	s.Running = false
	return s, true
}

// Resume restarts a paused session without touching the phase countdown.
// ok is false, and s unchanged, when the session was not paused.
func Resume(s State) (next State, ok bool) {
	if s.Status() != StatusPaused {
		return s, false
	}
	s.Running = true
	return s, true
}
