package session

import (
	"time"

	"github.com/LISSConsulting/LISSTech.Sleepy/internal/breath"
)

// EventKind identifies a session lifecycle event.
type EventKind int

const (
	EventStarted   EventKind = iota // new session began
	EventPhase                      // a phase began (including phase 0 on start)
	EventPaused                     // session paused
	EventResumed                    // session resumed
	EventCompleted                  // target reached, history written
	EventAbandoned                  // session replaced or torn down before completion
)

// String returns the lower-case event name used in the session journal.
func (k EventKind) String() string {
	switch k {
	case EventStarted:
		return "started"
	case EventPhase:
		return "phase"
	case EventPaused:
		return "paused"
	case EventResumed:
		return "resumed"
	case EventCompleted:
		return "completed"
	case EventAbandoned:
		return "abandoned"
	default:
		return "unknown"
	}
}

// Event is a structured record emitted by the Controller. When a Hook is
// configured it receives every event synchronously, in order.
type Event struct {
	Kind      EventKind
	Timestamp time.Time
	SessionID string

	TargetMinutes int
	Elapsed       int // seconds, per the session's accounting
	Remaining     int // seconds

	Phase        breath.PhaseName
	PhaseSeconds int // time left in Phase

	// TodayMinutes is set on EventCompleted, after the history write.
	TodayMinutes float64
}
