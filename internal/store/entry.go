package store

import (
	"time"

	"github.com/LISSConsulting/LISSTech.Sleepy/internal/breath"
	"github.com/LISSConsulting/LISSTech.Sleepy/internal/session"
)

// Entry is the JSON form of one session event.
type Entry struct {
	Kind          string    `json:"kind"`
	Timestamp     time.Time `json:"ts"`
	SessionID     string    `json:"session"`
	TargetMinutes int       `json:"target_minutes"`
	Elapsed       int       `json:"elapsed"`
	Remaining     int       `json:"remaining"`
	Phase         string    `json:"phase,omitempty"`
	PhaseSeconds  int       `json:"phase_seconds,omitempty"`
	TodayMinutes  float64   `json:"today_minutes,omitempty"`
}

// EntryFrom converts a controller event for the journal.
func EntryFrom(ev session.Event) Entry {
	e := Entry{
		Kind:          ev.Kind.String(),
		Timestamp:     ev.Timestamp,
		SessionID:     ev.SessionID,
		TargetMinutes: ev.TargetMinutes,
		Elapsed:       ev.Elapsed,
		Remaining:     ev.Remaining,
		TodayMinutes:  ev.TodayMinutes,
	}
	if ev.Kind != session.EventCompleted {
		e.Phase = string(ev.Phase)
		e.PhaseSeconds = ev.PhaseSeconds
	}
	return e
}

// PhaseName returns the entry's phase, "" when none was recorded.
func (e Entry) PhaseName() breath.PhaseName { return breath.PhaseName(e.Phase) }

// Event converts the entry back into a controller event. An unrecognised
// kind maps to an EventKind whose String is "unknown".
func (e Entry) Event() session.Event {
	return session.Event{
		Kind:          eventKind(e.Kind),
		Timestamp:     e.Timestamp,
		SessionID:     e.SessionID,
		TargetMinutes: e.TargetMinutes,
		Elapsed:       e.Elapsed,
		Remaining:     e.Remaining,
		Phase:         e.PhaseName(),
		PhaseSeconds:  e.PhaseSeconds,
		TodayMinutes:  e.TodayMinutes,
	}
}

func eventKind(name string) session.EventKind {
	for k := session.EventStarted; k <= session.EventAbandoned; k++ {
		if k.String() == name {
			return k
		}
	}
	return session.EventKind(-1)
}
