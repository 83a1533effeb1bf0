// Package store keeps a journal of breathing sessions as append-only JSONL.
// One journal file is written per process; each line is one session event.
// Finished sessions are indexed by byte range for read-back.
package store

import (
	"errors"
	"time"
)

// ErrSessionNotFound is returned when no finished session has the given ID.
var ErrSessionNotFound = errors.New("session not found")

// Reader retrieves finished sessions from a journal.
type Reader interface {
	Sessions() ([]SessionSummary, error)
	SessionLog(id string) ([]Entry, error)
	RunSummary() (RunSummary, error)
}

// Outcomes recorded for a finished session.
const (
	OutcomeCompleted = "completed"
	OutcomeAbandoned = "abandoned"
)

// SessionSummary summarises one finished session.
type SessionSummary struct {
	ID            string
	TargetMinutes int
	Elapsed       int // seconds at the final event
	Outcome       string
	Pauses        int
	StartAt       time.Time
	EndAt         time.Time
}

// Minutes returns the practice credited to the session: the target when
// completed, nothing otherwise.
func (s SessionSummary) Minutes() float64 {
	if s.Outcome != OutcomeCompleted {
		return 0
	}
	return float64(s.TargetMinutes)
}

// RunSummary summarises every session recorded by one journal file.
type RunSummary struct {
	RunID     string
	StartedAt time.Time
	Completed int
	Abandoned int
	Minutes   float64
}
