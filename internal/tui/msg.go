package tui

import (
	"time"

	"github.com/LISSConsulting/LISSTech.Sleepy/internal/clock"
)

// tickMsg carries one session tick from the controller's tick source.
type tickMsg clock.Tick

// tickStoppedMsg signals that the tick channel being waited on was closed
// (pause, completion or restart).
type tickStoppedMsg struct{}

// clockMsg refreshes the header clock once a second. It never advances the
// session.
type clockMsg time.Time
