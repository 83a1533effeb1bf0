package tui

import (
	"github.com/LISSConsulting/LISSTech.Sleepy/internal/breath"
	"github.com/LISSConsulting/LISSTech.Sleepy/internal/clock"
)

// SessionController is the slice of session.Controller the TUI drives. All
// calls happen on the bubbletea Update goroutine.
type SessionController interface {
	Start(minutes int) error
	TogglePause()
	Close()

	Ticks() <-chan clock.Tick
	Generation() uint64
	HandleTick(t clock.Tick)

	Status() breath.Status
	CurrentPhase() breath.Phase
	PhaseTimeLeft() int
	ElapsedSeconds() int
	TimeRemainingSeconds() int
	TargetMinutes() int
	IsRunning() bool
	IsStarted() bool
	IsComplete() bool
	TodayMinutes() float64
}
