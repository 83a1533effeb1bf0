// Package session is the public face of the breathing timer. A Controller
// owns the session state, its tick source, the cue dispatcher and the
// history write on completion. It is not safe for concurrent use: commands
// and ticks must arrive through one event loop (the TUI's Update or the
// headless select loop).
package session

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/LISSConsulting/LISSTech.Sleepy/internal/breath"
	"github.com/LISSConsulting/LISSTech.Sleepy/internal/clock"
	"github.com/LISSConsulting/LISSTech.Sleepy/internal/cue"
	"github.com/LISSConsulting/LISSTech.Sleepy/internal/history"
)

// ErrInvalidDuration is returned by Start for a target under one minute.
var ErrInvalidDuration = errors.New("session: duration must be at least 1 minute")

// DefaultInterval is the tick period.
const DefaultInterval = time.Second

// Options wires a Controller. Zero values get working defaults: system
// clock, real tickers, silent cues, no history.
type Options struct {
	Cues       *cue.Dispatcher
	History    *history.Store
	Clock      clock.Clock
	NewTicker  clock.NewTickerFunc
	Interval   time.Duration
	Accounting breath.Accounting
	Hook       func(Event)
	Log        *log.Logger
}

// Controller runs one session at a time.
type Controller struct {
	opts      Options
	state     breath.State
	ticker    clock.Ticker
	gen       uint64
	sessionID string
	seq       int
	abandoned bool
}

// New returns an idle Controller.
func New(opts Options) *Controller {
	if opts.Log == nil {
		opts.Log = log.Default()
	}
	if opts.Cues == nil {
		opts.Cues = cue.NewDispatcher(cue.NopPlayer{}, opts.Log)
	}
	if opts.Clock == nil {
		opts.Clock = clock.System{}
	}
	if opts.NewTicker == nil {
		opts.NewTicker = clock.NewTicker
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	return &Controller{opts: opts, state: breath.Idle()}
}

// Start begins a new session of the given length, discarding any session in
// progress. The previous tick source is cancelled before the new one starts.
func (c *Controller) Start(minutes int) error {
	if minutes < 1 {
		return fmt.Errorf("%w (got %d)", ErrInvalidDuration, minutes)
	}

	c.abandon()
	c.stopTicker()
	c.opts.Cues.SilenceAll()
	c.opts.Cues.Preload()

	c.state = breath.Start(breath.Config{TargetMinutes: minutes, Accounting: c.opts.Accounting})
	c.abandoned = false
	c.seq++
	c.sessionID = fmt.Sprintf("%s-%d", c.opts.Clock.Now().Format("20060102T150405"), c.seq)

	c.startTicker()
	c.emit(EventStarted)
	c.enterPhase()
	return nil
}

// Pause halts a running session. No-op otherwise.
func (c *Controller) Pause() {
	next, ok := breath.Pause(c.state)
	if !ok {
		return
	}
	c.state = next
	c.stopTicker()
	c.opts.Cues.SilenceAll()
	c.emit(EventPaused)
}

// Resume continues a paused session, re-cueing the current phase without
// resetting its countdown. No-op otherwise.
func (c *Controller) Resume() {
	next, ok := breath.Resume(c.state)
	if !ok {
		return
	}
	c.state = next
	c.startTicker()
	c.opts.Cues.OnPhaseEnter(c.state.Phase().Name)
	c.emit(EventResumed)
}

// TogglePause pauses a running session or resumes a paused one.
func (c *Controller) TogglePause() {
	switch c.state.Status() {
	case breath.StatusRunning:
		c.Pause()
	case breath.StatusPaused:
		c.Resume()
	}
}

// Ticks returns the live tick channel, or nil when no tick source exists.
// Receiving from a nil channel blocks forever, which is what a select loop
// wants while paused.
func (c *Controller) Ticks() <-chan clock.Tick {
	if c.ticker == nil {
		return nil
	}
	return c.ticker.C()
}

// Generation identifies the current tick source.
func (c *Controller) Generation() uint64 { return c.gen }

// HandleTick advances the session by one tick. Ticks from a cancelled
// source are dropped.
func (c *Controller) HandleTick(t clock.Tick) {
	if c.ticker == nil || t.Gen != c.gen {
		return
	}
	next, tr := breath.Tick(c.state)
	c.state = next

	switch {
	case tr.Completed:
		c.complete()
	case tr.PhaseEntered:
		c.enterPhase()
	}
}

// Close cancels the tick source and silences cues. A session still in
// progress is reported as abandoned.
func (c *Controller) Close() {
	c.abandon()
	c.stopTicker()
	c.opts.Cues.SilenceAll()
	c.state.Running = false
}

// State returns a copy of the session state.
func (c *Controller) State() breath.State { return c.state }

// Status returns the externally visible status.
func (c *Controller) Status() breath.Status { return c.state.Status() }

// CurrentPhase returns the phase being breathed.
func (c *Controller) CurrentPhase() breath.Phase { return c.state.Phase() }

// PhaseTimeLeft returns the seconds left in the current phase.
func (c *Controller) PhaseTimeLeft() int { return c.state.PhaseTimeLeft }

// ElapsedSeconds returns the accumulated session seconds.
func (c *Controller) ElapsedSeconds() int { return c.state.Elapsed }

// TimeRemainingSeconds returns max(target*60 - elapsed, 0).
func (c *Controller) TimeRemainingSeconds() int { return c.state.Remaining() }

// TargetMinutes returns the running session's target, 0 before any start.
func (c *Controller) TargetMinutes() int { return c.state.Config.TargetMinutes }

// IsComplete reports whether the last session reached its target.
func (c *Controller) IsComplete() bool { return c.state.Complete }

// IsRunning reports whether the session is ticking.
func (c *Controller) IsRunning() bool { return c.state.Running }

// IsStarted reports whether any session has been started.
func (c *Controller) IsStarted() bool { return c.state.Started }

// SessionID identifies the current session, "" before any start.
func (c *Controller) SessionID() string { return c.sessionID }

// TodayMinutes returns today's accumulated practice.
func (c *Controller) TodayMinutes() float64 {
	if c.opts.History == nil {
		return 0
	}
	return c.opts.History.GetMinutes(history.DayKey(c.opts.Clock.Now()))
}

func (c *Controller) startTicker() {
	c.stopTicker()
	c.gen++
	c.ticker = c.opts.NewTicker(c.gen, c.opts.Interval)
}

func (c *Controller) stopTicker() {
	if c.ticker == nil {
		return
	}
	c.ticker.Stop()
	c.ticker = nil
}

func (c *Controller) enterPhase() {
	c.opts.Cues.OnPhaseEnter(c.state.Phase().Name)
	c.emit(EventPhase)
}

// complete finalises the session: one history write, finish cue only.
func (c *Controller) complete() {
	c.stopTicker()
	if c.opts.History != nil {
		day := history.DayKey(c.opts.Clock.Now())
		if err := c.opts.History.AddMinutes(day, float64(c.state.Config.TargetMinutes)); err != nil {
			c.opts.Log.Printf("session %s: record history: %v", c.sessionID, err)
		}
	}
	c.opts.Cues.OnComplete()
	c.emit(EventCompleted)
}

// abandon reports a started, unfinished session once, before it is
// discarded.
func (c *Controller) abandon() {
	if c.state.Started && !c.state.Complete && !c.abandoned {
		c.abandoned = true
		c.emit(EventAbandoned)
	}
}

func (c *Controller) emit(kind EventKind) {
	if c.opts.Hook == nil {
		return
	}
	ev := Event{
		Kind:          kind,
		Timestamp:     c.opts.Clock.Now(),
		SessionID:     c.sessionID,
		TargetMinutes: c.state.Config.TargetMinutes,
		Elapsed:       c.state.Elapsed,
		Remaining:     c.state.Remaining(),
		Phase:         c.state.Phase().Name,
		PhaseSeconds:  c.state.PhaseTimeLeft,
	}
	if kind == EventCompleted {
		ev.TodayMinutes = c.TodayMinutes()
	}
	c.opts.Hook(ev)
}
