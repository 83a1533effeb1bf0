package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/LISSConsulting/LISSTech.Sleepy/internal/config"
	"github.com/LISSConsulting/LISSTech.Sleepy/internal/session"
	"github.com/LISSConsulting/LISSTech.Sleepy/internal/tui"
)

var _ tui.SessionController = (*session.Controller)(nil)

// executeTUI loads config, wires a session and hands the terminal to the
// TUI. minutes prefills the duration field; 0 uses the configured default.
func executeTUI(cfgPath string, minutes int) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}
	stateDir, err := config.StateDir()
	if err != nil {
		return err
	}
	logger, logFile, err := openLog(stateDir)
	if err != nil {
		return err
	}
	defer logFile.Close()

	if minutes <= 0 {
		minutes = cfg.Session.DefaultMinutes
	}

	a, err := newApp(cfg, appOptions{StateDir: stateDir, Log: logger, Bell: os.Stderr})
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	opts := tui.Options{AccentColor: cfg.TUI.AccentColor, DefaultMinutes: minutes}
	if a.journal != nil {
		opts.Journal = a.journal
	}
	program := tea.NewProgram(tui.New(a.ctrl, opts), tea.WithAltScreen(), tea.WithContext(ctx))

	tuiErr := finishTUI(program)
	return errors.Join(tuiErr, a.Close())
}

// finishTUI runs the bubbletea program. A program killed by context
// cancellation (SIGINT, SIGTERM) is a normal shutdown.
func finishTUI(program *tea.Program) error {
	if _, err := program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, context.Canceled) {
			return nil
		}
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

// executeHeadless runs one session without the TUI, printing events to out
// and diagnostics to stderr.
func executeHeadless(cfgPath string, minutes int, out io.Writer) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}
	stateDir, err := config.StateDir()
	if err != nil {
		return err
	}
	if minutes <= 0 {
		minutes = cfg.Session.DefaultMinutes
	}

	a, err := newApp(cfg, appOptions{
		StateDir: stateDir,
		Log:      log.New(os.Stderr, "", log.LstdFlags),
		Bell:     os.Stderr,
		Hook:     eventPrinter(out),
	})
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	toggle, stopToggle := pauseSignals()
	defer stopToggle()

	runErr := runHeadless(ctx, a.ctrl, minutes, toggle)
	return errors.Join(runErr, a.Close())
}

// runHeadless drives ctrl from a select loop until the session completes or
// ctx is cancelled. A cancelled session is closed and reported as abandoned.
// Each receive on toggle pauses or resumes.
func runHeadless(ctx context.Context, ctrl *session.Controller, minutes int, toggle <-chan os.Signal) error {
	if err := ctrl.Start(minutes); err != nil {
		return err
	}
	for !ctrl.IsComplete() {
		select {
		case <-ctx.Done():
			ctrl.Close()
			return nil
		case <-toggle:
			ctrl.TogglePause()
		case t, ok := <-ctrl.Ticks():
			if !ok {
				return errors.New("tick source stopped")
			}
			ctrl.HandleTick(t)
		}
	}
	return nil
}

// eventPrinter returns a hook writing one line per event to w.
func eventPrinter(w io.Writer) func(session.Event) {
	return func(ev session.Event) {
		fmt.Fprintln(w, formatEvent(ev))
	}
}

// formatEvent renders a session event as a single headless output line.
func formatEvent(ev session.Event) string {
	ts := ev.Timestamp.Format("15:04:05")
	switch ev.Kind {
	case session.EventStarted:
		return fmt.Sprintf("[%s]  ▶ %d min session started", ts, ev.TargetMinutes)
	case session.EventPhase:
		return fmt.Sprintf("[%s]  %-7s %2ds   %s left", ts, ev.Phase, ev.PhaseSeconds, clockString(ev.Remaining))
	case session.EventPaused:
		return fmt.Sprintf("[%s]  ⏸ paused   %s left", ts, clockString(ev.Remaining))
	case session.EventResumed:
		return fmt.Sprintf("[%s]  ▶ resumed  %s left", ts, clockString(ev.Remaining))
	case session.EventCompleted:
		return fmt.Sprintf("[%s]  ✓ Session complete. Today: %s", ts, minutesLabel(ev.TodayMinutes))
	case session.EventAbandoned:
		return fmt.Sprintf("[%s]  ■ Session stopped after %s", ts, clockString(ev.Elapsed))
	default:
		return fmt.Sprintf("[%s]  %s", ts, ev.Kind)
	}
}

// clockString formats seconds as m:ss.
func clockString(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
