package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/LISSConsulting/LISSTech.Sleepy/internal/breath"
	"github.com/LISSConsulting/LISSTech.Sleepy/internal/config"
	"github.com/LISSConsulting/LISSTech.Sleepy/internal/cue"
	"github.com/LISSConsulting/LISSTech.Sleepy/internal/history"
	"github.com/LISSConsulting/LISSTech.Sleepy/internal/notify"
	"github.com/LISSConsulting/LISSTech.Sleepy/internal/session"
	"github.com/LISSConsulting/LISSTech.Sleepy/internal/store"
)

// loadConfig reads and validates the configuration.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// app holds everything a session needs, built from one Config.
type app struct {
	cfg      *config.Config
	log      *log.Logger
	history  *history.Store
	journal  *store.JSONL // nil when the journal could not be opened
	notifier *notify.Notifier
	ctrl     *session.Controller

	closers []io.Closer
}

// appOptions carries the process-specific parts of the wiring.
type appOptions struct {
	StateDir string
	Log      *log.Logger
	Bell     io.Writer           // where BellPlayer rings
	Hook     func(session.Event) // extra event consumer, e.g. the headless printer
}

// newApp wires history, cues, journal and notifier into a Controller.
// A journal that cannot be opened is logged and skipped.
func newApp(cfg *config.Config, opts appOptions) (*app, error) {
	logger := opts.Log
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	accounting, err := breath.ParseAccounting(cfg.Session.Accounting)
	if err != nil {
		return nil, err
	}

	hist, err := history.Open(cfg.History.Backend, cfg.HistoryPath(opts.StateDir), logger)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, log: logger, history: hist}
	a.closers = append(a.closers, hist)

	journalDir := cfg.JournalDir(opts.StateDir)
	if j, err := store.NewJSONL(journalDir, logger); err != nil {
		logger.Printf("journal disabled: %v", err)
	} else {
		a.journal = j
		a.closers = append(a.closers, j)
		if err := store.EnforceRetention(journalDir, cfg.Journal.Retention); err != nil {
			logger.Printf("journal retention: %v", err)
		}
	}

	if cfg.Notifications.URL != "" {
		n, err := notify.New(notify.Options{
			URL:        cfg.Notifications.URL,
			OnComplete: cfg.Notifications.OnComplete,
			OnAbandon:  cfg.Notifications.OnAbandon,
			Template:   cfg.Notifications.Template,
		})
		if err != nil {
			_ = a.Close()
			return nil, err
		}
		a.notifier = n
	}

	var hooks []func(session.Event)
	if a.journal != nil {
		hooks = append(hooks, a.journal.Hook())
	}
	if a.notifier != nil {
		hooks = append(hooks, a.notifier.Hook)
	}
	hooks = append(hooks, opts.Hook)

	bell := opts.Bell
	if bell == nil {
		bell = io.Discard
	}
	a.ctrl = session.New(session.Options{
		Cues:       cue.NewDispatcher(newPlayer(cfg.Audio, bell), logger),
		History:    hist,
		Accounting: accounting,
		Hook:       chainHooks(hooks...),
		Log:        logger,
	})
	return a, nil
}

// Close ends any session in progress, waits for pending notifications and
// releases the journal and history backend.
func (a *app) Close() error {
	if a.ctrl != nil {
		a.ctrl.Close()
	}
	if a.notifier != nil {
		a.notifier.Wait()
	}
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// newPlayer picks the cue player named by the audio config.
func newPlayer(audio config.AudioConfig, bell io.Writer) cue.Player {
	switch audio.Player {
	case config.PlayerCommand:
		return cue.NewCommandPlayer(audio.Command, audio.Cues.Files())
	case config.PlayerNone:
		return cue.NopPlayer{}
	default:
		return cue.NewBellPlayer(bell)
	}
}

// chainHooks fans one event out to every non-nil hook, in order.
func chainHooks(hooks ...func(session.Event)) func(session.Event) {
	var live []func(session.Event)
	for _, h := range hooks {
		if h != nil {
			live = append(live, h)
		}
	}
	if len(live) == 0 {
		return nil
	}
	return func(ev session.Event) {
		for _, h := range live {
			h(ev)
		}
	}
}

// openLog opens <state dir>/sleepy.log for appending. The TUI owns the
// terminal, so diagnostics go to the file instead of stderr.
func openLog(stateDir string) (*log.Logger, io.Closer, error) {
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		return nil, nil, fmt.Errorf("mkdir %s: %w", stateDir, err)
	}
	path := config.LogPath(stateDir)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log %s: %w", path, err)
	}
	return log.New(f, "", log.LstdFlags), f, nil
}
