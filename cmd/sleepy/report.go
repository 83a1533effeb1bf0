package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
	"gopkg.in/yaml.v3"

	"github.com/LISSConsulting/LISSTech.Sleepy/internal/config"
	"github.com/LISSConsulting/LISSTech.Sleepy/internal/history"
	"github.com/LISSConsulting/LISSTech.Sleepy/internal/store"
)

// History output formats.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

// historyReport is the json/yaml shape of `sleepy history`.
type historyReport struct {
	Days         []history.Day `json:"days" yaml:"days"`
	TotalMinutes float64       `json:"total_minutes" yaml:"total_minutes"`
}

// showHistory prints the per-day minutes, optionally limited to days on or
// after since.
func showHistory(cfgPath, since, format string, now time.Time, out io.Writer) error {
	switch format {
	case formatTable, formatJSON, formatYAML:
	default:
		return fmt.Errorf("unknown format %q (want table, json or yaml)", format)
	}

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}
	stateDir, err := config.StateDir()
	if err != nil {
		return err
	}
	hist, err := history.Open(cfg.History.Backend, cfg.HistoryPath(stateDir), log.New(io.Discard, "", 0))
	if err != nil {
		return err
	}
	defer hist.Close()

	var days []history.Day
	if since == "" {
		days, err = hist.Days()
	} else {
		var from time.Time
		from, err = parseSince(since, now)
		if err != nil {
			return err
		}
		days, err = hist.Since(from)
	}
	if err != nil {
		return err
	}
	return writeHistory(out, days, format)
}

// parseSince accepts a YYYY-MM-DD day key or an English expression such as
// "last week" or "3 days ago", resolved against now.
func parseSince(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := history.ParseDayKey(s); err == nil {
		return t, nil
	}

	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	r, err := w.Parse(s, now)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse --since %q: %w", s, err)
	}
	if r == nil {
		return time.Time{}, fmt.Errorf("parse --since %q: not a date", s)
	}
	return r.Time, nil
}

// writeHistory renders days in the requested format.
func writeHistory(out io.Writer, days []history.Day, format string) error {
	if days == nil {
		days = []history.Day{}
	}
	report := historyReport{Days: days, TotalMinutes: history.Total(days)}

	switch format {
	case formatJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case formatYAML:
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	}

	if len(days) == 0 {
		fmt.Fprintln(out, "No sessions recorded yet.")
		return nil
	}
	fmt.Fprintln(out, "History")
	fmt.Fprintln(out, "───────")
	for _, d := range days {
		fmt.Fprintf(out, "  %s  %s\n", d.Key, minutesLabel(d.Minutes))
	}
	fmt.Fprintf(out, "  %-10s  %s\n", "total", minutesLabel(report.TotalMinutes))
	return nil
}

// showStatus prints today's total and the most recent journal session.
func showStatus(cfgPath string, now time.Time, out io.Writer) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}
	stateDir, err := config.StateDir()
	if err != nil {
		return err
	}
	hist, err := history.Open(cfg.History.Backend, cfg.HistoryPath(stateDir), log.New(io.Discard, "", 0))
	if err != nil {
		return err
	}
	defer hist.Close()

	fmt.Fprintln(out, "Sleepy Status")
	fmt.Fprintln(out, "─────────────")
	fmt.Fprintf(out, "  %-14s %s\n", "today:", minutesLabel(hist.GetMinutes(history.DayKey(now))))

	last, ok, err := store.LastSession(cfg.JournalDir(stateDir))
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintf(out, "  %-14s %s\n", "last session:", "none")
		return nil
	}
	fmt.Fprintf(out, "  %-14s %d min, %s %s, paused %d×\n", "last session:",
		last.TargetMinutes, last.Outcome, humanize.RelTime(last.EndAt, now, "ago", "from now"), last.Pauses)
	fmt.Fprintf(out, "  %-14s %s\n", "session id:", last.ID)
	return nil
}

// showSessionLog prints the journaled events of one session.
func showSessionLog(cfgPath, id string, out io.Writer) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}
	stateDir, err := config.StateDir()
	if err != nil {
		return err
	}
	entries, err := store.FindSessionLog(cfg.JournalDir(stateDir), id, log.New(io.Discard, "", 0))
	if err != nil {
		return err
	}

	title := "Session " + id
	fmt.Fprintln(out, title)
	fmt.Fprintln(out, strings.Repeat("─", len([]rune(title))))
	for _, e := range entries {
		fmt.Fprintln(out, formatEvent(e.Event()))
	}
	return nil
}

// minutesLabel formats a minute count with the right plural.
func minutesLabel(m float64) string {
	if m == 1 {
		return "1 minute"
	}
	return humanize.Ftoa(m) + " minutes"
}
