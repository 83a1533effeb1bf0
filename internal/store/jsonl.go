package store

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/LISSConsulting/LISSTech.Sleepy/internal/session"
)

// JSONL is a session journal backed by an append-only JSONL file, synced after every
// Append. Files are named "<unix-timestamp>-<pid>.jsonl" so names sort in
// creation order.
type JSONL struct {
	file      *os.File
	mu        sync.Mutex
	idx       *fileIndex
	runID     string
	startedAt time.Time
	pos       int64
	log       *log.Logger
}

// NewJSONL creates the journal file for this run in dir, creating dir if
// needed. A nil logger uses log.Default().
func NewJSONL(dir string, logger *log.Logger) (*JSONL, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("store: mkdir %q: %w", dir, err)
	}
	now := time.Now()
	runID := fmt.Sprintf("%d-%d", now.Unix(), os.Getpid())
	path := filepath.Join(dir, runID+".jsonl")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("store: open %q: %w", path, err)
	}
	pos, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("store: seek: %w", err)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &JSONL{
		file:      f,
		idx:       newFileIndex(),
		runID:     runID,
		startedAt: now,
		pos:       pos,
		log:       logger,
	}, nil
}

// Path returns the journal file path.
func (j *JSONL) Path() string { return j.file.Name() }

// Append writes ev as one JSON line and syncs. Safe for concurrent use.
func (j *JSONL) Append(ev session.Event) error {
	entry := EntryFrom(ev)
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("store: marshal: %w", err)
	}
	data = append(data, '\n')

	j.mu.Lock()
	defer j.mu.Unlock()

	lineOffset := j.pos
	if _, err := j.file.Write(data); err != nil {
		return fmt.Errorf("store: write: %w", err)
	}
	if err := j.file.Sync(); err != nil {
		return fmt.Errorf("store: sync: %w", err)
	}
	lineLen := int64(len(data))
	j.pos += lineLen
	j.idx.onAppend(entry, lineOffset, lineLen)
	return nil
}

// Hook returns a session hook that journals every event. Write failures are
// logged; the session carries on.
func (j *JSONL) Hook() func(session.Event) {
	return func(ev session.Event) {
		if err := j.Append(ev); err != nil {
			j.log.Printf("store: journal %s event: %v", ev.Kind, err)
		}
	}
}

// Close closes the underlying file.
func (j *JSONL) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.file.Close()
}

// Sessions returns summaries of every finished session in this run. The
// slice is a copy.
func (j *JSONL) Sessions() ([]SessionSummary, error) {
	j.mu.Lock()
	result := make([]SessionSummary, len(j.idx.summaries))
	copy(result, j.idx.summaries)
	j.mu.Unlock()
	return result, nil
}

// SessionLog returns every event of a finished session, read back from the
// file through the byte-range index.
func (j *JSONL) SessionLog(id string) ([]Entry, error) {
	j.mu.Lock()
	r, ok := j.idx.ranges[id]
	j.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("store: session %q: %w", id, ErrSessionNotFound)
	}
	size := r.end - r.start
	if size <= 0 {
		return nil, nil
	}
	buf := make([]byte, size)
	if _, err := j.file.ReadAt(buf, r.start); err != nil {
		return nil, fmt.Errorf("store: read session %q: %w", id, err)
	}
	var entries []Entry
	for _, line := range bytes.Split(buf, []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		var e Entry
		if err := json.Unmarshal(line, &e); err != nil {
			j.log.Printf("store: skipping malformed line in session %q: %v", id, err)
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// RunSummary totals the finished sessions of this run.
func (j *JSONL) RunSummary() (RunSummary, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return summarize(j.runID, j.startedAt, j.idx.summaries), nil
}

func summarize(runID string, startedAt time.Time, sessions []SessionSummary) RunSummary {
	rs := RunSummary{RunID: runID, StartedAt: startedAt}
	for _, s := range sessions {
		switch s.Outcome {
		case OutcomeCompleted:
			rs.Completed++
		case OutcomeAbandoned:
			rs.Abandoned++
		}
		rs.Minutes += s.Minutes()
	}
	return rs
}

// OpenJSONL opens an existing journal file for read-back. The index is
// rebuilt by replaying the file; malformed lines are skipped. The returned
// journal is read-only.
func OpenJSONL(path string, logger *log.Logger) (*JSONL, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("store: open %q: %w", path, err)
	}
	idx := newFileIndex()
	size, err := replay(f, idx)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("store: read %q: %w", path, err)
	}
	if logger == nil {
		logger = log.Default()
	}
	runID := strings.TrimSuffix(filepath.Base(path), ".jsonl")
	return &JSONL{
		file:      f,
		idx:       idx,
		runID:     runID,
		startedAt: runStart(runID),
		pos:       size,
		log:       logger,
	}, nil
}

// replay feeds every well-formed line of r to idx and returns the bytes read.
func replay(r io.Reader, idx *fileIndex) (int64, error) {
	var offset int64
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadBytes('\n')
		if len(line) > 0 {
			var e Entry
			if jerr := json.Unmarshal(bytes.TrimSpace(line), &e); jerr == nil {
				idx.onAppend(e, offset, int64(len(line)))
			}
			offset += int64(len(line))
		}
		if err == io.EOF {
			return offset, nil
		}
		if err != nil {
			return offset, err
		}
	}
}

// runStart recovers the creation time encoded in a journal run ID.
func runStart(runID string) time.Time {
	prefix, _, _ := strings.Cut(runID, "-")
	sec, err := strconv.ParseInt(prefix, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(sec, 0)
}

// ReadSessions parses a journal file and returns its finished sessions in
// order. Malformed lines are skipped.
func ReadSessions(path string) ([]SessionSummary, error) {
	j, err := OpenJSONL(path, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = j.Close() }()
	return j.Sessions()
}

// FindSessionLog searches every journal in dir, newest first, for the
// session with the given ID and returns its events.
func FindSessionLog(dir, id string, logger *log.Logger) ([]Entry, error) {
	files, err := journalFiles(dir)
	if err != nil {
		return nil, err
	}
	for i := len(files) - 1; i >= 0; i-- {
		j, err := OpenJSONL(filepath.Join(dir, files[i]), logger)
		if err != nil {
			return nil, err
		}
		entries, err := j.SessionLog(id)
		_ = j.Close()
		if errors.Is(err, ErrSessionNotFound) {
			continue
		}
		return entries, err
	}
	return nil, fmt.Errorf("store: session %q: %w", id, ErrSessionNotFound)
}

// journalFiles lists the journal files in dir, oldest first. A missing dir
// yields no files.
func journalFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: read dir %q: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".jsonl") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

// LastSession returns the most recently finished session across every
// journal in dir. ok is false when none exists.
func LastSession(dir string) (s SessionSummary, ok bool, err error) {
	files, err := journalFiles(dir)
	if err != nil {
		return SessionSummary{}, false, err
	}
	for i := len(files) - 1; i >= 0; i-- {
		sessions, err := ReadSessions(filepath.Join(dir, files[i]))
		if err != nil {
			return SessionSummary{}, false, err
		}
		if len(sessions) > 0 {
			return sessions[len(sessions)-1], true, nil
		}
	}
	return SessionSummary{}, false, nil
}

// EnforceRetention removes the oldest journal files in dir, keeping at most
// maxKeep. maxKeep <= 0 keeps everything.
func EnforceRetention(dir string, maxKeep int) error {
	if maxKeep <= 0 {
		return nil
	}
	files, err := journalFiles(dir)
	if err != nil {
		return err
	}
	toDelete := len(files) - maxKeep
	for i := 0; i < toDelete; i++ {
		path := filepath.Join(dir, files[i])
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("store: remove %q: %w", path, err)
		}
	}
	return nil
}
