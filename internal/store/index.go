package store

// sessionRange is the [start, end) byte range of one session in the JSONL
// file: from its "started" line through its completed/abandoned line.
type sessionRange struct {
	start int64
	end   int64
}

// fileIndex keeps byte-offset bookmarks per finished session. It is updated
// as each Entry is written (or read back from disk) and serves SessionLog
// via file.ReadAt.
type fileIndex struct {
	summaries []SessionSummary // ordered by finish time
	ranges    map[string]sessionRange
	pending   *pendingSession
}

// pendingSession accumulates the session currently being written.
type pendingSession struct {
	startOffset int64
	summary     SessionSummary
}

func newFileIndex() *fileIndex {
	return &fileIndex{ranges: make(map[string]sessionRange)}
}

// onAppend updates the index for one line. lineOffset is the offset of the
// line's first byte; lineLen includes the trailing newline.
func (idx *fileIndex) onAppend(e Entry, lineOffset, lineLen int64) {
	switch e.Kind {
	case "started":
		idx.pending = &pendingSession{
			startOffset: lineOffset,
			summary: SessionSummary{
				ID:            e.SessionID,
				TargetMinutes: e.TargetMinutes,
				StartAt:       e.Timestamp,
			},
		}
	case "paused":
		if idx.pending != nil && idx.pending.summary.ID == e.SessionID {
			idx.pending.summary.Pauses++
		}
	case OutcomeCompleted, OutcomeAbandoned:
		if idx.pending == nil || idx.pending.summary.ID != e.SessionID {
			return
		}
		s := idx.pending.summary
		s.Outcome = e.Kind
		s.Elapsed = e.Elapsed
		s.EndAt = e.Timestamp
		idx.ranges[s.ID] = sessionRange{
			start: idx.pending.startOffset,
			end:   lineOffset + lineLen,
		}
		idx.summaries = append(idx.summaries, s)
		idx.pending = nil
	}
}
