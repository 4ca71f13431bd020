package core

import (
	"context"
	"sync"
	"time"
)

// Severity represents how destructive an intent is.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// DefaultJournalSize is the number of entries a Journal keeps by default.
const DefaultJournalSize = 200

// JournalEntry records one dispatched intent.
type JournalEntry struct {
	Seq       uint64     `json:"seq"`
	Kind      IntentKind `json:"kind"`
	Severity  Severity   `json:"severity"`
	Source    string     `json:"source,omitempty"`
	IPAddress string     `json:"ipAddress,omitempty"`
	UserAgent string     `json:"userAgent,omitempty"`
	Rows      int        `json:"rows"` // Row count after the intent
	Error     string     `json:"error,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// Failed reports whether the intent was rejected.
func (e JournalEntry) Failed() bool {
	return e.Error != ""
}

// Journal is a bounded, concurrency-safe log of dispatched intents.
// Once full, the oldest entry is dropped for each new one.
type Journal struct {
	mu      sync.Mutex
	entries []JournalEntry
	next    int
	full    bool
	seq     uint64
	now     func() time.Time
}

// NewJournal creates a journal holding at most size entries.
func NewJournal(size int) *Journal {
	if size <= 0 {
		size = DefaultJournalSize
	}
	return &Journal{entries: make([]JournalEntry, size), now: time.Now}
}

// Record appends an entry for intent. err is the reducer result, if any.
func (j *Journal) Record(ctx context.Context, intent Intent, rows int, err error) JournalEntry {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.seq++
	e := JournalEntry{
		Seq:       j.seq,
		Kind:      intent.Kind(),
		Severity:  SeverityOf(intent.Kind()),
		Source:    SourceFromContext(ctx),
		IPAddress: IPAddressFromContext(ctx),
		UserAgent: UserAgentFromContext(ctx),
		Rows:      rows,
		CreatedAt: j.now().UTC(),
	}
	if err != nil {
		e.Error = err.Error()
	}

	j.entries[j.next] = e
	j.next++
	if j.next == len(j.entries) {
		j.next = 0
		j.full = true
	}
	return e
}

// Entries returns the recorded entries, newest first.
func (j *Journal) Entries() []JournalEntry {
	j.mu.Lock()
	defer j.mu.Unlock()

	n := j.next
	if j.full {
		n = len(j.entries)
	}
	out := make([]JournalEntry, 0, n)
	for i := 1; i <= n; i++ {
		idx := (j.next - i + len(j.entries)) % len(j.entries)
		out = append(out, j.entries[idx])
	}
	return out
}

// SeverityOf classifies an intent kind.
func SeverityOf(kind IntentKind) Severity {
	switch kind {
	case KindSetSearch, KindSetSort, KindSetPage, KindSetPageSize, KindSetTheme:
		return SeverityLow
	case KindDeleteRow, KindDeleteColumn, KindSetRows, KindReplaceData:
		return SeverityHigh
	default:
		return SeverityMedium
	}
}
