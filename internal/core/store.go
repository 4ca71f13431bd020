package core

// store.go provides the Store, the single owner of the current TableState.
//
// Dispatch is serialized: intents are applied one at a time in arrival order
// and subscribers observe every accepted snapshot in that same order. Readers
// never block on a running subscriber.

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// NewRowID returns a fresh random row id.
func NewRowID() RowID {
	return RowID(uuid.NewString())
}

// Listener is called with each snapshot accepted by the Store.
// It must not call Dispatch.
type Listener func(TableState)

// Store holds the current TableState and applies intents to it.
type Store struct {
	policy  Policy
	newID   func() RowID
	journal *Journal

	dispatchMu sync.Mutex // Serializes Dispatch and notification

	mu    sync.RWMutex
	state TableState

	subMu     sync.Mutex
	listeners map[int]Listener
	nextSub   int
}

// Option configures a Store.
type Option func(*Store)

// WithPolicy sets the rules the reducer enforces.
func WithPolicy(p Policy) Option {
	return func(s *Store) { s.policy = p }
}

// WithIDFunc replaces the row id generator.
func WithIDFunc(fn func() RowID) Option {
	return func(s *Store) { s.newID = fn }
}

// WithJournalSize bounds the intent journal.
func WithJournalSize(n int) Option {
	return func(s *Store) { s.journal = NewJournal(n) }
}

// NewStore creates a Store seeded with initial. The initial state is
// repaired with Normalize before use.
func NewStore(initial TableState, opts ...Option) *Store {
	s := &Store{
		policy:    DefaultPolicy(),
		newID:     NewRowID,
		listeners: make(map[int]Listener),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.journal == nil {
		s.journal = NewJournal(DefaultJournalSize)
	}
	s.state = Normalize(initial, s.newID)
	return s
}

// State returns a copy of the current snapshot.
func (s *Store) State() TableState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// View derives the current view.
func (s *Store) View() View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Derive(s.state)
}

// Policy returns the store's policy.
func (s *Store) Policy() Policy {
	return s.policy
}

// History returns the journal entries, newest first.
func (s *Store) History() []JournalEntry {
	return s.journal.Entries()
}

// NewRowID returns an id from the store's generator.
func (s *Store) NewRowID() RowID {
	return s.newID()
}

// Dispatch applies intent to the current state. Rows entering the store
// without an id are given one. On error the state is unchanged and the
// rejected intent is still journaled.
func (s *Store) Dispatch(ctx context.Context, intent Intent) (TableState, error) {
	if err := ctx.Err(); err != nil {
		return s.State(), err
	}

	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	s.mu.RLock()
	current := s.state
	s.mu.RUnlock()

	next, err := Reduce(current, s.stampIDs(intent), s.policy)
	s.journal.Record(ctx, intent, len(next.Rows), err)
	if err != nil {
		return current.Clone(), err
	}

	s.mu.Lock()
	s.state = next
	s.mu.Unlock()

	s.notify(next)
	return next.Clone(), nil
}

// Replace swaps in a whole snapshot, as when rehydrating from storage.
// The snapshot is repaired with Normalize.
func (s *Store) Replace(state TableState) TableState {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	next := Normalize(state, s.newID)
	s.mu.Lock()
	s.state = next
	s.mu.Unlock()

	s.notify(next)
	return next.Clone()
}

// Subscribe registers fn for every accepted snapshot and returns a function
// that removes it.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.listeners[id] = fn

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *Store) notify(state TableState) {
	s.subMu.Lock()
	fns := make([]Listener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(state.Clone())
	}
}

// stampIDs returns intent with ids assigned to rows that lack one. The
// caller's rows are copied, never modified.
func (s *Store) stampIDs(intent Intent) Intent {
	switch i := intent.(type) {
	case SetRows:
		i.Rows = s.withIDs(i.Rows)
		return i
	case ReplaceData:
		i.Rows = s.withIDs(i.Rows)
		return i
	case AddRow:
		if i.Row.ID == "" {
			i.Row = Row{ID: s.newID(), Fields: i.Row.Fields}
		}
		return i
	default:
		return intent
	}
}

func (s *Store) withIDs(rows []Row) []Row {
	out := make([]Row, len(rows))
	for i, r := range rows {
		if r.ID == "" {
			r.ID = s.newID()
		}
		out[i] = r
	}
	return out
}
