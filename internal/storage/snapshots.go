package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/JonMunkholm/datatable/internal/core"
)

// DefaultKey is the namespaced key a table snapshot is stored under.
const DefaultKey = "persist:table"

// Snapshots reads and writes whole TableState snapshots.
type Snapshots struct {
	kv    KV
	key   string
	newID func() core.RowID
}

// NewSnapshots stores snapshots in kv under key (DefaultKey when empty).
func NewSnapshots(kv KV, key string) *Snapshots {
	if key == "" {
		key = DefaultKey
	}
	return &Snapshots{kv: kv, key: key, newID: core.NewRowID}
}

// Key returns the key snapshots are stored under.
func (s *Snapshots) Key() string { return s.key }

// Load returns the persisted snapshot, repaired for use. It returns
// ErrNotFound when nothing has been saved yet.
func (s *Snapshots) Load(ctx context.Context) (core.TableState, error) {
	data, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return core.TableState{}, err
	}
	state, err := core.UnmarshalState(data, s.newID)
	if err != nil {
		return core.TableState{}, fmt.Errorf("load %s: %w", s.key, err)
	}
	return state, nil
}

// LoadOrDefault returns the persisted snapshot, or the built-in default
// table when none exists. loaded reports which one was returned.
func (s *Snapshots) LoadOrDefault(ctx context.Context) (state core.TableState, loaded bool, err error) {
	state, err = s.Load(ctx)
	if errors.Is(err, ErrNotFound) {
		return core.DefaultState(s.newID), false, nil
	}
	if err != nil {
		return core.TableState{}, false, err
	}
	return state, true, nil
}

// Save persists state.
func (s *Snapshots) Save(ctx context.Context, state core.TableState) error {
	data, err := core.MarshalState(state)
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, s.key, data); err != nil {
		return fmt.Errorf("save %s: %w", s.key, err)
	}
	return nil
}
