// Package storage persists TableState snapshots.
//
// A snapshot is one serialized blob stored under a single namespaced key in a
// key-value backend. Backends are interchangeable: MemoryKV for tests and
// ephemeral runs, FileKV for a directory of JSON files, SQLiteKV for a single
// database file.
package storage

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned by Get when the key has never been set.
var ErrNotFound = errors.New("storage: key not found")

// KV is the key-value persistence primitive.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// Driver names a KV backend.
type Driver string

const (
	DriverMemory Driver = "memory"
	DriverFile   Driver = "file"
	DriverSQLite Driver = "sqlite"
)

// Open creates the backend named by driver. path is a directory for the file
// driver and a database file for the sqlite driver; memory ignores it.
func Open(ctx context.Context, driver Driver, path string) (KV, error) {
	switch driver {
	case DriverMemory:
		return NewMemoryKV(), nil
	case DriverFile:
		kv, err := NewFileKV(path)
		if err != nil {
			return nil, err
		}
		return kv, nil
	case DriverSQLite:
		kv, err := OpenSQLiteKV(ctx, path)
		if err != nil {
			return nil, err
		}
		return kv, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}
