// Package app assembles the table engine from configuration: storage
// backend, rehydrated Store and autosaver. The server and the CLI share it.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/JonMunkholm/datatable/internal/config"
	"github.com/JonMunkholm/datatable/internal/core"
	"github.com/JonMunkholm/datatable/internal/csvcodec"
	"github.com/JonMunkholm/datatable/internal/storage"
)

// sqliteFile is the database name used when STORAGE_PATH names a directory.
const sqliteFile = "table.db"

// App holds the wired components.
type App struct {
	Config    *config.Config
	KV        storage.KV
	Snapshots *storage.Snapshots
	Store     *core.Store
	Autosaver *storage.Autosaver

	// Loaded reports whether the table came from a persisted snapshot
	// rather than the built-in default.
	Loaded bool
}

// New opens storage and rehydrates the Store. Close releases storage.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	driver := storage.Driver(strings.ToLower(cfg.Storage.Driver))
	path, err := storagePath(driver, cfg.Storage.Path)
	if err != nil {
		return nil, err
	}

	kv, err := storage.Open(ctx, driver, path)
	if err != nil {
		return nil, fmt.Errorf("open %s storage: %w", driver, err)
	}

	snaps := storage.NewSnapshots(kv, cfg.Storage.Key)
	state, loaded, err := snaps.LoadOrDefault(ctx)
	if err != nil {
		_ = kv.Close()
		return nil, fmt.Errorf("rehydrate table: %w", err)
	}
	if !loaded {
		state.RowsPerPage = cfg.Table.RowsPerPage
	}

	store := core.NewStore(state,
		core.WithPolicy(Policy(cfg.Table)),
		core.WithJournalSize(cfg.Table.JournalSize),
	)

	slog.Info("table ready",
		"driver", driver,
		"path", path,
		"key", snaps.Key(),
		"loaded", loaded,
		"rows", len(state.Rows),
		"columns", len(state.Columns),
	)

	return &App{
		Config:    cfg,
		KV:        kv,
		Snapshots: snaps,
		Store:     store,
		Autosaver: storage.NewAutosaver(store, snaps, cfg.Storage.FlushInterval),
		Loaded:    loaded,
	}, nil
}

// Save persists the current table immediately.
func (a *App) Save(ctx context.Context) error {
	return a.Snapshots.Save(ctx, a.Store.State())
}

// ImportOptions returns the CSV import options for this configuration.
func (a *App) ImportOptions() csvcodec.Options {
	return ImportOptions(a.Config.Import)
}

// Close releases the storage backend.
func (a *App) Close() error {
	return a.KV.Close()
}

// Policy converts table settings into the mutation policy.
func Policy(c config.TableConfig) core.Policy {
	return core.Policy{ProtectedColumns: append([]string(nil), c.ProtectedColumns...)}
}

// ImportOptions converts import settings into csvcodec options.
func ImportOptions(c config.ImportConfig) csvcodec.Options {
	extra := csvcodec.ExtraRegister
	if strings.EqualFold(c.ExtraFields, string(csvcodec.ExtraReject)) {
		extra = csvcodec.ExtraReject
	}
	return csvcodec.Options{
		RequiredFields: append([]string(nil), c.RequiredFields...),
		ExtraFields:    extra,
		MatchLabels:    c.MatchLabels,
		MaxBytes:       c.MaxFileSize,
	}
}

// storagePath resolves STORAGE_PATH for driver. A sqlite path without a
// file extension is treated as a directory holding table.db.
func storagePath(driver storage.Driver, path string) (string, error) {
	if driver != storage.DriverSQLite || path == ":memory:" {
		return path, nil
	}
	if filepath.Ext(path) == "" {
		path = filepath.Join(path, sqliteFile)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create storage directory: %w", err)
	}
	return path, nil
}
