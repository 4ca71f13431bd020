package storage

// autosave.go keeps the persisted snapshot in step with the Store.
//
// The autosaver subscribes to the Store and marks itself dirty on every
// accepted intent. With a zero interval it saves after each change
// (write-through); otherwise it saves at most once per interval. It always
// saves the latest snapshot, never an intermediate one, and performs a final
// flush when its context is cancelled. Save failures are logged and retried
// on the next change or tick; they never stop the loop.

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/JonMunkholm/datatable/internal/core"
)

// FinalFlushTimeout bounds the save performed on shutdown.
var FinalFlushTimeout = 5 * time.Second

// Autosaver persists Store snapshots in the background.
type Autosaver struct {
	store    *core.Store
	snaps    *Snapshots
	interval time.Duration

	dirty  atomic.Bool
	notify chan struct{}
	saves  atomic.Int64
}

// NewAutosaver creates an autosaver. interval 0 means write-through.
func NewAutosaver(store *core.Store, snaps *Snapshots, interval time.Duration) *Autosaver {
	return &Autosaver{
		store:    store,
		snaps:    snaps,
		interval: interval,
		notify:   make(chan struct{}, 1),
	}
}

// Run saves changes until ctx is cancelled, then flushes once more.
func (a *Autosaver) Run(ctx context.Context) error {
	unsubscribe := a.store.Subscribe(func(core.TableState) {
		a.dirty.Store(true)
		select {
		case a.notify <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	slog.Info("autosave started", "key", a.snaps.Key(), "interval", a.interval.String())

	var tick <-chan time.Time
	if a.interval > 0 {
		ticker := time.NewTicker(a.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), FinalFlushTimeout)
			err := a.Flush(flushCtx)
			cancel()
			slog.Info("autosave stopped", "saves", a.saves.Load())
			return err
		case <-a.notify:
			if a.interval == 0 {
				a.flushAndLog(ctx)
			}
		case <-tick:
			a.flushAndLog(ctx)
		}
	}
}

// Flush saves the current snapshot if anything changed since the last save.
func (a *Autosaver) Flush(ctx context.Context) error {
	if !a.dirty.Swap(false) {
		return nil
	}

	start := time.Now()
	state := a.store.State()
	if err := a.snaps.Save(ctx, state); err != nil {
		a.dirty.Store(true)
		return err
	}
	a.saves.Add(1)
	slog.Debug("snapshot saved",
		"key", a.snaps.Key(),
		"rows", len(state.Rows),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// Saves returns the number of completed saves.
func (a *Autosaver) Saves() int64 {
	return a.saves.Load()
}

func (a *Autosaver) flushAndLog(ctx context.Context) {
	if err := a.Flush(ctx); err != nil {
		slog.Error("autosave failed", "key", a.snaps.Key(), "error", err)
	}
}
