package store

import (
	"context"
	"log/slog"
	"time"

	"github.com/a-aigner/mtb-timetracking/internal/race"
)

// DefaultAutosaveInterval matches the product's 30 second cadence.
const DefaultAutosaveInterval = 30 * time.Second

// Autosaver periodically persists a session in the background. It snapshots
// the session and writes the copy, so recording never waits on disk: an
// entry that lands while a write is in flight keeps the dirty flag set and
// is captured on the next tick.
type Autosaver struct {
	store    *Store
	sess     *race.Session
	interval time.Duration
}

// NewAutosaver wires an autosaver. A non-positive interval falls back to
// DefaultAutosaveInterval.
func NewAutosaver(store *Store, sess *race.Session, interval time.Duration) *Autosaver {
	if interval <= 0 {
		interval = DefaultAutosaveInterval
	}
	return &Autosaver{store: store, sess: sess, interval: interval}
}

// Run ticks until the context is cancelled, saving whenever the session has
// unsaved mutations. Save failures are logged and retried on the next tick,
// never escalated. Cancellation triggers one final best-effort save before
// returning.
func (a *Autosaver) Run(ctx context.Context) {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if err := a.SaveNow(); err != nil {
				slog.Error("final session save failed", "error", err)
			}
			return
		case <-ticker.C:
			if !a.sess.Dirty() {
				continue
			}
			if err := a.SaveNow(); err != nil {
				slog.Warn("autosave failed, retrying next tick", "error", err)
			}
		}
	}
}

// SaveNow snapshots and persists the session immediately. The dirty flag is
// cleared only if no mutation landed after the snapshot was taken.
func (a *Autosaver) SaveNow() error {
	if !a.sess.Dirty() {
		return nil
	}
	snap := a.sess.Snapshot()
	if _, err := a.store.Save(snap); err != nil {
		return err
	}
	a.sess.MarkSaved(snap.Gen)
	return nil
}
