// Package worker runs the background loops around the in-memory store:
// debounced snapshot persistence and the periodic running-timer check.
package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mauricedesaxe/time-tracker/internal/core"
	"github.com/mauricedesaxe/time-tracker/internal/log"
	"github.com/mauricedesaxe/time-tracker/internal/storage"
	"github.com/mauricedesaxe/time-tracker/internal/store"
)

// finalSaveTimeout bounds the snapshot written during shutdown.
const finalSaveTimeout = 10 * time.Second

// SnapshotWorker watches the store for changes and persists snapshots
// after a quiet period, so a burst of edits costs one write.
type SnapshotWorker struct {
	store        *store.Store
	snapshots    storage.Snapshots
	saveDebounce time.Duration

	// invariantCheckInterval of 0 disables the periodic check.
	invariantCheckInterval time.Duration

	logger *log.Logger
}

func NewSnapshotWorker(st *store.Store, snaps storage.Snapshots, saveDebounce, invariantCheckInterval time.Duration, logger *log.Logger) *SnapshotWorker {
	return &SnapshotWorker{
		store:                  st,
		snapshots:              snaps,
		saveDebounce:           saveDebounce,
		invariantCheckInterval: invariantCheckInterval,
		logger:                 logger.WithComponent(log.ComponentWorker),
	}
}

// Run blocks until ctx is cancelled. On cancellation it writes a final
// snapshot so no acknowledged change is lost across a restart.
func (w *SnapshotWorker) Run(ctx context.Context) error {
	changes := w.store.Changes()

	// The debounce timer starts stopped; it is armed on the first
	// change notification.
	debounce := time.NewTimer(w.saveDebounce)
	if !debounce.Stop() {
		<-debounce.C
	}
	defer debounce.Stop()

	var invariantTick <-chan time.Time
	if w.invariantCheckInterval > 0 {
		ticker := time.NewTicker(w.invariantCheckInterval)
		defer ticker.Stop()
		invariantTick = ticker.C
	}

	dirty := false
	for {
		select {
		case <-ctx.Done():
			if dirty {
				// ctx is already cancelled here; the save gets its
				// own deadline so backends that honor cancellation
				// (SQLite's BeginTx) still write the last changes.
				saveCtx, cancel := context.WithTimeout(context.Background(), finalSaveTimeout)
				err := w.save(saveCtx)
				cancel()
				if err != nil {
					w.logger.Error("Final snapshot failed", log.FieldError, err)
					return fmt.Errorf("final snapshot: %w", err)
				}
			}
			w.logger.Info("Snapshot worker stopped")
			return nil

		case <-changes:
			dirty = true
			if !debounce.Stop() {
				select {
				case <-debounce.C:
				default:
				}
			}
			debounce.Reset(w.saveDebounce)

		case <-debounce.C:
			if err := w.save(ctx); err != nil {
				// Keep dirty so the next change or shutdown
				// retries the write.
				w.logger.Error("Snapshot save failed", log.FieldError, err)
				continue
			}
			dirty = false

		case <-invariantTick:
			w.checkInvariants()
		}
	}
}

func (w *SnapshotWorker) save(ctx context.Context) error {
	state := w.store.Snapshot()
	if err := w.snapshots.Save(ctx, state); err != nil {
		return err
	}
	w.logger.Debug("Snapshot saved",
		log.FieldEntryCount, len(state.TimeEntries))
	return nil
}

// checkInvariants logs when more than one timer is running. The state
// is only reported; dropping a running entry would discard tracked
// time.
func (w *SnapshotWorker) checkInvariants() {
	err := core.ValidateSingleRunningEntry(w.store.Entries())
	if err == nil {
		return
	}
	var mre *core.MultipleRunningError
	if errors.As(err, &mre) {
		w.logger.Warn("Multiple running timers detected",
			log.FieldRunningCount, mre.Count)
		return
	}
	w.logger.Warn("Running-timer check failed", log.FieldError, err)
}
