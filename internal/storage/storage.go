// Package storage persists tracker state snapshots. Two durable
// backends exist: a single JSON document on disk (the default, matching
// the layout the web client kept in browser storage) and SQLite.
package storage

import (
	"context"

	"github.com/mauricedesaxe/time-tracker/internal/core"
)

// Snapshots loads and saves whole-state snapshots. Save replaces the
// previous snapshot; Load returns an empty state when none exists yet.
type Snapshots interface {
	Load(ctx context.Context) (core.TrackerState, error)
	Save(ctx context.Context, state core.TrackerState) error
	Close() error
}

// Discard is a Snapshots that keeps nothing, for ephemeral runs and
// tests.
type Discard struct{}

func (Discard) Load(context.Context) (core.TrackerState, error) {
	return core.NewTrackerState(), nil
}

func (Discard) Save(context.Context, core.TrackerState) error { return nil }

func (Discard) Close() error { return nil }
