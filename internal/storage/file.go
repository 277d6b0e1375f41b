package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mauricedesaxe/time-tracker/internal/core"
)

// FileStore persists the state as one JSON document:
// {"timeEntries": …, "projects": …, "categories": …}. Writes go through
// a temp file and rename so a crash never leaves a torn snapshot.
type FileStore struct {
	path string
}

func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create snapshot directory: %w", err)
	}
	return &FileStore{path: path}, nil
}

func (f *FileStore) Load(ctx context.Context) (core.TrackerState, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		slog.InfoContext(ctx, "No snapshot yet, starting empty", "path", f.path)
		return core.NewTrackerState(), nil
	}
	if err != nil {
		return core.TrackerState{}, fmt.Errorf("read snapshot: %w", err)
	}

	state := core.NewTrackerState()
	if err := json.Unmarshal(data, &state); err != nil {
		return core.TrackerState{}, fmt.Errorf("decode snapshot %s: %w", f.path, err)
	}
	return state, nil
}

func (f *FileStore) Save(ctx context.Context, state core.TrackerState) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}

	slog.DebugContext(ctx, "Snapshot saved",
		"path", f.path,
		"entries", len(state.TimeEntries),
		"categories", len(state.Categories),
		"projects", len(state.Projects))
	return nil
}

func (f *FileStore) Close() error { return nil }
