package config

import (
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validConfig(t *testing.T) *Config {
	t.Helper()
	dir := t.TempDir()
	return &Config{
		Port:                   "8080",
		SnapshotBackend:        "file",
		SnapshotPath:           filepath.Join(dir, "tracker.json"),
		SQLiteDBPath:           filepath.Join(dir, "tracker.db"),
		SaveDebounce:           2 * time.Second,
		InvariantCheckInterval: time.Second,
		PruneDefaultDays:       90,
	}
}

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "SNAPSHOT_BACKEND", "PRUNE_DEFAULT_DAYS", "INVARIANT_CHECK_INTERVAL"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Port = %s, want 8080", cfg.Port)
	}
	if cfg.SnapshotBackend != "file" {
		t.Errorf("SnapshotBackend = %s, want file", cfg.SnapshotBackend)
	}
	if cfg.PruneDefaultDays != 90 {
		t.Errorf("PruneDefaultDays = %d, want 90", cfg.PruneDefaultDays)
	}
	if cfg.InvariantCheckInterval != time.Second {
		t.Errorf("InvariantCheckInterval = %v, want 1s", cfg.InvariantCheckInterval)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SNAPSHOT_BACKEND", "sqlite")
	t.Setenv("PRUNE_DEFAULT_DAYS", "30")
	t.Setenv("SAVE_DEBOUNCE", "5s")

	cfg := Load()
	if cfg.Port != "9090" {
		t.Errorf("Port = %s, want 9090", cfg.Port)
	}
	if cfg.SnapshotBackend != "sqlite" {
		t.Errorf("SnapshotBackend = %s, want sqlite", cfg.SnapshotBackend)
	}
	if cfg.PruneDefaultDays != 30 {
		t.Errorf("PruneDefaultDays = %d, want 30", cfg.PruneDefaultDays)
	}
	if cfg.SaveDebounce != 5*time.Second {
		t.Errorf("SaveDebounce = %v, want 5s", cfg.SaveDebounce)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "memory backend needs no paths", mutate: func(c *Config) {
			c.SnapshotBackend = "memory"
			c.SnapshotPath = ""
			c.SQLiteDBPath = ""
		}},
		{name: "bad port", mutate: func(c *Config) { c.Port = "abc" }, wantErr: "invalid port"},
		{name: "port out of range", mutate: func(c *Config) { c.Port = "70000" }, wantErr: "invalid port"},
		{name: "unknown backend", mutate: func(c *Config) { c.SnapshotBackend = "redis" }, wantErr: "invalid snapshot backend"},
		{name: "empty file path", mutate: func(c *Config) { c.SnapshotPath = "" }, wantErr: "snapshot path cannot be empty"},
		{name: "empty sqlite path", mutate: func(c *Config) {
			c.SnapshotBackend = "sqlite"
			c.SQLiteDBPath = ""
		}, wantErr: "database path cannot be empty"},
		{name: "debounce too small", mutate: func(c *Config) { c.SaveDebounce = time.Millisecond }, wantErr: "save debounce"},
		{name: "check interval too small", mutate: func(c *Config) { c.InvariantCheckInterval = 10 * time.Millisecond }, wantErr: "invariant check interval"},
		{name: "prune days zero", mutate: func(c *Config) { c.PruneDefaultDays = 0 }, wantErr: "prune default"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := validConfig(t)
	cfg.Port = "abc"
	cfg.PruneDefaultDays = -1

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"invalid port", "prune default"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing %q", err, want)
		}
	}
}
