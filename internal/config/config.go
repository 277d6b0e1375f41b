package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port string

	// Persistence
	SnapshotBackend string // "file", "sqlite" or "memory"
	SnapshotPath    string
	SQLiteDBPath    string

	// Snapshot worker
	SaveDebounce           time.Duration
	InvariantCheckInterval time.Duration

	// Prune
	PruneDefaultDays int
}

func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "8080"),

		SnapshotBackend: getEnv("SNAPSHOT_BACKEND", "file"),
		SnapshotPath:    getEnv("SNAPSHOT_PATH", "./data/tracker.json"),
		SQLiteDBPath:    getEnv("SQLITE_DB_PATH", "./data/tracker.db"),

		SaveDebounce:           getEnvDuration("SAVE_DEBOUNCE", 2*time.Second),
		InvariantCheckInterval: getEnvDuration("INVARIANT_CHECK_INTERVAL", time.Second),

		PruneDefaultDays: getEnvInt("PRUNE_DEFAULT_DAYS", 90),
	}
}

// Validate checks the configuration and returns an error listing every
// problem found.
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.SnapshotBackend {
	case "file":
		if c.SnapshotPath == "" {
			errs = append(errs, "snapshot path cannot be empty when using file backend")
		} else if err := ensureDir(c.SnapshotPath); err != nil {
			errs = append(errs, fmt.Sprintf("cannot create snapshot directory for '%s': %v", c.SnapshotPath, err))
		}
	case "sqlite":
		if c.SQLiteDBPath == "" {
			errs = append(errs, "SQLite database path cannot be empty when using sqlite backend")
		} else if err := ensureDir(c.SQLiteDBPath); err != nil {
			errs = append(errs, fmt.Sprintf("cannot create SQLite database directory for '%s': %v", c.SQLiteDBPath, err))
		}
	case "memory":
	default:
		errs = append(errs, fmt.Sprintf("invalid snapshot backend '%s': must be one of [file sqlite memory]", c.SnapshotBackend))
	}

	if c.SaveDebounce < 100*time.Millisecond {
		errs = append(errs, fmt.Sprintf("invalid save debounce %v: must be at least 100ms", c.SaveDebounce))
	} else if c.SaveDebounce > time.Minute {
		errs = append(errs, fmt.Sprintf("invalid save debounce %v: must be at most 1 minute", c.SaveDebounce))
	}

	if c.InvariantCheckInterval < time.Second {
		errs = append(errs, fmt.Sprintf("invalid invariant check interval %v: must be at least 1 second", c.InvariantCheckInterval))
	} else if c.InvariantCheckInterval > time.Hour {
		errs = append(errs, fmt.Sprintf("invalid invariant check interval %v: must be at most 1 hour", c.InvariantCheckInterval))
	}

	if c.PruneDefaultDays < 1 {
		errs = append(errs, fmt.Sprintf("invalid prune default %d days: must be at least 1", c.PruneDefaultDays))
	} else if c.PruneDefaultDays > 3650 {
		errs = append(errs, fmt.Sprintf("invalid prune default %d days: must be at most 3650", c.PruneDefaultDays))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return os.MkdirAll(dir, 0755)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
