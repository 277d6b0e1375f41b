package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"

	"github.com/mauricedesaxe/time-tracker/internal/core"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQLiteStore keeps the snapshot in relational tables. Save replaces the
// whole content in one transaction; the state is small (one user's
// history), so full replacement is simpler and safer than diffing.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := migrateSchema(dbPath); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

// migrateSchema brings the snapshot tables up to date from the embedded
// scripts. The migrate instance owns and closes its database handle, so
// it gets one separate from the store's.
func migrateSchema(dbPath string) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("load embedded migrations: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("open database for migration: %w", err)
	}
	driver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		db.Close()
		return fmt.Errorf("wrap migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		db.Close()
		return fmt.Errorf("prepare schema migration: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply schema migration: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Load(ctx context.Context) (core.TrackerState, error) {
	state := core.NewTrackerState()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, description, start_time, end_time, project_id, category_id FROM time_entries`)
	if err != nil {
		return core.TrackerState{}, fmt.Errorf("query time entries: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			e          core.TimeEntry
			end        sql.NullInt64
			projectID  sql.NullString
			categoryID sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.Description, &e.StartTime, &end, &projectID, &categoryID); err != nil {
			return core.TrackerState{}, fmt.Errorf("scan time entry: %w", err)
		}
		if end.Valid {
			v := end.Int64
			e.EndTime = &v
		}
		e.ProjectID = projectID.String
		e.CategoryID = categoryID.String
		state.TimeEntries[e.ID] = e
	}
	if err := rows.Err(); err != nil {
		return core.TrackerState{}, fmt.Errorf("iterate time entries: %w", err)
	}

	catRows, err := s.db.QueryContext(ctx,
		`SELECT id, name, color, weekly_target_hours FROM categories`)
	if err != nil {
		return core.TrackerState{}, fmt.Errorf("query categories: %w", err)
	}
	defer catRows.Close()
	for catRows.Next() {
		var (
			c      core.Category
			target sql.NullFloat64
		)
		if err := catRows.Scan(&c.ID, &c.Name, &c.Color, &target); err != nil {
			return core.TrackerState{}, fmt.Errorf("scan category: %w", err)
		}
		if target.Valid {
			v := target.Float64
			c.WeeklyTargetHours = &v
		}
		state.Categories[c.ID] = c
	}
	if err := catRows.Err(); err != nil {
		return core.TrackerState{}, fmt.Errorf("iterate categories: %w", err)
	}

	projRows, err := s.db.QueryContext(ctx, `SELECT id, name, color FROM projects`)
	if err != nil {
		return core.TrackerState{}, fmt.Errorf("query projects: %w", err)
	}
	defer projRows.Close()
	for projRows.Next() {
		var p core.Project
		if err := projRows.Scan(&p.ID, &p.Name, &p.Color); err != nil {
			return core.TrackerState{}, fmt.Errorf("scan project: %w", err)
		}
		state.Projects[p.ID] = p
	}
	if err := projRows.Err(); err != nil {
		return core.TrackerState{}, fmt.Errorf("iterate projects: %w", err)
	}

	return state, nil
}

func (s *SQLiteStore) Save(ctx context.Context, state core.TrackerState) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"time_entries", "categories", "projects"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for _, e := range state.TimeEntries {
		var end sql.NullInt64
		if e.EndTime != nil {
			end = sql.NullInt64{Int64: *e.EndTime, Valid: true}
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO time_entries (id, description, start_time, end_time, project_id, category_id)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			e.ID, e.Description, e.StartTime, end, nullable(e.ProjectID), nullable(e.CategoryID))
		if err != nil {
			return fmt.Errorf("insert time entry %s: %w", e.ID, err)
		}
	}

	for _, c := range state.Categories {
		var target sql.NullFloat64
		if c.WeeklyTargetHours != nil {
			target = sql.NullFloat64{Float64: *c.WeeklyTargetHours, Valid: true}
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO categories (id, name, color, weekly_target_hours) VALUES (?, ?, ?, ?)`,
			c.ID, c.Name, c.Color, target)
		if err != nil {
			return fmt.Errorf("insert category %s: %w", c.ID, err)
		}
	}

	for _, p := range state.Projects {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO projects (id, name, color) VALUES (?, ?, ?)`,
			p.ID, p.Name, p.Color)
		if err != nil {
			return fmt.Errorf("insert project %s: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}

	slog.DebugContext(ctx, "Snapshot saved to SQLite",
		"entries", len(state.TimeEntries),
		"categories", len(state.Categories),
		"projects", len(state.Projects))
	return nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
