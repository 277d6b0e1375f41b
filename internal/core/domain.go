package core

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// RunningCategoryID is the reserved pseudo-category id for the running
// timer. It is synthesized for display and never persisted.
const RunningCategoryID = "running"

type (
	// TimeEntry is a single tracked interval. An entry with no EndTime is
	// still running. Timestamps are Unix epoch milliseconds.
	TimeEntry struct {
		ID          string `json:"id"`
		Description string `json:"description"`
		StartTime   int64  `json:"startTime"`
		EndTime     *int64 `json:"endTime,omitempty"`
		ProjectID   string `json:"projectId,omitempty"`
		CategoryID  string `json:"categoryId,omitempty"`
	}

	// Category is a user-defined tag used for grouping and analytics.
	Category struct {
		ID                string   `json:"id"`
		Name              string   `json:"name"`
		Color             string   `json:"color"`
		WeeklyTargetHours *float64 `json:"weeklyTargetHours,omitempty"`
	}

	Project struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Color string `json:"color"`
	}

	// TrackerState is the full persisted state: per-type mappings keyed
	// by id. This is also the wire shape of the /sync payload.
	TrackerState struct {
		TimeEntries map[string]TimeEntry `json:"timeEntries"`
		Projects    map[string]Project   `json:"projects"`
		Categories  map[string]Category  `json:"categories"`
	}
)

var (
	ErrEmptyID          = errors.New("empty id")
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyName        = errors.New("empty name")
	ErrInvalidColor     = errors.New("invalid color: expected hex like #rrggbb")
	ErrEndBeforeStart   = errors.New("end time must be after start time")
	ErrInvalidStartTime = errors.New("invalid start time")
	ErrReservedCategory = errors.New("category id is reserved")
)

var hexColorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// IsRunning reports whether the entry has no end time.
func (e TimeEntry) IsRunning() bool {
	return e.EndTime == nil
}

// DurationMillis returns the elapsed milliseconds of the entry. Running
// entries are measured against now.
func (e TimeEntry) DurationMillis(now time.Time) int64 {
	if e.EndTime != nil {
		return *e.EndTime - e.StartTime
	}
	return now.UnixMilli() - e.StartTime
}

// Start returns the entry's start as a time.Time.
func (e TimeEntry) Start() time.Time {
	return time.UnixMilli(e.StartTime)
}

func (e TimeEntry) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return ErrEmptyID
	}
	if strings.TrimSpace(e.Description) == "" {
		return ErrEmptyDescription
	}
	if e.StartTime <= 0 {
		return ErrInvalidStartTime
	}
	if e.EndTime != nil && *e.EndTime <= e.StartTime {
		return ErrEndBeforeStart
	}
	return nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return ErrEmptyID
	}
	if c.ID == RunningCategoryID {
		return ErrReservedCategory
	}
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if !hexColorRe.MatchString(c.Color) {
		return fmt.Errorf("%w, got %q", ErrInvalidColor, c.Color)
	}
	return nil
}

func (p Project) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return ErrEmptyID
	}
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

// RunningCategory synthesizes the reserved display-only category shown
// while the tracker is running.
func RunningCategory() Category {
	return Category{
		ID:    RunningCategoryID,
		Name:  "Tracker is running",
		Color: "#22c55e",
	}
}

// NewTrackerState returns an empty state with all mappings initialized.
func NewTrackerState() TrackerState {
	return TrackerState{
		TimeEntries: make(map[string]TimeEntry),
		Projects:    make(map[string]Project),
		Categories:  make(map[string]Category),
	}
}

// IsEmpty reports whether the state holds no records at all.
func (s TrackerState) IsEmpty() bool {
	return len(s.TimeEntries) == 0 && len(s.Projects) == 0 && len(s.Categories) == 0
}
