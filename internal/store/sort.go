package store

import (
	"fmt"
	"sort"

	"github.com/mauricedesaxe/time-tracker/internal/core"
)

// SortField is the closed set of entry fields the store can order by.
type SortField int

const (
	SortByStartTime SortField = iota
	SortByEndTime
)

// ParseSortField maps the wire names used by the API to a SortField.
func ParseSortField(name string) (SortField, error) {
	switch name {
	case "", "startTime":
		return SortByStartTime, nil
	case "endTime":
		return SortByEndTime, nil
	default:
		return 0, fmt.Errorf("unsupported sort field %q", name)
	}
}

func (f SortField) String() string {
	switch f {
	case SortByEndTime:
		return "endTime"
	default:
		return "startTime"
	}
}

// less orders two entries ascending. Running entries have no end time
// and sort after completed ones under SortByEndTime.
func (f SortField) less(a, b core.TimeEntry) bool {
	switch f {
	case SortByEndTime:
		switch {
		case a.EndTime == nil && b.EndTime == nil:
			return false
		case a.EndTime == nil:
			return false
		case b.EndTime == nil:
			return true
		default:
			return *a.EndTime < *b.EndTime
		}
	default:
		return a.StartTime < b.StartTime
	}
}

// EntriesSorted returns all entries ordered by field. Ties keep
// insertion order, in both directions.
func (s *Store) EntriesSorted(field SortField, desc bool) []core.TimeEntry {
	s.mu.Lock()
	entries := s.entriesLocked()
	s.mu.Unlock()

	sort.SliceStable(entries, func(i, j int) bool {
		if desc {
			return field.less(entries[j], entries[i])
		}
		return field.less(entries[i], entries[j])
	})
	return entries
}
