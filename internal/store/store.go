// Package store holds the authoritative in-memory tracker state. All
// mutation goes through Store methods under one mutex; persistence is a
// side effect driven by change notifications, never performed inline.
package store

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mauricedesaxe/time-tracker/internal/core"
)

// Default records seeded into an empty store on first run.
const (
	DefaultProjectID   = "default"
	DefaultProjectName = "Default Project"
)

// Store owns all entries, categories and projects, keyed by id.
// Insertion order is retained so sorts can tie-break deterministically.
// It deliberately does not enforce the single running timer rule;
// callers check core.ValidateSingleRunningEntry after mutating.
type Store struct {
	mu  sync.Mutex
	now func() time.Time

	entries    map[string]core.TimeEntry
	entryOrder []string

	categories map[string]core.Category
	catOrder   []string

	projects  map[string]core.Project
	projOrder []string

	changes chan struct{}
}

func New() *Store {
	return NewWithClock(time.Now)
}

// NewWithClock builds a store with an injectable clock, used by prune,
// timers and tests.
func NewWithClock(now func() time.Time) *Store {
	return &Store{
		now:        now,
		entries:    make(map[string]core.TimeEntry),
		categories: make(map[string]core.Category),
		projects:   make(map[string]core.Project),
		changes:    make(chan struct{}, 1),
	}
}

// Changes signals after every mutation. The channel is buffered and
// coalescing; receivers snapshot the store when woken.
func (s *Store) Changes() <-chan struct{} {
	return s.changes
}

func (s *Store) notify() {
	select {
	case s.changes <- struct{}{}:
	default:
	}
}

// InitDefaults seeds the default project and the Work/Personal
// categories when the store has none yet. Calling it on a populated
// store is a no-op.
func (s *Store) InitDefaults() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.projects) > 0 || len(s.categories) > 0 {
		return
	}

	s.putProject(core.Project{ID: DefaultProjectID, Name: DefaultProjectName, Color: "#6366f1"})
	s.putCategory(core.Category{ID: "work", Name: "Work", Color: "#3b82f6"})
	s.putCategory(core.Category{ID: "personal", Name: "Personal", Color: "#10b981"})
	s.notify()
}

// AddEntry inserts the entry by id after validation. An existing entry
// with the same id is silently overwritten; its insertion position is
// kept. Overwrite-on-duplicate is long-standing behavior the UI relies
// on for sync replays, so it is documented rather than rejected.
func (s *Store) AddEntry(e core.TimeEntry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.putEntry(e)
	s.notify()
	return nil
}

// Entry returns the entry by id, ok=false when absent.
func (s *Store) Entry(id string) (core.TimeEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	return e, ok
}

// Entries returns all entries in insertion order.
func (s *Store) Entries() []core.TimeEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entriesLocked()
}

// UpdateEntry merges a patch onto the entry. A missing id is tolerated
// and reported via ok=false without touching state. A patch that would
// leave the entry invalid is rejected and state is unchanged.
func (s *Store) UpdateEntry(id string, p core.EntryPatch) (core.TimeEntry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.entries[id]
	if !ok {
		return core.TimeEntry{}, false, nil
	}
	next := p.Apply(prev)
	next.ID = prev.ID
	if err := next.Validate(); err != nil {
		return core.TimeEntry{}, true, err
	}
	s.entries[id] = next
	s.notify()
	return next, true, nil
}

// DeleteEntry removes the entry; no-op when absent.
func (s *Store) DeleteEntry(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[id]; !ok {
		return
	}
	delete(s.entries, id)
	s.entryOrder = removeID(s.entryOrder, id)
	s.notify()
}

// StartTimer creates a new running entry starting now. It does not stop
// an already running entry; callers surface the invariant check result
// to the user instead of discarding data silently.
func (s *Store) StartTimer(description, categoryID, projectID string) (core.TimeEntry, error) {
	e := core.TimeEntry{
		ID:          uuid.NewString(),
		Description: description,
		StartTime:   s.now().UnixMilli(),
		CategoryID:  categoryID,
		ProjectID:   projectID,
	}
	if err := e.Validate(); err != nil {
		return core.TimeEntry{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.putEntry(e)
	s.notify()
	return e, nil
}

// StopTimer completes the most recently started running entry, setting
// its end time to now. ok=false when nothing is running.
func (s *Store) StopTimer() (core.TimeEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var latest core.TimeEntry
	found := false
	for _, id := range s.entryOrder {
		e := s.entries[id]
		if e.IsRunning() && (!found || e.StartTime > latest.StartTime) {
			latest = e
			found = true
		}
	}
	if !found {
		return core.TimeEntry{}, false
	}

	end := s.now().UnixMilli()
	if end <= latest.StartTime {
		// Sub-millisecond sessions still need end > start.
		end = latest.StartTime + 1
	}
	latest.EndTime = &end
	s.entries[latest.ID] = latest
	s.notify()
	return latest, true
}

// RunningEntry returns the most recently started running entry, if any.
func (s *Store) RunningEntry() (core.TimeEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var latest core.TimeEntry
	found := false
	for _, id := range s.entryOrder {
		e := s.entries[id]
		if e.IsRunning() && (!found || e.StartTime > latest.StartTime) {
			latest = e
			found = true
		}
	}
	return latest, found
}

// PruneAll deletes every entry and returns how many were removed.
// Categories and projects are untouched.
func (s *Store) PruneAll() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.entries)
	s.entries = make(map[string]core.TimeEntry)
	s.entryOrder = nil
	if n > 0 {
		s.notify()
	}
	return n
}

// PruneOlderThan deletes entries whose start is strictly before
// now - days*24h. An entry exactly at the cutoff is retained.
func (s *Store) PruneOlderThan(days int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().UnixMilli() - int64(days)*24*int64(time.Hour/time.Millisecond)
	n := 0
	kept := s.entryOrder[:0]
	for _, id := range s.entryOrder {
		if s.entries[id].StartTime < cutoff {
			delete(s.entries, id)
			n++
			continue
		}
		kept = append(kept, id)
	}
	s.entryOrder = kept
	if n > 0 {
		s.notify()
	}
	return n
}

// AddCategory inserts the category by id after validation, silently
// overwriting an existing id.
func (s *Store) AddCategory(c core.Category) error {
	if err := c.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.putCategory(c)
	s.notify()
	return nil
}

// Category returns the category by id. The reserved "running" id is
// synthesized rather than looked up.
func (s *Store) Category(id string) (core.Category, bool) {
	if id == core.RunningCategoryID {
		return core.RunningCategory(), true
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.categories[id]
	return c, ok
}

// Categories returns all persisted categories in insertion order. The
// synthesized "running" category is not included.
func (s *Store) Categories() []core.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Category, 0, len(s.catOrder))
	for _, id := range s.catOrder {
		out = append(out, s.categories[id])
	}
	return out
}

// UpdateCategory merges a patch onto the category; missing ids are
// tolerated via ok=false.
func (s *Store) UpdateCategory(id string, p core.CategoryPatch) (core.Category, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.categories[id]
	if !ok {
		return core.Category{}, false, nil
	}
	next := p.Apply(prev)
	next.ID = prev.ID
	if err := next.Validate(); err != nil {
		return core.Category{}, true, err
	}
	s.categories[id] = next
	s.notify()
	return next, true, nil
}

// DeleteCategory removes the category; no-op when absent. Entries
// tagged with it keep their categoryId and simply resolve to no name.
func (s *Store) DeleteCategory(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.categories[id]; !ok {
		return
	}
	delete(s.categories, id)
	s.catOrder = removeID(s.catOrder, id)
	s.notify()
}

// AddProject inserts the project by id after validation.
func (s *Store) AddProject(p core.Project) error {
	if err := p.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.putProject(p)
	s.notify()
	return nil
}

// Project returns the project by id, ok=false when absent.
func (s *Store) Project(id string) (core.Project, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[id]
	return p, ok
}

// Projects returns all projects in insertion order.
func (s *Store) Projects() []core.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Project, 0, len(s.projOrder))
	for _, id := range s.projOrder {
		out = append(out, s.projects[id])
	}
	return out
}

// Snapshot returns a deep copy of the full state for persistence or the
// /sync response.
func (s *Store) Snapshot() core.TrackerState {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := core.NewTrackerState()
	for id, e := range s.entries {
		state.TimeEntries[id] = e
	}
	for id, c := range s.categories {
		state.Categories[id] = c
	}
	for id, p := range s.projects {
		state.Projects[id] = p
	}
	return state
}

// Restore replaces the whole state, e.g. from a persisted snapshot or a
// /sync upload. Insertion order is rebuilt deterministically: entries by
// start time then id, categories and projects by id.
func (s *Store) Restore(state core.TrackerState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]core.TimeEntry, len(state.TimeEntries))
	s.entryOrder = s.entryOrder[:0]
	for id, e := range state.TimeEntries {
		s.entries[id] = e
		s.entryOrder = append(s.entryOrder, id)
	}
	sort.Slice(s.entryOrder, func(i, j int) bool {
		a, b := s.entries[s.entryOrder[i]], s.entries[s.entryOrder[j]]
		if a.StartTime != b.StartTime {
			return a.StartTime < b.StartTime
		}
		return a.ID < b.ID
	})

	s.categories = make(map[string]core.Category, len(state.Categories))
	s.catOrder = sortedIDs(state.Categories)
	for id, c := range state.Categories {
		s.categories[id] = c
	}

	s.projects = make(map[string]core.Project, len(state.Projects))
	s.projOrder = sortedIDs(state.Projects)
	for id, p := range state.Projects {
		s.projects[id] = p
	}

	s.notify()
}

func (s *Store) entriesLocked() []core.TimeEntry {
	out := make([]core.TimeEntry, 0, len(s.entryOrder))
	for _, id := range s.entryOrder {
		out = append(out, s.entries[id])
	}
	return out
}

func (s *Store) putEntry(e core.TimeEntry) {
	if _, ok := s.entries[e.ID]; !ok {
		s.entryOrder = append(s.entryOrder, e.ID)
	}
	s.entries[e.ID] = e
}

func (s *Store) putCategory(c core.Category) {
	if _, ok := s.categories[c.ID]; !ok {
		s.catOrder = append(s.catOrder, c.ID)
	}
	s.categories[c.ID] = c
}

func (s *Store) putProject(p core.Project) {
	if _, ok := s.projects[p.ID]; !ok {
		s.projOrder = append(s.projOrder, p.ID)
	}
	s.projects[p.ID] = p
}

func removeID(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

func sortedIDs[T any](m map[string]T) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
