package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mauricedesaxe/time-tracker/internal/core"
)

const dayMillis = 24 * 60 * 60 * 1000

func millis(v int64) *int64 { return &v }

func fixedClock(ms int64) func() time.Time {
	return func() time.Time { return time.UnixMilli(ms) }
}

func completed(id string, start, end int64) core.TimeEntry {
	return core.TimeEntry{ID: id, Description: "task " + id, StartTime: start, EndTime: millis(end)}
}

func TestInitDefaults(t *testing.T) {
	s := New()
	s.InitDefaults()

	projects := s.Projects()
	require.Len(t, projects, 1)
	assert.Equal(t, DefaultProjectName, projects[0].Name)

	cats := s.Categories()
	require.Len(t, cats, 2)
	assert.Equal(t, "Work", cats[0].Name)
	assert.Equal(t, "Personal", cats[1].Name)

	// Re-running on a seeded store must not duplicate anything.
	s.InitDefaults()
	assert.Len(t, s.Projects(), 1)
	assert.Len(t, s.Categories(), 2)
}

func TestAddEntryRoundTrip(t *testing.T) {
	s := New()
	in := core.TimeEntry{
		ID:          "e1",
		Description: "write proposal",
		StartTime:   1_700_000_000_000,
		EndTime:     millis(1_700_000_500_000),
		ProjectID:   "default",
		CategoryID:  "work",
	}
	require.NoError(t, s.AddEntry(in))

	got, ok := s.Entry("e1")
	require.True(t, ok)
	assert.Equal(t, in, got)
}

func TestAddEntryValidates(t *testing.T) {
	s := New()
	err := s.AddEntry(core.TimeEntry{ID: "e1", Description: "", StartTime: 100})
	assert.ErrorIs(t, err, core.ErrEmptyDescription)

	_, ok := s.Entry("e1")
	assert.False(t, ok, "rejected entry must not be stored")
}

func TestAddEntryOverwritesDuplicateID(t *testing.T) {
	s := New()
	require.NoError(t, s.AddEntry(completed("e1", 100, 200)))
	require.NoError(t, s.AddEntry(completed("e2", 300, 400)))

	// Same id, new content: silently replaced, position kept.
	replacement := completed("e1", 500, 600)
	require.NoError(t, s.AddEntry(replacement))

	entries := s.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, replacement, entries[0])
}

func TestUpdateEntry(t *testing.T) {
	s := New()
	require.NoError(t, s.AddEntry(completed("e1", 100, 200)))

	t.Run("merges partial fields", func(t *testing.T) {
		got, ok, err := s.UpdateEntry("e1", core.EntryPatch{Description: core.Set("renamed")})
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "renamed", got.Description)
		assert.Equal(t, int64(100), got.StartTime)
	})

	t.Run("clearing end time leaves the field absent", func(t *testing.T) {
		got, ok, err := s.UpdateEntry("e1", core.EntryPatch{EndTime: core.Clear[int64]()})
		require.NoError(t, err)
		require.True(t, ok)
		assert.Nil(t, got.EndTime)

		stored, _ := s.Entry("e1")
		assert.True(t, stored.IsRunning())
	})

	t.Run("missing id is a tolerated no-op", func(t *testing.T) {
		got, ok, err := s.UpdateEntry("nope", core.EntryPatch{Description: core.Set("x")})
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Zero(t, got)
	})

	t.Run("invalid merge leaves state unchanged", func(t *testing.T) {
		before, _ := s.Entry("e1")
		_, ok, err := s.UpdateEntry("e1", core.EntryPatch{
			StartTime: core.Set(int64(900)),
			EndTime:   core.Set(int64(800)),
		})
		require.True(t, ok)
		assert.ErrorIs(t, err, core.ErrEndBeforeStart)
		after, _ := s.Entry("e1")
		assert.Equal(t, before, after)
	})
}

func TestDeleteEntry(t *testing.T) {
	s := New()
	require.NoError(t, s.AddEntry(completed("e1", 100, 200)))

	s.DeleteEntry("e1")
	_, ok := s.Entry("e1")
	assert.False(t, ok)

	// Absent id: no-op, no panic.
	s.DeleteEntry("e1")
	assert.Empty(t, s.Entries())
}

func TestStartAndStopTimer(t *testing.T) {
	nowMs := int64(1_700_000_000_000)
	s := NewWithClock(fixedClock(nowMs))

	e, err := s.StartTimer("deep work", "work", "default")
	require.NoError(t, err)
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, nowMs, e.StartTime)
	assert.True(t, e.IsRunning())

	running, ok := s.RunningEntry()
	require.True(t, ok)
	assert.Equal(t, e.ID, running.ID)

	s.now = fixedClock(nowMs + 90_000)
	stopped, ok := s.StopTimer()
	require.True(t, ok)
	require.NotNil(t, stopped.EndTime)
	assert.Equal(t, nowMs+90_000, *stopped.EndTime)

	_, ok = s.StopTimer()
	assert.False(t, ok, "no running entry left to stop")

	_, err = s.StartTimer("", "", "")
	assert.ErrorIs(t, err, core.ErrEmptyDescription)
}

func TestStartTimerDoesNotStopPrevious(t *testing.T) {
	s := NewWithClock(fixedClock(1000))
	_, err := s.StartTimer("first", "", "")
	require.NoError(t, err)

	s.now = fixedClock(2000)
	_, err = s.StartTimer("second", "", "")
	require.NoError(t, err)

	// The store records both; the invariant check is the caller's job.
	err = core.ValidateSingleRunningEntry(s.Entries())
	var mre *core.MultipleRunningError
	require.ErrorAs(t, err, &mre)
	assert.Equal(t, 2, mre.Count)

	// Stop picks the most recently started one.
	stopped, ok := s.StopTimer()
	require.True(t, ok)
	assert.Equal(t, "second", stopped.Description)
}

func TestEntriesSorted(t *testing.T) {
	s := New()
	require.NoError(t, s.AddEntry(completed("b", 200, 250)))
	require.NoError(t, s.AddEntry(completed("a", 100, 150)))
	require.NoError(t, s.AddEntry(completed("tie1", 300, 350)))
	require.NoError(t, s.AddEntry(completed("tie2", 300, 360)))

	asc := s.EntriesSorted(SortByStartTime, false)
	ids := func(es []core.TimeEntry) []string {
		out := make([]string, len(es))
		for i, e := range es {
			out[i] = e.ID
		}
		return out
	}
	assert.Equal(t, []string{"a", "b", "tie1", "tie2"}, ids(asc))

	desc := s.EntriesSorted(SortByStartTime, true)
	assert.Equal(t, []string{"tie1", "tie2", "b", "a"}, ids(desc),
		"descending keeps insertion order among ties")
}

func TestEntriesSortedByEndTimePutsRunningLast(t *testing.T) {
	s := New()
	require.NoError(t, s.AddEntry(core.TimeEntry{ID: "run", Description: "x", StartTime: 50}))
	require.NoError(t, s.AddEntry(completed("done", 100, 150)))

	got := s.EntriesSorted(SortByEndTime, false)
	require.Len(t, got, 2)
	assert.Equal(t, "done", got[0].ID)
	assert.Equal(t, "run", got[1].ID)
}

func TestParseSortField(t *testing.T) {
	f, err := ParseSortField("")
	require.NoError(t, err)
	assert.Equal(t, SortByStartTime, f)

	f, err = ParseSortField("endTime")
	require.NoError(t, err)
	assert.Equal(t, SortByEndTime, f)

	_, err = ParseSortField("description")
	assert.Error(t, err)
}

func TestPruneAllIsIdempotent(t *testing.T) {
	s := New()
	require.NoError(t, s.AddEntry(completed("e1", 100, 200)))
	require.NoError(t, s.AddEntry(completed("e2", 300, 400)))

	assert.Equal(t, 2, s.PruneAll())
	assert.Empty(t, s.Entries())

	assert.Equal(t, 0, s.PruneAll())
	assert.Empty(t, s.Entries())
}

func TestPruneOlderThanBoundary(t *testing.T) {
	nowMs := int64(1_700_000_000_000)
	s := NewWithClock(fixedClock(nowMs))

	cutoff := nowMs - 30*dayMillis
	require.NoError(t, s.AddEntry(completed("kept-inside", cutoff+1, cutoff+2)))
	require.NoError(t, s.AddEntry(completed("kept-at-cutoff", cutoff, cutoff+1)))
	require.NoError(t, s.AddEntry(completed("deleted", cutoff-1, cutoff)))

	assert.Equal(t, 1, s.PruneOlderThan(30))

	_, ok := s.Entry("kept-inside")
	assert.True(t, ok)
	_, ok = s.Entry("kept-at-cutoff")
	assert.True(t, ok, "entry exactly at the cutoff is retained")
	_, ok = s.Entry("deleted")
	assert.False(t, ok)
}

func TestRunningCategoryIsSynthesized(t *testing.T) {
	s := New()
	c, ok := s.Category(core.RunningCategoryID)
	require.True(t, ok)
	assert.Equal(t, "Tracker is running", c.Name)

	// Never part of the persisted set.
	for _, cat := range s.Categories() {
		assert.NotEqual(t, core.RunningCategoryID, cat.ID)
	}
	assert.NotContains(t, s.Snapshot().Categories, core.RunningCategoryID)
}

func TestCategoryCRUD(t *testing.T) {
	s := New()
	require.NoError(t, s.AddCategory(core.Category{ID: "work", Name: "Work", Color: "#3b82f6"}))

	got, ok, err := s.UpdateCategory("work", core.CategoryPatch{WeeklyTargetHours: core.Set(15.0)})
	require.NoError(t, err)
	require.True(t, ok)
	require.NotNil(t, got.WeeklyTargetHours)
	assert.Equal(t, 15.0, *got.WeeklyTargetHours)

	_, ok, err = s.UpdateCategory("absent", core.CategoryPatch{Name: core.Set("x")})
	require.NoError(t, err)
	assert.False(t, ok)

	err = s.AddCategory(core.Category{ID: "bad", Name: "", Color: "#000000"})
	assert.ErrorIs(t, err, core.ErrEmptyName)

	s.DeleteCategory("work")
	_, ok = s.Category("work")
	assert.False(t, ok)
	s.DeleteCategory("work") // no-op
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	s := New()
	s.InitDefaults()
	require.NoError(t, s.AddEntry(completed("e1", 100, 200)))
	require.NoError(t, s.AddEntry(core.TimeEntry{ID: "e2", Description: "running", StartTime: 300}))

	snap := s.Snapshot()

	other := New()
	other.Restore(snap)
	assert.Equal(t, snap, other.Snapshot())

	entries := other.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "e1", entries[0].ID, "restore orders entries by start time")
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	s := New()
	require.NoError(t, s.AddEntry(completed("e1", 100, 200)))

	snap := s.Snapshot()
	snap.TimeEntries["e1"] = core.TimeEntry{ID: "e1", Description: "mutated", StartTime: 1}

	got, _ := s.Entry("e1")
	assert.Equal(t, "task e1", got.Description)
}

func TestChangesSignalCoalesces(t *testing.T) {
	s := New()
	require.NoError(t, s.AddEntry(completed("e1", 100, 200)))
	require.NoError(t, s.AddEntry(completed("e2", 300, 400)))

	select {
	case <-s.Changes():
	default:
		t.Fatal("expected a pending change signal")
	}

	select {
	case <-s.Changes():
		t.Fatal("signals should coalesce into one")
	default:
	}
}
