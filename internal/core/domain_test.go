package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeEntryValidate(t *testing.T) {
	tests := []struct {
		name    string
		entry   TimeEntry
		wantErr error
	}{
		{name: "valid completed", entry: entry("a", 100, millis(200))},
		{name: "valid running", entry: entry("a", 100, nil)},
		{name: "missing id", entry: TimeEntry{Description: "x", StartTime: 100}, wantErr: ErrEmptyID},
		{name: "blank description", entry: TimeEntry{ID: "a", Description: "  ", StartTime: 100}, wantErr: ErrEmptyDescription},
		{name: "zero start", entry: TimeEntry{ID: "a", Description: "x"}, wantErr: ErrInvalidStartTime},
		{name: "end equals start", entry: entry("a", 100, millis(100)), wantErr: ErrEndBeforeStart},
		{name: "end before start", entry: entry("a", 100, millis(50)), wantErr: ErrEndBeforeStart},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.entry.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestCategoryValidate(t *testing.T) {
	tests := []struct {
		name    string
		cat     Category
		wantErr error
	}{
		{name: "valid", cat: Category{ID: "work", Name: "Work", Color: "#3b82f6"}},
		{name: "empty name", cat: Category{ID: "c", Name: "", Color: "#3b82f6"}, wantErr: ErrEmptyName},
		{name: "bad color", cat: Category{ID: "c", Name: "C", Color: "blue"}, wantErr: ErrInvalidColor},
		{name: "short hex", cat: Category{ID: "c", Name: "C", Color: "#fff"}, wantErr: ErrInvalidColor},
		{name: "reserved id", cat: Category{ID: RunningCategoryID, Name: "X", Color: "#000000"}, wantErr: ErrReservedCategory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cat.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestRunningCategoryIsSynthesized(t *testing.T) {
	c := RunningCategory()
	assert.Equal(t, RunningCategoryID, c.ID)
	assert.Equal(t, "Tracker is running", c.Name)
}

func TestDurationMillis(t *testing.T) {
	now := time.UnixMilli(10_000)

	completed := entry("a", 1000, millis(4000))
	assert.Equal(t, int64(3000), completed.DurationMillis(now))

	running := entry("b", 1000, nil)
	assert.Equal(t, int64(9000), running.DurationMillis(now))
	assert.True(t, running.IsRunning())
	assert.False(t, completed.IsRunning())
}

func TestEntryPatchApply(t *testing.T) {
	base := TimeEntry{
		ID:          "a",
		Description: "write report",
		StartTime:   1000,
		EndTime:     millis(2000),
		CategoryID:  "work",
		ProjectID:   "default",
	}

	t.Run("unset fields keep prior values", func(t *testing.T) {
		got := EntryPatch{Description: Set("review report")}.Apply(base)
		assert.Equal(t, "review report", got.Description)
		assert.Equal(t, base.StartTime, got.StartTime)
		require.NotNil(t, got.EndTime)
		assert.Equal(t, int64(2000), *got.EndTime)
		assert.Equal(t, "work", got.CategoryID)
	})

	t.Run("clear end time makes entry running", func(t *testing.T) {
		got := EntryPatch{EndTime: Clear[int64]()}.Apply(base)
		assert.Nil(t, got.EndTime)
		assert.True(t, got.IsRunning())
	})

	t.Run("set end time on running entry", func(t *testing.T) {
		running := entry("b", 1000, nil)
		got := EntryPatch{EndTime: Set(int64(5000))}.Apply(running)
		require.NotNil(t, got.EndTime)
		assert.Equal(t, int64(5000), *got.EndTime)
	})

	t.Run("clear category detaches", func(t *testing.T) {
		got := EntryPatch{CategoryID: Clear[string]()}.Apply(base)
		assert.Empty(t, got.CategoryID)
	})

	t.Run("zero patch is a no-op", func(t *testing.T) {
		assert.Equal(t, base, EntryPatch{}.Apply(base))
	})
}

func TestCategoryPatchApply(t *testing.T) {
	base := Category{ID: "work", Name: "Work", Color: "#3b82f6"}

	got := CategoryPatch{Name: Set("Deep Work"), WeeklyTargetHours: Set(20.0)}.Apply(base)
	assert.Equal(t, "Deep Work", got.Name)
	require.NotNil(t, got.WeeklyTargetHours)
	assert.Equal(t, 20.0, *got.WeeklyTargetHours)

	cleared := CategoryPatch{WeeklyTargetHours: Clear[float64]()}.Apply(got)
	assert.Nil(t, cleared.WeeklyTargetHours)
}
