package core

import (
	"errors"
	"testing"
)

func entry(id string, start int64, end *int64) TimeEntry {
	return TimeEntry{ID: id, Description: "work", StartTime: start, EndTime: end}
}

func millis(v int64) *int64 { return &v }

func TestValidateSingleRunningEntry(t *testing.T) {
	tests := []struct {
		name        string
		entries     []TimeEntry
		wantRunning int
	}{
		{name: "empty", entries: nil},
		{name: "all completed", entries: []TimeEntry{
			entry("a", 100, millis(200)),
			entry("b", 300, millis(400)),
		}},
		{name: "one running", entries: []TimeEntry{
			entry("a", 100, millis(200)),
			entry("b", 300, nil),
		}},
		{name: "two running", entries: []TimeEntry{
			entry("a", 100, nil),
			entry("b", 300, nil),
		}, wantRunning: 2},
		{name: "three running", entries: []TimeEntry{
			entry("a", 100, nil),
			entry("b", 300, nil),
			entry("c", 500, nil),
		}, wantRunning: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSingleRunningEntry(tt.entries)
			if tt.wantRunning == 0 {
				if err != nil {
					t.Fatalf("ValidateSingleRunningEntry() = %v, want nil", err)
				}
				return
			}
			var mre *MultipleRunningError
			if !errors.As(err, &mre) {
				t.Fatalf("ValidateSingleRunningEntry() = %v, want MultipleRunningError", err)
			}
			if mre.Count != tt.wantRunning {
				t.Errorf("running count = %d, want %d", mre.Count, tt.wantRunning)
			}
		})
	}
}
