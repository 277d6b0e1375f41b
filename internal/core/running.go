package core

import "fmt"

// MultipleRunningError reports a violation of the single running timer
// rule: more than one entry with no end time.
type MultipleRunningError struct {
	Count int
}

func (e *MultipleRunningError) Error() string {
	return fmt.Sprintf("invariant violated: %d running entries, want at most 1", e.Count)
}

// CountRunning returns how many entries have no end time.
func CountRunning(entries []TimeEntry) int {
	n := 0
	for _, e := range entries {
		if e.IsRunning() {
			n++
		}
	}
	return n
}

// ValidateSingleRunningEntry checks the single running timer rule over a
// snapshot of entries. It detects violations only; it never corrects
// them, since discarding a running entry could lose user data. Zero or
// one running entry is valid.
func ValidateSingleRunningEntry(entries []TimeEntry) error {
	if n := CountRunning(entries); n > 1 {
		return &MultipleRunningError{Count: n}
	}
	return nil
}
