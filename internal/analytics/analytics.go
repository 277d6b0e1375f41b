// Package analytics buckets completed time entries into the time
// windows the dashboard charts render. It only reads store snapshots.
package analytics

import (
	"math"
	"time"

	"github.com/mauricedesaxe/time-tracker/internal/core"
)

// UncategorizedKey buckets entries that have no category id.
const UncategorizedKey = "uncategorized"

const (
	trailingDays  = 7
	trailingWeeks = 6
)

// DayBucket holds per-category hour totals for one local calendar day.
type DayBucket struct {
	Date  string             `json:"date"`
	Hours map[string]float64 `json:"hours"`
}

// WeekBucket holds per-category hour totals for one Sunday-start week.
type WeekBucket struct {
	WeekStart string             `json:"weekStart"`
	Hours     map[string]float64 `json:"hours"`
}

// CurrentWeek sums completed-entry hours per category for the calendar
// week containing now. Weeks start Sunday, local time.
func CurrentWeek(entries []core.TimeEntry, now time.Time) map[string]float64 {
	start := weekStart(now)
	end := start.AddDate(0, 0, 7)

	sums := make(map[string]int64)
	for _, e := range completedIn(entries, start, end) {
		sums[categoryKey(e)] += e.DurationMillis(now)
	}
	return roundAll(sums)
}

// TrailingDayTotals returns one bucket per day for the trailing 7 days,
// oldest first, with per-category hour totals. Days with no activity
// yield empty (not nil) hour maps so charts can render gaps.
func TrailingDayTotals(entries []core.TimeEntry, now time.Time) []DayBucket {
	first := dayStart(now).AddDate(0, 0, -(trailingDays - 1))

	buckets := make([]DayBucket, trailingDays)
	sums := make([]map[string]int64, trailingDays)
	for i := range buckets {
		day := first.AddDate(0, 0, i)
		buckets[i] = DayBucket{Date: day.Format("2006-01-02")}
		sums[i] = make(map[string]int64)
	}

	end := dayStart(now).AddDate(0, 0, 1)
	for _, e := range completedIn(entries, first, end) {
		i := daysBetween(first, dayStart(e.Start()))
		if i >= trailingDays {
			continue
		}
		sums[i][categoryKey(e)] += e.DurationMillis(now)
	}

	for i := range buckets {
		buckets[i].Hours = roundAll(sums[i])
	}
	return buckets
}

// TrailingWeekTotals returns one bucket per Sunday-start week for the
// trailing 6 weeks, oldest first.
func TrailingWeekTotals(entries []core.TimeEntry, now time.Time) []WeekBucket {
	first := weekStart(now).AddDate(0, 0, -7*(trailingWeeks-1))

	buckets := make([]WeekBucket, trailingWeeks)
	sums := make([]map[string]int64, trailingWeeks)
	for i := range buckets {
		ws := first.AddDate(0, 0, 7*i)
		buckets[i] = WeekBucket{WeekStart: ws.Format("2006-01-02")}
		sums[i] = make(map[string]int64)
	}

	end := weekStart(now).AddDate(0, 0, 7)
	for _, e := range completedIn(entries, first, end) {
		i := daysBetween(first, weekStart(e.Start())) / 7
		if i >= trailingWeeks {
			continue
		}
		sums[i][categoryKey(e)] += e.DurationMillis(now)
	}

	for i := range buckets {
		buckets[i].Hours = roundAll(sums[i])
	}
	return buckets
}

// completedIn filters to completed entries whose start falls in
// [from, to). An entry belongs wholly to the bucket its start is in.
func completedIn(entries []core.TimeEntry, from, to time.Time) []core.TimeEntry {
	var out []core.TimeEntry
	for _, e := range entries {
		if e.IsRunning() {
			continue
		}
		start := e.Start()
		if start.Before(from) || !start.Before(to) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func categoryKey(e core.TimeEntry) string {
	if e.CategoryID == "" {
		return UncategorizedKey
	}
	return e.CategoryID
}

// Hours converts a millisecond total to hours rounded to one decimal
// for display.
func Hours(ms int64) float64 {
	return math.Round(float64(ms)/3_600_000*10) / 10
}

func roundAll(sums map[string]int64) map[string]float64 {
	out := make(map[string]float64, len(sums))
	for k, ms := range sums {
		out[k] = Hours(ms)
	}
	return out
}

// weekStart returns local midnight of the Sunday of t's week.
func weekStart(t time.Time) time.Time {
	d := dayStart(t)
	return d.AddDate(0, 0, -int(d.Weekday()))
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// daysBetween counts calendar days from a to b, both local midnights.
// AddDate instead of Sub keeps DST transitions from skewing the count.
func daysBetween(a, b time.Time) int {
	n := 0
	for cur := a; cur.Before(b); cur = cur.AddDate(0, 0, 1) {
		n++
	}
	return n
}
