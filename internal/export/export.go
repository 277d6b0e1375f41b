// Package export renders time entries as downloadable CSV or JSON
// documents matching the formats the web UI has always produced.
package export

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mauricedesaxe/time-tracker/internal/core"
)

// Format is an export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// CSVHeader is the fixed column header of CSV exports.
const CSVHeader = "Date,Start Time,End Time,Category,Description"

// ParseFormat maps a user-supplied format name to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", s)
	}
}

// MIME returns the content type served with the export.
func (f Format) MIME() string {
	if f == FormatCSV {
		return "text/csv"
	}
	return "application/json"
}

// Filename returns the download name, e.g.
// time-tracker-export-2026-08-28.csv.
func (f Format) Filename(now time.Time) string {
	return fmt.Sprintf("time-tracker-export-%s.%s", now.UTC().Format("2006-01-02"), f)
}

// Entries renders the entries in the requested format. Categories are
// used to resolve category ids to display names.
func Entries(f Format, entries []core.TimeEntry, categories map[string]core.Category) ([]byte, error) {
	switch f {
	case FormatCSV:
		return entriesCSV(entries, categories), nil
	case FormatJSON:
		return entriesJSON(entries, categories)
	default:
		return nil, fmt.Errorf("unsupported export format %q", f)
	}
}

// jsonEntry augments a TimeEntry with its resolved category name. The
// category is null, not omitted, when unresolved.
type jsonEntry struct {
	core.TimeEntry
	Category *string `json:"category"`
}

func entriesJSON(entries []core.TimeEntry, categories map[string]core.Category) ([]byte, error) {
	out := make([]jsonEntry, len(entries))
	for i, e := range entries {
		je := jsonEntry{TimeEntry: e}
		if name, ok := resolveCategory(e.CategoryID, categories); ok {
			je.Category = &name
		}
		out[i] = je
	}
	return json.MarshalIndent(out, "", "  ")
}

func entriesCSV(entries []core.TimeEntry, categories map[string]core.Category) []byte {
	rows := make([]core.TimeEntry, len(entries))
	copy(rows, entries)
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].StartTime > rows[j].StartTime
	})

	var b strings.Builder
	b.WriteString(CSVHeader)
	b.WriteByte('\n')
	for _, e := range rows {
		start := time.UnixMilli(e.StartTime).UTC()
		end := ""
		if e.EndTime != nil {
			end = isoTimestamp(time.UnixMilli(*e.EndTime))
		}
		category := ""
		if name, ok := resolveCategory(e.CategoryID, categories); ok {
			category = name
		}
		// Only the description is quoted; the remaining fields are
		// machine-generated and comma-free.
		b.WriteString(strings.Join([]string{
			start.Format("2006-01-02"),
			isoTimestamp(start),
			end,
			category,
			quoteDescription(e.Description),
		}, ","))
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

func isoTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}

// quoteDescription wraps the description in double quotes, doubling any
// embedded quote per CSV convention.
func quoteDescription(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func resolveCategory(id string, categories map[string]core.Category) (string, bool) {
	if id == "" {
		return "", false
	}
	if id == core.RunningCategoryID {
		return core.RunningCategory().Name, true
	}
	c, ok := categories[id]
	if !ok {
		return "", false
	}
	return c.Name, true
}
