package core

import (
	"fmt"
	"math"
	"strings"
)

// FormatOptions controls FormatDuration output.
type FormatOptions struct {
	// Short abbreviates unit names (y, mo, w, d, h, m, s), joins parts
	// with spaces and skips pluralization.
	Short bool
	// Round emits a single part: the largest unit the duration reaches,
	// rounded to the nearest integer. MaxUnits is ignored.
	Round bool
	// MaxUnits caps the number of parts emitted in greedy decomposition.
	// Zero means the default of 2.
	MaxUnits int
}

// Calendar-naive conversion constants, in seconds. A month is a flat 30
// days and a year 365; there is no leap handling.
var durationUnits = []struct {
	name string
	abbr string
	secs float64
}{
	{"year", "y", 31536000},
	{"month", "mo", 2592000},
	{"week", "w", 604800},
	{"day", "d", 86400},
	{"hour", "h", 3600},
	{"minute", "m", 60},
	{"second", "s", 1},
}

// FormatDuration renders a millisecond count as a human-readable string,
// e.g. FormatDuration(90000) == "1 minute, 30 seconds". Non-finite input
// yields "Invalid duration". Without Round, the absolute value is greedily
// decomposed largest unit first, flooring each part and carrying the
// remainder down, stopping after MaxUnits parts.
func FormatDuration(ms float64, opts ...FormatOptions) string {
	var o FormatOptions
	if len(opts) > 0 {
		o = opts[0]
	}

	if math.IsNaN(ms) || math.IsInf(ms, 0) {
		return "Invalid duration"
	}
	if ms == 0 {
		if o.Short {
			return "0s"
		}
		return "0 seconds"
	}

	secs := math.Abs(ms) / 1000

	if o.Round {
		for _, u := range durationUnits {
			if secs >= u.secs {
				return formatDurationPart(int64(math.Round(secs/u.secs)), u.name, u.abbr, o.Short)
			}
		}
		return subSecond(o.Short)
	}

	maxUnits := o.MaxUnits
	if maxUnits <= 0 {
		maxUnits = 2
	}

	var parts []string
	rem := secs
	for _, u := range durationUnits {
		if len(parts) >= maxUnits {
			break
		}
		n := math.Floor(rem / u.secs)
		if n < 1 {
			continue
		}
		parts = append(parts, formatDurationPart(int64(n), u.name, u.abbr, o.Short))
		rem -= n * u.secs
	}

	if len(parts) == 0 {
		return subSecond(o.Short)
	}
	if o.Short {
		return strings.Join(parts, " ")
	}
	return strings.Join(parts, ", ")
}

func formatDurationPart(n int64, name, abbr string, short bool) string {
	if short {
		return fmt.Sprintf("%d%s", n, abbr)
	}
	if n == 1 {
		return fmt.Sprintf("1 %s", name)
	}
	return fmt.Sprintf("%d %ss", n, name)
}

func subSecond(short bool) string {
	if short {
		return "< 1s"
	}
	return "less than 1 second"
}
