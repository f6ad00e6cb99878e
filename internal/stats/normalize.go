package stats

import (
	"strings"
	"time"

	"github.com/jinzhu/now"
)

const dateOnlyLayout = "2006-01-02"

// lenientFormats extends the stock format list with the zone-less ISO forms
// legacy treatment rows carry ("2024-06-10T23:00:00").
var lenientFormats = append([]string{"2006-01-02T15:04:05"}, now.TimeFormats...)

var lenient = &now.Config{
	TimeLocation: time.Local,
	TimeFormats:  lenientFormats,
}

// NormalizeDate converts the heterogeneous date representations found on
// records (a native time, an ISO date-time string, or a bare "YYYY-MM-DD")
// into a single in-memory instant.
//
// Bare date-only strings are pinned to local start-of-day rather than
// midnight UTC, so they compare correctly against the local day boundaries
// windows are built from. Strings carrying a time-of-day keep it. The second
// return is false when the value is absent or unparseable; callers skip such
// records rather than failing.
func NormalizeDate(v any) (time.Time, bool) {
	switch d := v.(type) {
	case time.Time:
		if d.IsZero() {
			return time.Time{}, false
		}
		return d, true
	case *time.Time:
		if d == nil || d.IsZero() {
			return time.Time{}, false
		}
		return *d, true
	case string:
		return normalizeString(d)
	default:
		return time.Time{}, false
	}
}

func normalizeString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	// Strict date-only form first: parsed in local time, not UTC.
	if t, err := time.ParseInLocation(dateOnlyLayout, s, time.Local); err == nil {
		return t, true
	}

	t, err := lenient.Parse(s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
