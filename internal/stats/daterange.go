package stats

import (
	"fmt"
	"time"

	"github.com/jinzhu/now"
)

// DateRange is a reporting window plus the immediately preceding window of
// equal length. Both windows are aligned to local day boundaries.
type DateRange struct {
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	PreviousStart time.Time `json:"previousStart"`
	PreviousEnd   time.Time `json:"previousEnd"`
}

// ComputeRange resolves frame against the reference instant ref.
//
// Day-unit frames with IncludeToday span today plus the duration-1 preceding
// days, so a 7-day frame covers exactly one week ending today. Month and year
// frames subtract whole calendar units with the day clamped to the last valid
// day of the target month: one month back from March 31 is the end of
// February, never a fixed 30-day delta and never an overflow into March.
// The previous window ends 1ms before the current one starts and covers the
// same wall-clock span, then both bounds are snapped to day boundaries.
func ComputeRange(frame TimeFrame, ref time.Time) (DateRange, error) {
	cfg, ok := Frames[frame]
	if !ok {
		return DateRange{}, fmt.Errorf("%w: %q", ErrInvalidTimeFrame, frame)
	}

	var start time.Time
	switch cfg.Unit {
	case UnitDay:
		days := cfg.Duration
		if cfg.IncludeToday {
			days--
		}
		start = ref.AddDate(0, 0, -days)
	case UnitMonth:
		start = subtractMonths(ref, cfg.Duration)
	case UnitYear:
		start = subtractMonths(ref, 12*cfg.Duration)
	}
	start = StartOfDay(start)

	end := ref
	if !cfg.IncludeToday {
		end = ref.AddDate(0, 0, -1)
	}
	end = EndOfDay(end)

	span := end.Sub(start)
	previousEnd := start.Add(-time.Millisecond)
	previousStart := previousEnd.Add(-span)

	return DateRange{
		Start:         start,
		End:           end,
		PreviousStart: StartOfDay(previousStart),
		PreviousEnd:   EndOfDay(previousEnd),
	}, nil
}

// subtractMonths moves t back by the given number of whole calendar months,
// clamping the day-of-month to the last day of the target month instead of
// letting it roll over into the following one.
func subtractMonths(t time.Time, months int) time.Time {
	first := time.Date(t.Year(), t.Month(), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	first = first.AddDate(0, -months, 0)

	day := t.Day()
	if last := first.AddDate(0, 1, -1).Day(); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// StartOfDay floors t to 00:00:00.000 local time.
func StartOfDay(t time.Time) time.Time {
	return now.With(t.Local()).BeginningOfDay()
}

// EndOfDay ceils t to 23:59:59.999 local time. The ceiling is millisecond-
// precise so that a window's end sits exactly 1ms before the next day.
func EndOfDay(t time.Time) time.Time {
	t = t.Local()
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Millisecond), t.Location())
}
