package stats

import (
	"time"

	"github.com/jinzhu/now"
)

// BucketLabel maps an instant to the canonical label of its interval slot.
// Labels are built from local calendar fields, zero-padded, and sort
// lexicographically in chronological order:
//
//	hour  -> "2006-01-02 15:00"
//	day   -> "2006-01-02"
//	week  -> "2006-01-02" of the Monday starting the ISO week
//	month -> "2006-01"
//
// A Sunday belongs to the week whose Monday is six days earlier.
func BucketLabel(t time.Time, interval Interval) string {
	t = t.Local()
	switch interval {
	case IntervalHour:
		return t.Format("2006-01-02 15:00")
	case IntervalWeek:
		return now.With(t).Monday().Format("2006-01-02")
	case IntervalMonth:
		return t.Format("2006-01")
	default:
		return t.Format("2006-01-02")
	}
}
