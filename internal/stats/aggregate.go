package stats

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// PeriodBucket is one grouping-interval slot and its record count.
type PeriodBucket struct {
	Period string `json:"period"`
	Count  int    `json:"count"`
}

// WindowStats holds one window's bucketed counts.
type WindowStats struct {
	Buckets []PeriodBucket `json:"buckets"`
	Total   int            `json:"total"`
}

// TimeSeriesStats is the full comparative result for one time frame.
// It is computed fresh per request and never persisted.
type TimeSeriesStats struct {
	TimeFrame TimeFrame   `json:"timeFrame"`
	Current   WindowStats `json:"current"`
	Previous  WindowStats `json:"previous"`
	Change    float64     `json:"change"`
}

// CountStats is the scalar, ungrouped variant used by the overview.
type CountStats struct {
	Current  int     `json:"current"`
	Previous int     `json:"previous"`
	Change   float64 `json:"change"`
}

// OverviewStats compares patient and treatment volumes for one frame.
type OverviewStats struct {
	TimeFrame  TimeFrame  `json:"timeFrame"`
	Patients   CountStats `json:"patients"`
	Treatments CountStats `json:"treatments"`
}

// Aggregate partitions records into the frame's current and previous windows,
// groups each partition at the frame's interval and derives the percentage
// change between the two totals.
//
// dateOf extracts the record's date-bearing field; its value goes through
// NormalizeDate, so native times and both string forms are accepted. Records
// whose date is absent or unparseable are skipped; a bad row never fails the
// whole aggregation. Window membership is by calendar day: a record anywhere
// inside the start bound's day counts, whatever wall-clock time the bound
// itself carries.
func Aggregate[T any](records []T, dateOf func(T) any, frame TimeFrame, ref time.Time) (*TimeSeriesStats, error) {
	cfg, ok := Frames[frame]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimeFrame, frame)
	}
	r, err := ComputeRange(frame, ref)
	if err != nil {
		return nil, err
	}

	current := newWindowCounter(cfg.Interval)
	previous := newWindowCounter(cfg.Interval)
	for _, rec := range records {
		d, ok := NormalizeDate(dateOf(rec))
		if !ok {
			continue
		}
		switch {
		case withinDays(d, r.Start, r.End):
			current.add(d)
		case withinDays(d, r.PreviousStart, r.PreviousEnd):
			previous.add(d)
		}
	}

	return &TimeSeriesStats{
		TimeFrame: frame,
		Current:   current.stats(),
		Previous:  previous.stats(),
		Change:    PercentChange(current.total, previous.total),
	}, nil
}

// CountWindow counts the records whose normalized date falls inside [lo, hi]
// by calendar day.
func CountWindow[T any](records []T, dateOf func(T) any, lo, hi time.Time) int {
	n := 0
	for _, rec := range records {
		if d, ok := NormalizeDate(dateOf(rec)); ok && withinDays(d, lo, hi) {
			n++
		}
	}
	return n
}

// Compare derives the scalar current/previous counts for one record set
// against an already computed range.
func Compare[T any](records []T, dateOf func(T) any, r DateRange) CountStats {
	current := CountWindow(records, dateOf, r.Start, r.End)
	previous := CountWindow(records, dateOf, r.PreviousStart, r.PreviousEnd)
	return CountStats{
		Current:  current,
		Previous: previous,
		Change:   PercentChange(current, previous),
	}
}

// PercentChange returns the period-over-period change in percent, rounded
// half away from zero to two decimals. A previous total of zero yields 100
// when anything was counted now and 0 otherwise.
func PercentChange(current, previous int) float64 {
	if previous > 0 {
		pct := (float64(current) - float64(previous)) / float64(previous) * 100
		return math.Round(pct*100) / 100
	}
	if current > 0 {
		return 100
	}
	return 0
}

func withinDays(t, lo, hi time.Time) bool {
	d := StartOfDay(t)
	return !d.Before(StartOfDay(lo)) && !d.After(EndOfDay(hi))
}

type windowCounter struct {
	interval Interval
	counts   map[string]int
	total    int
}

func newWindowCounter(interval Interval) *windowCounter {
	return &windowCounter{interval: interval, counts: make(map[string]int)}
}

func (w *windowCounter) add(t time.Time) {
	w.counts[BucketLabel(t, w.interval)]++
	w.total++
}

func (w *windowCounter) stats() WindowStats {
	buckets := make([]PeriodBucket, 0, len(w.counts))
	for period, count := range w.counts {
		buckets = append(buckets, PeriodBucket{Period: period, Count: count})
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Period < buckets[j].Period
	})
	return WindowStats{Buckets: buckets, Total: w.total}
}
