package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	date any
}

func recordDate(r record) any { return r.date }

func TestAggregateGroupsMixedDateForms(t *testing.T) {
	ref := time.Date(2024, 6, 15, 10, 0, 0, 0, time.Local)
	records := []record{
		{date: "2024-06-10"},
		{date: "2024-06-10T23:00:00"},
		{date: "2024-06-11"},
	}

	got, err := Aggregate(records, recordDate, Frame1Week, ref)
	require.NoError(t, err)

	assert.Equal(t, Frame1Week, got.TimeFrame)
	assert.Equal(t, []PeriodBucket{
		{Period: "2024-06-10", Count: 2},
		{Period: "2024-06-11", Count: 1},
	}, got.Current.Buckets)
	assert.Equal(t, 3, got.Current.Total)
	assert.Equal(t, 0, got.Previous.Total)
	assert.Empty(t, got.Previous.Buckets)
	assert.Equal(t, float64(100), got.Change)
}

func TestAggregatePartitionsIntoPreviousWindow(t *testing.T) {
	ref := time.Date(2024, 6, 15, 10, 0, 0, 0, time.Local)
	records := []record{
		// current window, Jun 9 through Jun 15
		{date: "2024-06-15"},
		{date: "2024-06-09"},
		// previous window, Jun 2 through Jun 8
		{date: "2024-06-08"},
		{date: "2024-06-02"},
		{date: time.Date(2024, 6, 5, 9, 0, 0, 0, time.Local)},
		// outside both windows, or unusable
		{date: "2024-06-01"},
		{date: "definitely not a date"},
		{date: nil},
	}

	got, err := Aggregate(records, recordDate, Frame1Week, ref)
	require.NoError(t, err)

	assert.Equal(t, 2, got.Current.Total)
	assert.Equal(t, 3, got.Previous.Total)
	assert.Equal(t, []PeriodBucket{
		{Period: "2024-06-02", Count: 1},
		{Period: "2024-06-05", Count: 1},
		{Period: "2024-06-08", Count: 1},
	}, got.Previous.Buckets)
	// (2-3)/3 = -33.33%
	assert.InDelta(t, -33.33, got.Change, 0.001)
}

func TestAggregateHourlyBuckets(t *testing.T) {
	ref := time.Date(2024, 6, 15, 18, 0, 0, 0, time.Local)
	records := []record{
		{date: "2024-06-15T09:15:00"},
		{date: time.Date(2024, 6, 15, 9, 45, 0, 0, time.Local)},
		{date: "2024-06-15T14:05:00"},
	}

	got, err := Aggregate(records, recordDate, Frame1Day, ref)
	require.NoError(t, err)

	assert.Equal(t, []PeriodBucket{
		{Period: "2024-06-15 09:00", Count: 2},
		{Period: "2024-06-15 14:00", Count: 1},
	}, got.Current.Buckets)
}

func TestAggregateEmptyInput(t *testing.T) {
	got, err := Aggregate(nil, recordDate, Frame1Month, time.Date(2024, 6, 15, 10, 0, 0, 0, time.Local))
	require.NoError(t, err)

	assert.Equal(t, 0, got.Current.Total)
	assert.Equal(t, 0, got.Previous.Total)
	assert.Empty(t, got.Current.Buckets)
	assert.Equal(t, float64(0), got.Change)
}

func TestAggregateUnknownFrame(t *testing.T) {
	_, err := Aggregate([]record{{date: "2024-06-10"}}, recordDate, TimeFrame("14d"), time.Now())
	assert.ErrorIs(t, err, ErrInvalidTimeFrame)
}

func TestCountWindowByCalendarDay(t *testing.T) {
	// Bounds carry wall-clock times; membership still counts whole days.
	lo := time.Date(2024, 6, 10, 15, 30, 0, 0, time.Local)
	hi := time.Date(2024, 6, 12, 8, 0, 0, 0, time.Local)
	records := []record{
		{date: "2024-06-10T09:00:00"}, // earlier than lo's clock, same day: counts
		{date: "2024-06-12T23:30:00"}, // later than hi's clock, same day: counts
		{date: "2024-06-09"},          // day before lo
		{date: "2024-06-13"},          // day after hi
	}

	assert.Equal(t, 2, CountWindow(records, recordDate, lo, hi))
}

func TestCompare(t *testing.T) {
	r := DateRange{
		Start:         time.Date(2024, 6, 9, 0, 0, 0, 0, time.Local),
		End:           time.Date(2024, 6, 15, 23, 59, 59, endOfDayNanos, time.Local),
		PreviousStart: time.Date(2024, 6, 2, 0, 0, 0, 0, time.Local),
		PreviousEnd:   time.Date(2024, 6, 8, 23, 59, 59, endOfDayNanos, time.Local),
	}
	records := []record{
		{date: "2024-06-14"},
		{date: "2024-06-10"},
		{date: "2024-06-03"},
	}

	got := Compare(records, recordDate, r)

	assert.Equal(t, 2, got.Current)
	assert.Equal(t, 1, got.Previous)
	assert.Equal(t, float64(100), got.Change)
}

func TestPercentChange(t *testing.T) {
	tests := []struct {
		name     string
		current  int
		previous int
		want     float64
	}{
		{"growth from zero is pinned to 100", 10, 0, 100},
		{"zero over zero is flat", 0, 0, 0},
		{"halving", 5, 10, -50},
		{"doubling", 10, 5, 100},
		{"repeating decimal rounds to two places", 1, 3, -66.67},
		{"small growth", 101, 100, 1},
		{"drop to zero", 0, 4, -100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PercentChange(tt.current, tt.previous))
		})
	}
}
