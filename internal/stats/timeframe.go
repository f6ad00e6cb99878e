package stats

import "fmt"

// TimeFrame is one of the named reporting windows offered by the stats
// endpoints.
type TimeFrame string

const (
	Frame1Day    TimeFrame = "1d"
	Frame1Week   TimeFrame = "1w"
	Frame1Month  TimeFrame = "1m"
	Frame6Months TimeFrame = "6m"
	Frame1Year   TimeFrame = "1y"
)

// DefaultTimeFrame is what the route layer falls back to when no frame was
// requested.
const DefaultTimeFrame = Frame1Month

// Unit is the calendar unit a window's length is expressed in.
type Unit string

const (
	UnitDay   Unit = "day"
	UnitMonth Unit = "month"
	UnitYear  Unit = "year"
)

// Interval is the granularity counts within a window are bucketed at.
type Interval string

const (
	IntervalHour  Interval = "hour"
	IntervalDay   Interval = "day"
	IntervalWeek  Interval = "week"
	IntervalMonth Interval = "month"
)

// TimeFrameConfig describes how one TimeFrame resolves into a window.
type TimeFrameConfig struct {
	Duration     int
	Unit         Unit
	Interval     Interval
	IncludeToday bool
}

// Frames holds the static config for every supported frame.
var Frames = map[TimeFrame]TimeFrameConfig{
	Frame1Day:    {Duration: 1, Unit: UnitDay, Interval: IntervalHour, IncludeToday: true},
	Frame1Week:   {Duration: 7, Unit: UnitDay, Interval: IntervalDay, IncludeToday: true},
	Frame1Month:  {Duration: 1, Unit: UnitMonth, Interval: IntervalDay, IncludeToday: true},
	Frame6Months: {Duration: 6, Unit: UnitMonth, Interval: IntervalWeek, IncludeToday: true},
	Frame1Year:   {Duration: 1, Unit: UnitYear, Interval: IntervalMonth, IncludeToday: true},
}

// ParseTimeFrame validates a raw token from the request.
func ParseTimeFrame(s string) (TimeFrame, error) {
	frame := TimeFrame(s)
	if _, ok := Frames[frame]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidTimeFrame, s)
	}
	return frame, nil
}
