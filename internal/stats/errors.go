package stats

import "errors"

var (
	// ErrInvalidTimeFrame is returned for a time-frame token outside the
	// five supported ones. Callers should treat it as client input error.
	ErrInvalidTimeFrame = errors.New("invalid time frame")

	// ErrDataSourceUnavailable is returned when the backing record source
	// cannot be reached or was never wired. No retries happen here.
	ErrDataSourceUnavailable = errors.New("data source unavailable")
)
