package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeFrame(t *testing.T) {
	for _, token := range []string{"1d", "1w", "1m", "6m", "1y"} {
		frame, err := ParseTimeFrame(token)
		require.NoError(t, err, "token %q", token)
		assert.Equal(t, TimeFrame(token), frame)
	}

	for _, token := range []string{"", "2w", "1D", "week", "30d"} {
		_, err := ParseTimeFrame(token)
		assert.ErrorIs(t, err, ErrInvalidTimeFrame, "token %q", token)
	}
}

func TestFrameConfigs(t *testing.T) {
	tests := []struct {
		frame TimeFrame
		want  TimeFrameConfig
	}{
		{Frame1Day, TimeFrameConfig{Duration: 1, Unit: UnitDay, Interval: IntervalHour, IncludeToday: true}},
		{Frame1Week, TimeFrameConfig{Duration: 7, Unit: UnitDay, Interval: IntervalDay, IncludeToday: true}},
		{Frame1Month, TimeFrameConfig{Duration: 1, Unit: UnitMonth, Interval: IntervalDay, IncludeToday: true}},
		{Frame6Months, TimeFrameConfig{Duration: 6, Unit: UnitMonth, Interval: IntervalWeek, IncludeToday: true}},
		{Frame1Year, TimeFrameConfig{Duration: 1, Unit: UnitYear, Interval: IntervalMonth, IncludeToday: true}},
	}

	for _, tt := range tests {
		t.Run(string(tt.frame), func(t *testing.T) {
			cfg, ok := Frames[tt.frame]
			require.True(t, ok)
			assert.Equal(t, tt.want, cfg)
			assert.Greater(t, cfg.Duration, 0)
		})
	}
}
