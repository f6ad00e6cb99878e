package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDateNativeValues(t *testing.T) {
	instant := time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)

	got, ok := NormalizeDate(instant)
	require.True(t, ok)
	assert.True(t, got.Equal(instant), "native times pass through unchanged")

	got, ok = NormalizeDate(&instant)
	require.True(t, ok)
	assert.True(t, got.Equal(instant))
}

func TestNormalizeDateDateOnlyString(t *testing.T) {
	// Bare dates are pinned to local start-of-day, never midnight UTC.
	got, ok := NormalizeDate("2024-03-15")
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.Local), got)
}

func TestNormalizeDateStrings(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{
			name:  "RFC 3339 keeps its time of day",
			input: "2024-03-15T14:30:00Z",
			want:  time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC),
		},
		{
			name:  "RFC 3339 with offset",
			input: "2024-03-15T14:30:00+02:00",
			want:  time.Date(2024, 3, 15, 14, 30, 0, 0, time.FixedZone("", 2*60*60)),
		},
		{
			name:  "zone-less ISO date-time parses as local",
			input: "2024-06-10T23:00:00",
			want:  time.Date(2024, 6, 10, 23, 0, 0, 0, time.Local),
		},
		{
			name:  "space-separated date-time parses as local",
			input: "2024-06-10 23:00:00",
			want:  time.Date(2024, 6, 10, 23, 0, 0, 0, time.Local),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizeDate(tt.input)
			require.True(t, ok)
			assert.True(t, got.Equal(tt.want), "got %s, want %s", got, tt.want)
		})
	}
}

func TestNormalizeDateAbsentAndGarbage(t *testing.T) {
	inputs := []any{
		nil,
		"",
		"   ",
		"not-a-date",
		"2024-13-45",
		time.Time{},
		(*time.Time)(nil),
		42,
	}

	for _, input := range inputs {
		_, ok := NormalizeDate(input)
		assert.False(t, ok, "input %#v should be absent", input)
	}
}

// A normalized instant re-serialized to RFC 3339 and normalized again must
// denote the same instant.
func TestNormalizeDateStableUnderReserialization(t *testing.T) {
	inputs := []string{"2024-03-15T14:30:00Z", "2024-03-15", "2024-06-10T23:00:00"}

	for _, input := range inputs {
		first, ok := NormalizeDate(input)
		require.True(t, ok, "input %q", input)

		second, ok := NormalizeDate(first.Format(time.RFC3339))
		require.True(t, ok, "re-serialized %q", input)
		assert.True(t, first.Equal(second), "input %q drifted: %s vs %s", input, first, second)
	}
}
