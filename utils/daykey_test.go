package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatDayKey(t *testing.T) {
	tests := []struct {
		name     string
		input    time.Time
		expected string
	}{
		{
			name:     "zero-pads month and day",
			input:    time.Date(2026, 3, 7, 15, 4, 5, 0, time.UTC),
			expected: "2026-03-07",
		},
		{
			name:     "converts non-UTC times to the UTC calendar day",
			input:    time.Date(2026, 1, 1, 1, 0, 0, 0, time.FixedZone("east", 2*60*60)),
			expected: "2025-12-31",
		},
		{
			name:     "midnight stays on its own day",
			input:    time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
			expected: "2026-09-01",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatDayKey(tt.input))
		})
	}
}

func TestParseDayKeyToDate(t *testing.T) {
	parsed, err := ParseDayKeyToDate("2026-03-07")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC), parsed)

	for _, bad := range []string{"2026-03", "not-a-day-key", "2026-xx-07", ""} {
		_, err := ParseDayKeyToDate(bad)
		assert.Error(t, err, "expected error for %q", bad)
	}
}

func TestParseFormatRoundTrip(t *testing.T) {
	original := "2026-09-01"
	parsed, err := ParseDayKeyToDate(original)
	require.NoError(t, err)
	assert.Equal(t, original, FormatDayKey(parsed))
}

func TestGetDayKeysForRange(t *testing.T) {
	start := time.Date(2026, 2, 27, 10, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 2, 23, 59, 0, 0, time.UTC)

	keys := GetDayKeysForRange(start, end)
	assert.Equal(t, []string{"2026-02-27", "2026-02-28", "2026-03-01", "2026-03-02"}, keys)
}

func TestGetDayKeysForRangeSingleDay(t *testing.T) {
	day := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	keys := GetDayKeysForRange(day, day)
	assert.Equal(t, []string{"2026-09-01"}, keys)
}

func TestGetDayKeysForRangeReversed(t *testing.T) {
	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	assert.Nil(t, GetDayKeysForRange(start, end))
}

func TestDayKeyInRange(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 5, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		dayKey   string
		expected bool
	}{
		{"2026-03-01", true}, // start boundary
		{"2026-03-05", true}, // end boundary
		{"2026-03-03", true},
		{"2026-02-28", false},
		{"2026-03-06", false},
		{"garbage", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, DayKeyInRange(tt.dayKey, start, end), "dayKey %s", tt.dayKey)
	}
}
