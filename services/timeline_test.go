package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateProgress(t *testing.T) {
	start := utcDate(2025, time.March, 3)

	cases := []struct {
		name string
		asOf time.Time
		week int
		day  int
	}{
		{"start day", utcDate(2025, time.March, 3), 1, 1},
		{"sixth day", utcDate(2025, time.March, 8), 1, 6},
		{"first exam day", utcDate(2025, time.March, 9), 1, 7},
		{"start of week two", utcDate(2025, time.March, 10), 2, 1},
		{"mid week five", utcDate(2025, time.April, 2), 5, 3},
		{"before start clamps to day one", utcDate(2025, time.February, 20), 1, 1},
		{"past the course end keeps counting", utcDate(2025, time.June, 2), 14, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := CalculateProgress(start, tc.asOf)
			assert.Equal(t, tc.week, p.Week)
			assert.Equal(t, tc.day, p.Day)
		})
	}
}

func TestCalculateProgressIgnoresTimeOfDay(t *testing.T) {
	start := time.Date(2025, time.March, 3, 23, 59, 0, 0, time.UTC)
	asOf := time.Date(2025, time.March, 4, 0, 1, 0, 0, time.UTC)

	p := CalculateProgress(start, asOf)
	assert.Equal(t, 1, p.Week)
	assert.Equal(t, 2, p.Day)
}

func TestDaysSinceStart(t *testing.T) {
	start := utcDate(2025, time.March, 3)

	assert.Equal(t, 0, DaysSinceStart(start, utcDate(2025, time.March, 3)))
	assert.Equal(t, 7, DaysSinceStart(start, utcDate(2025, time.March, 10)))
	assert.Equal(t, 0, DaysSinceStart(start, utcDate(2025, time.March, 1)))
}

func TestDayIndex(t *testing.T) {
	assert.Equal(t, 0, DayIndex(1, 1))
	assert.Equal(t, 6, DayIndex(1, 7))
	assert.Equal(t, 7, DayIndex(2, 1))
	assert.Equal(t, 83, DayIndex(12, 7))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-03-03")
	require.NoError(t, err)
	assert.Equal(t, utcDate(2025, time.March, 3), d)

	for _, bad := range []string{"03-03-2025", "2025/03/03", "2025-3-3", "not-a-date", ""} {
		_, err := ParseDate(bad)
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr, "input %q", bad)
	}
}

func TestDateStringRoundTrip(t *testing.T) {
	now := time.Date(2025, time.March, 3, 18, 45, 12, 0, time.UTC)
	assert.Equal(t, "2025-03-03", DateString(now))
	assert.Equal(t, utcDate(2025, time.March, 3), UTCMidnight(now))
}
