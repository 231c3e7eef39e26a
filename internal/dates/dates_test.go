package dates

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 3, 15, 14, 30, 45, 0, time.UTC)

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"today", time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"  Yesterday ", time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)},
		{"now", now},
		{"7d", now.AddDate(0, 0, -7)},
		{"2w", now.AddDate(0, 0, -14)},
		{"1m", now.AddDate(0, 0, -30)},
		{"3M", now.AddDate(0, 0, -90)},
		{"1y", now.AddDate(0, 0, -365)},
		{"1000y", time.Date(1025, 11, 13, 14, 30, 45, 0, time.UTC)},
		{"0d", now},
		{"2025-01-15", time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"2025/01/15", time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"01/15/2025", time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"15-01-2025", time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"2025-01-15 14:30:00", time.Date(2025, 1, 15, 14, 30, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Parse(tt.input, now)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s, want %s", got, tt.want)
		})
	}
}

func TestParseInvalid(t *testing.T) {
	for _, input := range []string{"", "d", "xd", "soon", "2025-13-45", "7h"} {
		_, err := Parse(input, now)
		assert.ErrorIs(t, err, ErrUnrecognized, "input %q", input)
	}
}

func TestParseKeepsLocation(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	got, err := Parse("today", now.In(loc))
	require.NoError(t, err)
	assert.Equal(t, loc, got.Location())
	assert.Equal(t, 0, got.Hour())
}

func TestParseRelativeAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// 2025-03-09 is 23 hours long in New York.
	at := time.Date(2025, 3, 10, 0, 0, 0, 0, loc)
	got, err := Parse("1d", at)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-09", Format(got, ""))
	assert.Equal(t, 0, got.Hour())
	assert.Equal(t, 1, DaysBetween(got, at))
}

func TestDaysBetweenRoundsDown(t *testing.T) {
	tests := []struct {
		name string
		end  time.Time
		want int
	}{
		{"same instant", now, 0},
		{"half day later", now.Add(12 * time.Hour), 0},
		{"half day earlier", now.Add(-12 * time.Hour), -1},
		{"one day earlier", now.AddDate(0, 0, -1), -1},
		{"just over a day earlier", now.AddDate(0, 0, -1).Add(-time.Second), -2},
		{"thirty days later", now.AddDate(0, 0, 30), 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysBetween(now, tt.end))
		})
	}
}

func TestRange(t *testing.T) {
	start, end, err := Range("7d", "", now)
	require.NoError(t, err)
	assert.Equal(t, now, end)
	assert.Equal(t, 7, DaysBetween(start, end))

	start, end, err = Range("2025-01-01", "2025-01-15", now)
	require.NoError(t, err)
	assert.Equal(t, "2025-01-01 to 2025-01-15", FormatRange(start, end))
	assert.Equal(t, 14, DaysBetween(start, end))
	assert.Equal(t, -14, DaysBetween(end, start))

	_, _, err = Range("7d", "later", now)
	assert.ErrorIs(t, err, ErrUnrecognized)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "2025-03-15", Format(now, ""))
	assert.Equal(t, "2025-03-15 14:30", Format(now, "2006-01-02 15:04"))
}
