// Package dates parses the relative and absolute date expressions accepted
// by --since/--until style flags.
//
// Accepted forms:
//
//	today, yesterday, now
//	7d, 2w, 1m (30 days), 1y (365 days)
//	2025-01-15, 2025/01/15, 01/15/2025, 15-01-2025, 2025-01-15 14:30:00
package dates

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultLayout is the layout used by Format when none is given.
const DefaultLayout = "2006-01-02"

// ErrUnrecognized is returned for expressions that match no accepted form.
var ErrUnrecognized = errors.New("unrecognized date format")

// unitDays is the length of one relative unit. Months and years are approximate.
var unitDays = map[byte]int{
	'd': 1,
	'w': 7,
	'm': 30,
	'y': 365,
}

var layouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"02-01-2006",
	"2006-01-02 15:04:05",
}

// Parse resolves s relative to now.
func Parse(s string, now time.Time) (time.Time, error) {
	s = strings.ToLower(strings.TrimSpace(s))

	switch s {
	case "today":
		return midnight(now), nil
	case "yesterday":
		return midnight(now).AddDate(0, 0, -1), nil
	case "now":
		return now, nil
	}

	if t, ok := parseRelative(s, now); ok {
		return t, nil
	}

	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, now.Location()); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q (expected 7d, 2w, 1m, 1y, today, yesterday, now or YYYY-MM-DD)", ErrUnrecognized, s)
}

// parseRelative handles "<N><unit>" expressions such as 7d or 2w.
func parseRelative(s string, now time.Time) (time.Time, bool) {
	if len(s) < 2 {
		return time.Time{}, false
	}
	days, ok := unitDays[s[len(s)-1]]
	if !ok {
		return time.Time{}, false
	}
	n, err := strconv.Atoi(s[:len(s)-1])
	if err != nil {
		return time.Time{}, false
	}
	return now.AddDate(0, 0, -n*days), true
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Range parses a start and end expression. An empty end means now.
func Range(start, end string, now time.Time) (time.Time, time.Time, error) {
	from, err := Parse(start, now)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parsing start: %w", err)
	}
	if end == "" {
		return from, now, nil
	}
	to, err := Parse(end, now)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parsing end: %w", err)
	}
	return from, to, nil
}

// Format renders t with layout, or DefaultLayout when layout is empty.
func Format(t time.Time, layout string) string {
	if layout == "" {
		layout = DefaultLayout
	}
	return t.Format(layout)
}

// FormatRange renders a range as "2025-01-01 to 2025-01-15".
func FormatRange(start, end time.Time) string {
	return Format(start, "") + " to " + Format(end, "")
}

// DaysBetween returns the number of whole days from start to end, counted
// on the wall clock of start's location and rounded down. It is negative
// when end is before start.
func DaysBetween(start, end time.Time) int {
	d := wallClock(end.In(start.Location())).Sub(wallClock(start))
	days := d / (24 * time.Hour)
	if d%(24*time.Hour) < 0 {
		days--
	}
	return int(days)
}

// wallClock re-reads t's calendar fields as UTC so that differences ignore
// DST transitions.
func wallClock(t time.Time) time.Time {
	y, m, d := t.Date()
	h, mi, sec := t.Clock()
	return time.Date(y, m, d, h, mi, sec, t.Nanosecond(), time.UTC)
}
