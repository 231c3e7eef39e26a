// Package output renders tabular results for the console and exports them
// as CSV, JSON or YAML.
package output

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// FormatNumber formats n with thousands separators, e.g. "1,234,567".
func FormatNumber(n int64) string {
	return humanize.Comma(n)
}

// FormatPercent formats n/total as a percentage with the given number of
// decimals. It returns "N/A" when total is zero.
func FormatPercent(n, total int64, decimals int) string {
	if total == 0 {
		return "N/A"
	}
	return fmt.Sprintf("%.*f%%", decimals, float64(n)/float64(total)*100)
}

// FormatDuration formats d as seconds, minutes or hours with one decimal.
func FormatDuration(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	case d < time.Hour:
		return fmt.Sprintf("%.1fm", d.Minutes())
	default:
		return fmt.Sprintf("%.1fh", d.Hours())
	}
}
