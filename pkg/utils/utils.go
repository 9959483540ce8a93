package utils

import (
	"fmt"
	"time"
)

// FormatDuration renders a duration as "1h 45m 30s", omitting zero units but
// always showing at least seconds. Negative durations render as "0s".
func FormatDuration(d time.Duration) string {
	total := int64(d.Seconds())
	if total <= 0 {
		return "0s"
	}

	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60

	out := ""
	if hours > 0 {
		out += fmt.Sprintf("%dh ", hours)
	}
	if minutes > 0 {
		out += fmt.Sprintf("%dm ", minutes)
	}
	if seconds > 0 || out == "" {
		out += fmt.Sprintf("%ds ", seconds)
	}

	return out[:len(out)-1]
}

// FormatRoundedUnit renders a second count in its single largest unit,
// for compact one-cell display.
func FormatRoundedUnit(seconds int64) string {
	if seconds < 0 {
		seconds = -seconds
	}
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}
	if seconds > 3600 {
		return fmt.Sprintf("%dh", seconds/3600)
	}
	return fmt.Sprintf("%dm", seconds/60)
}
