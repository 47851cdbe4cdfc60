package utils

import (
	"fmt"
	"time"
)

// FormatDuration renders a length in seconds as m:ss, or h:mm:ss once the
// video is an hour or longer. Negative input is treated as zero.
func FormatDuration(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}

	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}

// FormatDate renders a unix timestamp as a long-form date, e.g.
// "January 2, 2006".
func FormatDate(unix int64) string {
	return time.Unix(unix, 0).UTC().Format("January 2, 2006")
}
