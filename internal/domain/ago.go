package domain

import (
	"fmt"
	"time"
)

// ShortDate formats t as dd/mm/yy, the date style used across the card.
func ShortDate(t time.Time) string {
	return t.Format("02/01/06")
}

// TimeAgo renders the "Updated …" label for a modification at then, seen at now.
// Anything a month or older falls back to an absolute date.
func TimeAgo(then, now time.Time) string {
	d := now.Sub(then)
	if d < 0 {
		d = 0
	}
	sec := int(d / time.Second)
	min := sec / 60
	hr := min / 60
	day := hr / 24
	switch {
	case sec < 60:
		return "Just now"
	case min < 60:
		return fmt.Sprintf("%d min ago", min)
	case hr < 24:
		if hr == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hr)
	case day < 30:
		if day == 1 {
			return "1 day ago"
		}
		return fmt.Sprintf("%d days ago", day)
	}
	return "Last " + ShortDate(then)
}
