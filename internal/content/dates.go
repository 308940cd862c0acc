package content

import (
	"fmt"
	"strings"
	"time"
)

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// ParseDate accepts a bare date (midnight UTC) or an ISO date-time.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if !strings.Contains(s, "T") {
		return time.Parse("2006-01-02", s)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("content: unrecognized date %q", s)
}

// FormatDate renders date as "Jan 2, 2006". With relative set, a coarse age
// relative to now is appended, e.g. "Mar 1, 2024 (2mo ago)". The age compares
// calendar components, so it reports the first non-zero of years, months and
// days in that order.
func FormatDate(date string, now time.Time, relative bool) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	full := t.Format("Jan 2, 2006")
	if !relative {
		return full, nil
	}

	var ago string
	years := now.Year() - t.Year()
	months := int(now.Month()) - int(t.Month())
	days := now.Day() - t.Day()
	switch {
	case years > 0:
		ago = fmt.Sprintf("%dy ago", years)
	case months > 0:
		ago = fmt.Sprintf("%dmo ago", months)
	case days > 0:
		ago = fmt.Sprintf("%dd ago", days)
	default:
		ago = "Today"
	}
	return fmt.Sprintf("%s (%s)", full, ago), nil
}
