package cleaning

import (
	"strings"
	"time"
)

// dateLayouts lists the textual date forms seen in CORD-19 metadata exports,
// most common first. Year-only and year-month entries resolve to the first
// day of the period.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"January 2, 2006",
	"Jan 2, 2006",
	"2006 Jan 2",
	"2006-01",
	"2006",
}

// ParseDate parses a raw publish date best-effort. It returns nil for empty
// input or when no layout matches.
func ParseDate(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}
