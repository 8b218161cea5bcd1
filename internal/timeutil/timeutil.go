package timeutil

import (
	"fmt"
	"time"
)

// HumanFormat is the display layout used wherever an instant is shown to a
// person. It is cosmetic: the RFC3339 form next to it is the source of truth.
const HumanFormat = "Monday, January 2, 2006 at 3:04 PM MST"

// ParseInstant parses a timestamp into an absolute instant. RFC3339 with an
// explicit offset is preferred; offset-less layouts fall back to UTC.
func ParseInstant(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("time value is required")
	}

	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}

	layouts := []string{
		"2006-01-02T15:04:05",
		"2006-01-02T15:04",
		"2006-01-02 15:04:05",
		"2006-01-02 15:04",
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse time: %s", value)
}

// FormatHuman renders an instant in the human display layout.
func FormatHuman(t time.Time) string {
	return t.Format(HumanFormat)
}

// FormatInstant renders the canonical, timezone-unambiguous form of t.
func FormatInstant(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
