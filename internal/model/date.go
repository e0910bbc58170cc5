package model

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the day-granularity ISO form used for every ledger date.
const DateLayout = "2006-01-02"

// timestampLayouts are the full ISO timestamp forms accepted besides a bare day.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// ParseDate accepts "YYYY-MM-DD" or a full ISO timestamp and keeps only the day.
func ParseDate(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if parsed, err := time.Parse(DateLayout, trimmed); err == nil {
		return parsed, nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, trimmed); err == nil {
			return time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedDate, value)
}

// NormalizeDate returns the canonical "YYYY-MM-DD" form of value.
func NormalizeDate(value string) (string, error) {
	parsed, err := ParseDate(value)
	if err != nil {
		return "", err
	}
	return FormatDate(parsed), nil
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
