package utils

import (
	"fmt"
	"time"
)

// DateLayout is the calendar date format accepted and produced by the API
const DateLayout = "2006-01-02"

// ParseDate accepts either a calendar date or an RFC 3339 timestamp and
// returns the calendar day at midnight UTC.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return TruncateDate(t), nil
}

// TruncateDate returns midnight UTC of t's calendar date.
func TruncateDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
