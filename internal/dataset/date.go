package dataset

import (
	"strings"
	"time"
)

// dateLayouts are the accepted spellings of a calendar date
//
//nolint:gochecknoglobals // fixed layout table
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"01/02/2006",
}

// ParseDate parses a calendar date in any accepted layout
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseDateValue parses a date from a string value; other kinds fail
func ParseDateValue(v Value) (time.Time, bool) {
	if v.Kind() != KindString {
		return time.Time{}, false
	}
	return ParseDate(v.str)
}
