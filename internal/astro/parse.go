package astro

import (
	"errors"
	"strings"
	"time"
)

// ErrBirthDateFormat is the normalized parse failure surfaced to users no
// matter what the underlying parser complained about.
var ErrBirthDateFormat = errors.New("Date of Birth must be in DD-MM-YYYY HH:MM format")

// Accepted layouts, day before month. Time defaults to 00:00 when absent.
var birthTimeLayouts = []string{
	"2-1-2006 15:04",
	"2/1/2006 15:04",
	"2-1-2006",
	"2/1/2006",
}

// ParseBirthTime parses a birth date string permissively (day-first locale).
// A date without a time token gets 00:00.
func ParseBirthTime(s string) (time.Time, error) {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return time.Time{}, ErrBirthDateFormat
	}
	for _, layout := range birthTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrBirthDateFormat
}

// ToUTC converts a local wall-clock birth time to UTC using a fixed offset.
// The offset is configuration, not derived from the birth place's timezone.
func ToUTC(local time.Time, utcOffsetHours int) time.Time {
	zone := time.FixedZone("local", utcOffsetHours*3600)
	t := time.Date(local.Year(), local.Month(), local.Day(), local.Hour(), local.Minute(), 0, 0, zone)
	return t.UTC()
}
