package utils

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// ParseDate parses a "YYYY-MM-DD" date into UTC midnight.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return t.UTC(), nil
}

// ParseClock validates a 24h "HH:MM" wall-clock string and returns it as
// minutes since midnight. time.Parse accepts unpadded hours like "9:30", so
// persisted values must go through FormatClock to keep lexicographic order
// equal to chronological order.
func ParseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatClock renders minutes since midnight as zero-padded "HH:MM", the
// canonical stored form.
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// DayWindow returns the inclusive [startOfDay, endOfDay] bounds of t's UTC day.
func DayWindow(t time.Time) (time.Time, time.Time) {
	t = t.UTC()
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999999999, time.UTC)
	return start, end
}

// CombineDateClock pairs a service date with an "HH:MM" wall time into a
// single UTC instant.
func CombineDateClock(date time.Time, clock string) (time.Time, error) {
	minutes, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	start, _ := DayWindow(date)
	return start.Add(time.Duration(minutes) * time.Minute), nil
}
