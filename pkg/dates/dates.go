package dates

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DisplayLayout is the canonical display form of a pickup date ("Apr 22, 2025").
const DisplayLayout = "Jan 2, 2006"

// InvalidDateFallback is what callers show when a date cannot be formatted.
const InvalidDateFallback = "Invalid date"

var monthsByToken = map[string]time.Month{
	"Jan": time.January,
	"Feb": time.February,
	"Mar": time.March,
	"Apr": time.April,
	"May": time.May,
	"Jun": time.June,
	"Jul": time.July,
	"Aug": time.August,
	"Sep": time.September,
	"Oct": time.October,
	"Nov": time.November,
	"Dec": time.December,
}

// ParseDisplayDate parses a canonical "Mon dd, yyyy" string. Only the exact
// three-token shape is accepted; anything else is an error, never a panic.
// The result sits at local noon so day-boundary comparisons are not shifted
// by timezone offsets.
func ParseDisplayDate(value string) (time.Time, error) {
	fields := strings.Fields(strings.TrimSpace(value))
	if len(fields) != 3 {
		return time.Time{}, fmt.Errorf("invalid display date %q: expected 3 tokens, got %d", value, len(fields))
	}

	month, ok := monthsByToken[fields[0]]
	if !ok {
		return time.Time{}, fmt.Errorf("invalid display date %q: unknown month %q", value, fields[0])
	}

	dayToken := strings.TrimSuffix(fields[1], ",")
	if dayToken == fields[1] {
		return time.Time{}, fmt.Errorf("invalid display date %q: day token missing trailing comma", value)
	}

	day, err := strconv.Atoi(dayToken)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid display date %q: non-numeric day %q", value, dayToken)
	}

	year, err := strconv.Atoi(fields[2])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid display date %q: non-numeric year %q", value, fields[2])
	}

	return time.Date(year, month, day, 12, 0, 0, 0, time.Local), nil
}

// FormatDisplayDate renders a timestamp in the canonical display form,
// falling back to the given string for a zero time.
func FormatDisplayDate(t time.Time, fallback string) string {
	if t.IsZero() {
		return fallback
	}
	return t.Format(DisplayLayout)
}

// InRange reports whether t falls inside the inclusive [start, end] window
// at calendar-day granularity. A nil bound leaves that side unbounded; the
// start bound covers its day from 00:00:00.000 and the end bound through
// 23:59:59.999, so a record timestamped at noon compares correctly against
// bounds normalized to midnight. A zero t is never in range.
func InRange(t time.Time, start, end *time.Time) bool {
	if t.IsZero() {
		return false
	}

	if start != nil && t.Before(StartOfDay(*start)) {
		return false
	}
	if end != nil && t.After(EndOfDay(*end)) {
		return false
	}
	return true
}

// StartOfDay returns 00:00:00.000 of t's local day.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
}

// EndOfDay returns 23:59:59.999 of t's local day.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), time.Local)
}
