package core

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// GetTZ returns a *time.Location for the given timezone name.
// An empty name means the device clock's zone. Falls back to the device
// zone if the name is not found.
func GetTZ(name string) *time.Location {
	if name == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Warn().Str("timezone", name).Msg("timezone not found; using device zone")
		return time.Local
	}
	return loc
}

// ParseDate parses a YYYY-MM-DD string into a time.Time (date only, at midnight UTC).
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateFmt, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date '%s' (expected YYYY-MM-DD)", s)
	}
	return t, nil
}

// DateOnly returns a time.Time with only the date portion (midnight UTC).
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// DaysInMonth returns the number of calendar days in the given month.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, -1).Day()
}

// RoundToMinuteStep rounds t to the nearest multiple of step minutes,
// with halves rounding up. Seconds and finer are dropped in the result.
func RoundToMinuteStep(t time.Time, step time.Duration) time.Time {
	if step <= 0 {
		return t
	}
	return t.Round(step)
}

// FormatDate formats a time.Time as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateFmt)
}

// FormatClock formats a time.Time as a 12-hour clock reading (e.g. "5:07 AM").
func FormatClock(t time.Time) string {
	return t.Format(ClockFmt)
}
