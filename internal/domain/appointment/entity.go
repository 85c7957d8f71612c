package appointment

import (
	"time"

	"github.com/BruksfildServices01/horacerta/internal/validators"
)

// CombineDateTime places an "HH:MM" time-of-day on the calendar day of date
// in loc.
func CombineDateTime(date time.Time, hm string, loc *time.Location) (time.Time, bool) {
	h, m, ok := validators.ParseTimeOfDay(hm)
	if !ok {
		return time.Time{}, false
	}
	date = date.In(loc)
	return time.Date(date.Year(), date.Month(), date.Day(), h, m, 0, 0, loc), true
}

// NextOccurrence returns the next instant matching weekday and hm. Today is
// used only while its slot is still ahead of now.
func NextOccurrence(now time.Time, weekday int, hm string) (time.Time, bool) {
	if weekday < 0 || weekday > 6 {
		return time.Time{}, false
	}

	loc := now.Location()
	days := (weekday - int(now.Weekday()) + 7) % 7

	candidate, ok := CombineDateTime(now.AddDate(0, 0, days), hm, loc)
	if !ok {
		return time.Time{}, false
	}
	if !candidate.After(now) {
		candidate = candidate.AddDate(0, 0, 7)
	}
	return candidate, true
}

// DayBounds is [midnight, next midnight) of t's calendar day in t's location.
func DayBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}
