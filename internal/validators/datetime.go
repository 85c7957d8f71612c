package validators

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var timeOfDay = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)$`)

// IsValidTime accepts strict zero-padded HH:MM.
func IsValidTime(value string) bool {
	return timeOfDay.MatchString(strings.TrimSpace(value))
}

// ParseTimeOfDay splits a valid HH:MM into hour and minute.
func ParseTimeOfDay(value string) (hour, minute int, ok bool) {
	value = strings.TrimSpace(value)
	if !IsValidTime(value) {
		return 0, 0, false
	}
	hour, _ = strconv.Atoi(value[:2])
	minute, _ = strconv.Atoi(value[3:])
	return hour, minute, true
}

// ParseBRDate parses DD/MM/YYYY at midnight in loc. ok is false for missing
// parts or dates that do not exist on the calendar.
func ParseBRDate(value string, loc *time.Location) (time.Time, bool) {
	parts := strings.Split(strings.TrimSpace(value), "/")
	if len(parts) != 3 {
		return time.Time{}, false
	}

	day, err1 := strconv.Atoi(parts[0])
	month, err2 := strconv.Atoi(parts[1])
	year, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return time.Time{}, false
	}
	if month < 1 || month > 12 || day < 1 || year < 1 {
		return time.Time{}, false
	}

	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
	// time.Date normalizes 31/02 into March.
	if d.Day() != day || int(d.Month()) != month {
		return time.Time{}, false
	}
	return d, true
}

func FormatBRDate(t time.Time) string {
	return t.Format("02/01/2006")
}
