package appointment

import (
	"sort"
	"time"

	"github.com/BruksfildServices01/horacerta/internal/models"
)

// BookableDate is one calendar day with the first schedule that serves it.
type BookableDate struct {
	Date       time.Time
	ScheduleID string
}

// BookableDates lists every day from today through the last day of the
// windowWeeks-th week (weeks start on Sunday) that at least one schedule
// covers. today must be midnight in the shop location.
func BookableDates(today time.Time, windowWeeks int, schedules []models.Schedule) []BookableDate {
	if windowWeeks <= 0 || len(schedules) == 0 {
		return nil
	}

	remaining := windowWeeks*7 - 1 - int(today.Weekday())

	var out []BookableDate
	for offset := 0; offset <= remaining; offset++ {
		day := today.AddDate(0, 0, offset)

		for _, s := range schedules {
			if s.Weekday == nil || *s.Weekday != int(day.Weekday()) {
				continue
			}
			out = append(out, BookableDate{Date: day, ScheduleID: s.ID})
			break
		}
	}

	return out
}

// BookableTimes filters schedules down to the slots still open on date.
// Each schedule must carry the appointments already booked for that day and
// its active subscriptions. date and now must be in the shop location.
func BookableTimes(date, now time.Time, schedules []models.Schedule) []models.Schedule {
	today := sameDay(date, now)
	nowHM := now.Format("15:04")

	var out []models.Schedule
	for _, s := range schedules {
		if s.Weekday == nil || *s.Weekday != int(date.Weekday()) {
			continue
		}
		if s.Time == "" {
			continue
		}
		if today && s.Time <= nowHM {
			continue
		}
		if IsFull(s.Limit, sameDayCount(s.Appointments, date)+int64(len(s.Subscriptions))) {
			continue
		}
		out = append(out, s)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Time < out[j].Time
	})

	return out
}

// IsFull applies the literal count >= limit rule; only a nil limit is
// unlimited, so a limit of 0 is always full.
func IsFull(limit *int, count int64) bool {
	if limit == nil {
		return false
	}
	return count >= int64(*limit)
}

func sameDayCount(appointments []models.Appointment, date time.Time) int64 {
	var n int64
	for _, ap := range appointments {
		if sameDay(ap.Date.In(date.Location()), date) {
			n++
		}
	}
	return n
}

func sameDay(a, b time.Time) bool {
	b = b.In(a.Location())
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
