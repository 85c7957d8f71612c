package appointment

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/horacerta/internal/models"
)

func intPtr(v int) *int { return &v }

func saoPaulo(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)
	return loc
}

func schedule(id string, weekday *int, hm string, limit *int) models.Schedule {
	return models.Schedule{ID: id, Weekday: weekday, Time: hm, Limit: limit}
}

func TestBookableDates_WindowAndWeekdays(t *testing.T) {
	loc := saoPaulo(t)
	// Wednesday
	today := time.Date(2025, 1, 15, 0, 0, 0, 0, loc)

	schedules := []models.Schedule{
		schedule("mon", intPtr(1), "09:00", nil),
		schedule("wed", intPtr(3), "10:00", nil),
		schedule("none", nil, "11:00", nil),
	}

	for weeks := 0; weeks <= 4; weeks++ {
		t.Run(fmt.Sprintf("%d weeks", weeks), func(t *testing.T) {
			dates := BookableDates(today, weeks, schedules)
			last := today.AddDate(0, 0, weeks*7-1)

			for i, d := range dates {
				assert.False(t, d.Date.Before(today))
				assert.False(t, d.Date.After(last))
				wd := int(d.Date.Weekday())
				assert.True(t, wd == 1 || wd == 3, "weekday %d", wd)
				if i > 0 {
					assert.True(t, d.Date.After(dates[i-1].Date))
				}
			}
		})
	}

	dates := BookableDates(today, 2, schedules)
	require.Len(t, dates, 3)
	assert.Equal(t, "2025-01-15", dates[0].Date.Format(time.DateOnly))
	assert.Equal(t, "wed", dates[0].ScheduleID)
	assert.Equal(t, "2025-01-20", dates[1].Date.Format(time.DateOnly))
	assert.Equal(t, "mon", dates[1].ScheduleID)
	assert.Equal(t, "2025-01-22", dates[2].Date.Format(time.DateOnly))
}

func TestBookableDates_FirstMatchWins(t *testing.T) {
	loc := saoPaulo(t)
	today := time.Date(2025, 1, 15, 0, 0, 0, 0, loc)

	dates := BookableDates(today, 1, []models.Schedule{
		schedule("first", intPtr(4), "09:00", nil),
		schedule("second", intPtr(4), "08:00", nil),
	})

	require.Len(t, dates, 1)
	assert.Equal(t, "first", dates[0].ScheduleID)
}

func TestBookableDates_Empty(t *testing.T) {
	loc := saoPaulo(t)
	today := time.Date(2025, 1, 18, 0, 0, 0, 0, loc) // Saturday

	assert.Empty(t, BookableDates(today, 1, []models.Schedule{schedule("mon", intPtr(1), "09:00", nil)}))
	assert.Empty(t, BookableDates(today, 2, nil))
	assert.Empty(t, BookableDates(today, 2, []models.Schedule{schedule("x", nil, "09:00", nil)}))
}

func withAppointments(s models.Schedule, date time.Time, n int) models.Schedule {
	for i := 0; i < n; i++ {
		s.Appointments = append(s.Appointments, models.Appointment{Date: date})
	}
	return s
}

func TestBookableTimes_Capacity(t *testing.T) {
	loc := saoPaulo(t)
	now := time.Date(2025, 1, 15, 8, 0, 0, 0, loc)
	date := time.Date(2025, 1, 16, 0, 0, 0, 0, loc) // Thursday
	slot := time.Date(2025, 1, 16, 10, 0, 0, 0, loc)

	const n = 3

	full := withAppointments(schedule("full", intPtr(4), "10:00", intPtr(n)), slot, n)
	open := withAppointments(schedule("open", intPtr(4), "11:00", intPtr(n)), slot, n-1)

	got := BookableTimes(date, now, []models.Schedule{full, open})
	require.Len(t, got, 1)
	assert.Equal(t, "open", got[0].ID)
}

func TestBookableTimes_SubscriptionsCountTowardsCapacity(t *testing.T) {
	loc := saoPaulo(t)
	now := time.Date(2025, 1, 15, 8, 0, 0, 0, loc)
	date := time.Date(2025, 1, 16, 0, 0, 0, 0, loc)

	s := withAppointments(schedule("s", intPtr(4), "10:00", intPtr(2)), date.Add(10*time.Hour), 1)
	s.Subscriptions = []models.Subscription{{Active: true}}

	assert.Empty(t, BookableTimes(date, now, []models.Schedule{s}))
}

func TestBookableTimes_ZeroLimitIsFull(t *testing.T) {
	loc := saoPaulo(t)
	now := time.Date(2025, 1, 15, 8, 0, 0, 0, loc)
	date := time.Date(2025, 1, 16, 0, 0, 0, 0, loc)

	got := BookableTimes(date, now, []models.Schedule{
		schedule("zero", intPtr(4), "10:00", intPtr(0)),
		schedule("unlimited", intPtr(4), "11:00", nil),
	})

	require.Len(t, got, 1)
	assert.Equal(t, "unlimited", got[0].ID)
}

func TestBookableTimes_TodaySkipsElapsedAndSorts(t *testing.T) {
	loc := saoPaulo(t)
	now := time.Date(2025, 1, 15, 10, 30, 0, 0, loc)
	date := time.Date(2025, 1, 15, 0, 0, 0, 0, loc)

	got := BookableTimes(date, now, []models.Schedule{
		schedule("late", intPtr(3), "18:00", nil),
		schedule("past", intPtr(3), "09:00", nil),
		schedule("exact", intPtr(3), "10:30", nil),
		schedule("soon", intPtr(3), "11:00", nil),
		schedule("other-day", intPtr(2), "12:00", nil),
		schedule("no-weekday", nil, "12:00", nil),
	})

	var ids []string
	for _, s := range got {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"soon", "late"}, ids)
}

func TestBookableTimes_IgnoresOtherDaysAppointments(t *testing.T) {
	loc := saoPaulo(t)
	now := time.Date(2025, 1, 15, 8, 0, 0, 0, loc)
	date := time.Date(2025, 1, 16, 0, 0, 0, 0, loc)
	lastWeek := time.Date(2025, 1, 9, 10, 0, 0, 0, loc)

	s := withAppointments(schedule("s", intPtr(4), "10:00", intPtr(1)), lastWeek, 1)

	assert.Len(t, BookableTimes(date, now, []models.Schedule{s}), 1)
}

func TestNextOccurrence(t *testing.T) {
	loc := saoPaulo(t)
	// Wednesday 10:00
	now := time.Date(2025, 1, 15, 10, 0, 0, 0, loc)

	cases := []struct {
		name    string
		weekday int
		hm      string
		want    string
	}{
		{"today later", 3, "11:00", "2025-01-15 11:00"},
		{"today elapsed", 3, "09:00", "2025-01-22 09:00"},
		{"today exactly now", 3, "10:00", "2025-01-22 10:00"},
		{"tomorrow", 4, "08:00", "2025-01-16 08:00"},
		{"earlier weekday", 1, "08:00", "2025-01-20 08:00"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := NextOccurrence(now, tc.weekday, tc.hm)
			require.True(t, ok)
			assert.Equal(t, tc.want, got.Format("2006-01-02 15:04"))
		})
	}

	_, ok := NextOccurrence(now, 3, "")
	assert.False(t, ok)
	_, ok = NextOccurrence(now, 7, "10:00")
	assert.False(t, ok)
}
