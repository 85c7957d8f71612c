package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/horacerta/internal/domain/appointment"
	"github.com/BruksfildServices01/horacerta/internal/httperr"
	"github.com/BruksfildServices01/horacerta/internal/models"
	"github.com/BruksfildServices01/horacerta/internal/timezone"
)

// GetAvailability answers "which days" and "which times" for one barber.
type GetAvailability struct {
	repo domain.Repository
	deps Deps
}

func NewGetAvailability(repo domain.Repository, deps Deps) *GetAvailability {
	return &GetAvailability{repo: repo, deps: deps.withDefaults()}
}

// Location resolves the timezone used for shop.
func (uc *GetAvailability) Location(shop *models.Barbershop) *time.Location {
	return timezone.Resolve(shop.Timezone, uc.deps.Location)
}

func (uc *GetAvailability) Dates(
	ctx context.Context,
	barbershopID string,
	barberID string,
) ([]domain.BookableDate, error) {

	shop, err := uc.repo.GetBarbershop(ctx, barbershopID)
	if err != nil {
		return nil, httperr.NotFoundAs(err, domain.ErrShopNotFound)
	}

	schedules, err := uc.repo.ListSchedules(ctx, shop.ID, barberID)
	if err != nil {
		return nil, err
	}

	weeks := shop.WeeksToSchedule
	if weeks <= 0 {
		weeks = uc.deps.WeeksToSchedule
	}

	loc := uc.Location(shop)
	today := timezone.StartOfDay(uc.deps.Now(), loc)

	return domain.BookableDates(today, weeks, schedules), nil
}

// Times lists open schedules on date (YYYY-MM-DD), earliest first.
func (uc *GetAvailability) Times(
	ctx context.Context,
	barbershopID string,
	barberID string,
	date string,
) ([]models.Schedule, error) {

	shop, err := uc.repo.GetBarbershop(ctx, barbershopID)
	if err != nil {
		return nil, httperr.NotFoundAs(err, domain.ErrShopNotFound)
	}

	loc := uc.Location(shop)
	day, err := timezone.ParseDate(date, loc)
	if err != nil {
		return nil, domain.ErrInvalidDate
	}

	start, end := domain.DayBounds(day)
	schedules, err := uc.repo.ListSchedulesForDay(ctx, shop.ID, barberID, int(day.Weekday()), start, end)
	if err != nil {
		return nil, err
	}

	return domain.BookableTimes(day, uc.deps.Now().In(loc), schedules), nil
}
