package schedule

import (
	"context"
	"fmt"

	domain "github.com/BruksfildServices01/horacerta/internal/domain/appointment"
	"github.com/BruksfildServices01/horacerta/internal/httperr"
	"github.com/BruksfildServices01/horacerta/internal/models"
	"github.com/BruksfildServices01/horacerta/internal/validators"
)

type Item struct {
	BarbershopID string `json:"barbershop_id" binding:"required"`
	BarberID     string `json:"barber_id" binding:"required"`
	Weekday      *int   `json:"weekday" binding:"required"`
	Time         string `json:"time" binding:"required"`
	Limit        *int   `json:"limit"`
}

var ErrNothingToCreate = httperr.Conflict("schedules_exist", "Todos os horários informados já existem.")

// CreateSchedules inserts the batch minus rows that already exist, keyed by
// (shop, staff, weekday, time).
type CreateSchedules struct {
	repo domain.ScheduleRepository
}

func NewCreateSchedules(repo domain.ScheduleRepository) *CreateSchedules {
	return &CreateSchedules{repo: repo}
}

func (uc *CreateSchedules) Execute(ctx context.Context, items []Item) ([]models.Schedule, error) {
	seen := map[string]bool{}
	loaded := map[string]bool{}
	barbers := map[string]*models.Barber{}

	var out []models.Schedule

	for i, it := range items {
		if it.Weekday == nil || *it.Weekday < 0 || *it.Weekday > 6 {
			return nil, httperr.Validation("invalid_weekday", fmt.Sprintf("Dia da semana inválido no item %d.", i+1))
		}
		if !validators.IsValidTime(it.Time) {
			return nil, httperr.Validation("invalid_time", fmt.Sprintf("Hora inválida no item %d.", i+1))
		}
		if it.Limit != nil && *it.Limit < 0 {
			return nil, httperr.Validation("invalid_limit", fmt.Sprintf("Limite inválido no item %d.", i+1))
		}

		if !loaded[it.BarbershopID] {
			if _, err := uc.repo.GetBarbershop(ctx, it.BarbershopID); err != nil {
				return nil, httperr.NotFoundAs(err, domain.ErrShopNotFound)
			}
			existing, err := uc.repo.ListByBarbershop(ctx, it.BarbershopID)
			if err != nil {
				return nil, err
			}
			for _, s := range existing {
				if s.Weekday != nil {
					seen[key(s.BarbershopID, s.BarberID, *s.Weekday, s.Time)] = true
				}
			}
			loaded[it.BarbershopID] = true
		}

		barber, ok := barbers[it.BarberID]
		if !ok {
			b, err := uc.repo.GetBarber(ctx, it.BarberID)
			if err != nil {
				return nil, httperr.NotFoundAs(err, domain.ErrBarberNotFound)
			}
			barber = b
			barbers[it.BarberID] = b
		}
		if barber.BarbershopID != it.BarbershopID {
			return nil, domain.ErrBarberNotFound
		}

		k := key(it.BarbershopID, it.BarberID, *it.Weekday, it.Time)
		if seen[k] {
			continue
		}
		seen[k] = true

		weekday := *it.Weekday
		out = append(out, models.Schedule{
			BarbershopID: it.BarbershopID,
			BarberID:     it.BarberID,
			Weekday:      &weekday,
			Time:         it.Time,
			Limit:        it.Limit,
		})
	}

	if len(out) == 0 {
		return nil, ErrNothingToCreate
	}

	if err := uc.repo.CreateBatch(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

func key(shopID, barberID string, weekday int, hm string) string {
	return fmt.Sprintf("%s|%s|%d|%s", shopID, barberID, weekday, hm)
}
