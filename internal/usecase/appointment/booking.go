package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/horacerta/internal/domain/appointment"
	"github.com/BruksfildServices01/horacerta/internal/httperr"
	"github.com/BruksfildServices01/horacerta/internal/models"
)

// booking is a fully validated request ready to be written.
type booking struct {
	CustomerID   string
	BarbershopID string
	BarberID     string
	ServiceID    string
	ScheduleID   string
	Date         time.Time
	Price        int64
}

// commit re-checks duplicates, wallet balance and capacity under row locks
// and writes the appointment together with its OUTCOME entry.
func commit(
	ctx context.Context,
	repo domain.Repository,
	b booking,
	now time.Time,
) (*models.Appointment, error) {

	var ap *models.Appointment

	err := repo.Transaction(ctx, func(tx domain.TxRepository) error {
		schedule, err := tx.LockSchedule(ctx, b.ScheduleID)
		if err != nil {
			return err
		}

		// --------------------------------------------------
		// Duplicidade (cliente, barbearia, data)
		// --------------------------------------------------
		exists, err := tx.AppointmentExists(ctx, b.CustomerID, b.BarbershopID, b.Date)
		if err != nil {
			return err
		}
		if exists {
			return domain.ErrAlreadyBooked
		}

		// --------------------------------------------------
		// Saldo
		// --------------------------------------------------
		balance, err := tx.LockWallet(ctx, b.CustomerID, b.BarbershopID)
		if err != nil {
			return err
		}
		if balance < b.Price {
			return domain.ErrNoBalance
		}

		// --------------------------------------------------
		// Capacidade do horário no dia
		// --------------------------------------------------
		start, end := domain.DayBounds(b.Date)
		count, err := tx.CountAppointments(ctx, schedule.ID, start, end)
		if err != nil {
			return err
		}
		if domain.IsFull(schedule.Limit, count) {
			return domain.ErrScheduleFull
		}

		ap = &models.Appointment{
			CustomerID:   b.CustomerID,
			BarbershopID: b.BarbershopID,
			BarberID:     b.BarberID,
			ServiceID:    b.ServiceID,
			ScheduleID:   schedule.ID,
			Date:         b.Date,
		}
		if err := tx.CreateAppointment(ctx, ap); err != nil {
			return err
		}

		amount := b.Price
		return tx.AppendBalance(ctx, &models.Balance{
			CustomerID:   b.CustomerID,
			BarbershopID: b.BarbershopID,
			Amount:       &amount,
			Type:         models.BalanceOutcome,
			Status:       models.BalanceStatusReceived,
			PaymentDate:  now.UTC(),
		})
	})

	if err != nil {
		if httperr.IsUniqueViolation(err) {
			return nil, domain.ErrAlreadyBooked
		}
		return nil, err
	}

	return ap, nil
}
