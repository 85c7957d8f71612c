package appointment

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/BruksfildServices01/horacerta/internal/audit"
	domain "github.com/BruksfildServices01/horacerta/internal/domain/appointment"
	"github.com/BruksfildServices01/horacerta/internal/httperr"
	"github.com/BruksfildServices01/horacerta/internal/models"
)

type CancelAppointmentInput struct {
	AppointmentID string
	// CustomerID, when set, must own the appointment.
	CustomerID string
}

type CancelAppointment struct {
	repo domain.Repository
	deps Deps
}

func NewCancelAppointment(repo domain.Repository, deps Deps) *CancelAppointment {
	return &CancelAppointment{repo: repo, deps: deps.withDefaults()}
}

// Execute credits the service price back and deletes the appointment in the
// same transaction, credit first.
func (uc *CancelAppointment) Execute(
	ctx context.Context,
	in CancelAppointmentInput,
) (*models.Appointment, error) {

	ctx, span := tracer.Start(ctx, "appointment.cancel")
	defer span.End()
	span.SetAttributes(attribute.String("horacerta.appointment_id", in.AppointmentID))

	var ap *models.Appointment

	err := uc.repo.Transaction(ctx, func(tx domain.TxRepository) error {
		found, err := tx.FindAppointmentWithService(ctx, in.AppointmentID)
		if err != nil {
			return httperr.NotFoundAs(err, domain.ErrAppointmentNotFound)
		}
		if in.CustomerID != "" && found.CustomerID != in.CustomerID {
			return domain.ErrAppointmentNotFound
		}

		var price int64
		if found.Service != nil {
			price = found.Service.Amount
		}

		if err := tx.AppendBalance(ctx, &models.Balance{
			CustomerID:   found.CustomerID,
			BarbershopID: found.BarbershopID,
			Amount:       &price,
			Type:         models.BalanceIncome,
			Status:       models.BalanceStatusReceived,
			PaymentDate:  uc.deps.Now().UTC(),
		}); err != nil {
			return err
		}

		if err := tx.DeleteAppointment(ctx, found.ID); err != nil {
			return err
		}

		ap = found
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	uc.deps.Metrics.ObserveCancellation()
	uc.deps.Logger.Info("appointment: cancelled", "appointment_id", ap.ID, "customer_id", ap.CustomerID)
	uc.deps.Audit.Dispatch(audit.Event{
		BarbershopID: ap.BarbershopID,
		CustomerID:   ap.CustomerID,
		Action:       "appointment_cancelled",
		Entity:       "appointment",
		EntityID:     ap.ID,
	})

	return ap, nil
}
