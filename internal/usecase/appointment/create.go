package appointment

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/BruksfildServices01/horacerta/internal/audit"
	domain "github.com/BruksfildServices01/horacerta/internal/domain/appointment"
	"github.com/BruksfildServices01/horacerta/internal/httperr"
	"github.com/BruksfildServices01/horacerta/internal/models"
	"github.com/BruksfildServices01/horacerta/internal/timezone"
	"github.com/BruksfildServices01/horacerta/internal/validators"
)

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	BarberID     string
	CustomerID   string
	BarbershopID string
	ScheduleID   string
	ServiceID    string

	// Date is a YYYY-MM-DD calendar day in the shop timezone.
	Date string

	// Source labels metrics ("chat", "api").
	Source string
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo domain.Repository
	deps Deps
}

func NewCreateAppointment(repo domain.Repository, deps Deps) *CreateAppointment {
	return &CreateAppointment{repo: repo, deps: deps.withDefaults()}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	ctx, span := tracer.Start(ctx, "appointment.create")
	defer span.End()
	span.SetAttributes(
		attribute.String("horacerta.barbershop_id", in.BarbershopID),
		attribute.String("horacerta.schedule_id", in.ScheduleID),
		attribute.String("horacerta.date", in.Date),
	)

	source := in.Source
	if source == "" {
		source = "api"
	}

	ap, err := uc.execute(ctx, in)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		uc.deps.Metrics.ObserveBooking(source, "rejected")
		return nil, err
	}

	uc.deps.Metrics.ObserveBooking(source, "created")
	uc.deps.Logger.Info("appointment: created",
		"appointment_id", ap.ID,
		"customer_id", ap.CustomerID,
		"barbershop_id", ap.BarbershopID,
		"date", ap.Date,
	)
	uc.deps.Audit.Dispatch(audit.Event{
		BarbershopID: ap.BarbershopID,
		CustomerID:   ap.CustomerID,
		Action:       "appointment_created",
		Entity:       "appointment",
		EntityID:     ap.ID,
		Metadata:     map[string]any{"source": source},
	})

	return ap, nil
}

func (uc *CreateAppointment) execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	// --------------------------------------------------
	// 1) Barbeiro
	// --------------------------------------------------
	if _, err := uc.repo.GetBarber(ctx, in.BarberID); err != nil {
		return nil, httperr.NotFoundAs(err, domain.ErrBarberNotFound)
	}

	// --------------------------------------------------
	// 2) Barbearia
	// --------------------------------------------------
	shop, err := uc.repo.GetBarbershop(ctx, in.BarbershopID)
	if err != nil {
		return nil, httperr.NotFoundAs(err, domain.ErrShopNotFound)
	}

	// --------------------------------------------------
	// 3) Cliente
	// --------------------------------------------------
	if _, err := uc.repo.GetCustomer(ctx, in.CustomerID); err != nil {
		return nil, httperr.NotFoundAs(err, domain.ErrCustomerNotFound)
	}

	// --------------------------------------------------
	// 4) Horário pertence à barbearia
	// --------------------------------------------------
	schedule, err := uc.repo.GetSchedule(ctx, in.ScheduleID)
	if err != nil {
		return nil, httperr.NotFoundAs(err, domain.ErrScheduleNotFound)
	}
	if schedule.BarbershopID != shop.ID {
		return nil, domain.ErrScheduleNotFound
	}

	// --------------------------------------------------
	// 5) Serviço pertence à barbearia
	// --------------------------------------------------
	service, err := uc.repo.GetService(ctx, in.ServiceID)
	if err != nil {
		return nil, httperr.NotFoundAs(err, domain.ErrServiceNotFound)
	}
	if service.BarbershopID != shop.ID {
		return nil, domain.ErrServiceNotFound
	}

	// --------------------------------------------------
	// 6) Horário com hora definida
	// --------------------------------------------------
	if !validators.IsValidTime(schedule.Time) {
		return nil, domain.ErrScheduleWithoutTime
	}

	// --------------------------------------------------
	// 7) Data + hora no futuro (timezone da barbearia)
	// --------------------------------------------------
	loc := timezone.Resolve(shop.Timezone, uc.deps.Location)

	day, err := timezone.ParseDate(in.Date, loc)
	if err != nil {
		return nil, domain.ErrInvalidDate
	}
	start, _ := domain.CombineDateTime(day, schedule.Time, loc)

	now := uc.deps.Now().In(loc)
	if !start.After(now) {
		return nil, domain.ErrDateInPast
	}

	// --------------------------------------------------
	// 8-10) Duplicidade, saldo e capacidade (transação)
	// --------------------------------------------------
	return commit(ctx, uc.repo, booking{
		CustomerID:   in.CustomerID,
		BarbershopID: shop.ID,
		BarberID:     in.BarberID,
		ServiceID:    service.ID,
		ScheduleID:   schedule.ID,
		Date:         start,
		Price:        service.Amount,
	}, now)
}
