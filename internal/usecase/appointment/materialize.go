package appointment

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"

	"github.com/BruksfildServices01/horacerta/internal/audit"
	domain "github.com/BruksfildServices01/horacerta/internal/domain/appointment"
	"github.com/BruksfildServices01/horacerta/internal/httperr"
	"github.com/BruksfildServices01/horacerta/internal/models"
	"github.com/BruksfildServices01/horacerta/internal/timezone"
)

// Report summarizes one materializer run.
type Report struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

var errIncompleteSubscription = errors.New("subscription is missing plan, service, schedule or staff")

// MaterializeSubscriptions books the next occurrence of every active
// subscription. One subscription failing never stops the batch.
type MaterializeSubscriptions struct {
	repo domain.Repository
	deps Deps
}

func NewMaterializeSubscriptions(repo domain.Repository, deps Deps) *MaterializeSubscriptions {
	return &MaterializeSubscriptions{repo: repo, deps: deps.withDefaults()}
}

func (uc *MaterializeSubscriptions) Execute(ctx context.Context) (Report, error) {
	ctx, span := tracer.Start(ctx, "appointment.materialize_subscriptions")
	defer span.End()

	var report Report

	subs, err := uc.repo.ListActiveSubscriptions(ctx)
	if err != nil {
		return report, err
	}

	shops := map[string]*models.Barbershop{}

	for i := range subs {
		sub := &subs[i]
		log := uc.deps.Logger.With("subscription_id", sub.ID)

		ap, err := uc.materialize(ctx, sub, shops)
		switch {
		case err == nil:
			report.Created++
			uc.deps.Metrics.ObserveMaterialized("created")
			log.Info("materializer: appointment created", "appointment_id", ap.ID, "date", ap.Date)
			uc.deps.Audit.Dispatch(audit.Event{
				BarbershopID: ap.BarbershopID,
				CustomerID:   ap.CustomerID,
				Action:       "subscription_materialized",
				Entity:       "appointment",
				EntityID:     ap.ID,
				Metadata:     map[string]any{"subscription_id": sub.ID},
			})

		case isSkip(err):
			report.Skipped++
			uc.deps.Metrics.ObserveMaterialized("skipped")
			log.Info("materializer: skipped", "reason", err.Error())

		default:
			report.Failed++
			uc.deps.Metrics.ObserveMaterialized("failed")
			log.Error("materializer: failed", "error", err)
		}
	}

	span.SetAttributes(
		attribute.Int("horacerta.created", report.Created),
		attribute.Int("horacerta.skipped", report.Skipped),
		attribute.Int("horacerta.failed", report.Failed),
	)

	return report, nil
}

func (uc *MaterializeSubscriptions) materialize(
	ctx context.Context,
	sub *models.Subscription,
	shops map[string]*models.Barbershop,
) (*models.Appointment, error) {

	if sub.Plan == nil || sub.Plan.Service == nil || sub.Schedule == nil ||
		sub.Schedule.Weekday == nil || sub.BarbershopID == "" || sub.BarberID == "" {
		return nil, errIncompleteSubscription
	}

	shop, ok := shops[sub.BarbershopID]
	if !ok {
		var err error
		shop, err = uc.repo.GetBarbershop(ctx, sub.BarbershopID)
		if err != nil {
			return nil, httperr.NotFoundAs(err, errIncompleteSubscription)
		}
		shops[sub.BarbershopID] = shop
	}

	loc := timezone.Resolve(shop.Timezone, uc.deps.Location)
	now := uc.deps.Now().In(loc)

	next, ok := domain.NextOccurrence(now, *sub.Schedule.Weekday, sub.Schedule.Time)
	if !ok {
		return nil, errIncompleteSubscription
	}

	return commit(ctx, uc.repo, booking{
		CustomerID:   sub.CustomerID,
		BarbershopID: sub.BarbershopID,
		BarberID:     sub.BarberID,
		ServiceID:    sub.Plan.Service.ID,
		ScheduleID:   sub.Schedule.ID,
		Date:         next,
		Price:        sub.Plan.Service.Amount,
	}, now)
}

func isSkip(err error) bool {
	if errors.Is(err, errIncompleteSubscription) {
		return true
	}
	switch httperr.KindOf(err) {
	case httperr.KindConflict, httperr.KindInsufficientBalance:
		return true
	}
	return false
}
