package subscription

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/horacerta/internal/audit"
	"github.com/BruksfildServices01/horacerta/internal/domain/billing"
	"github.com/BruksfildServices01/horacerta/internal/httperr"
	"github.com/BruksfildServices01/horacerta/internal/models"
	"github.com/BruksfildServices01/horacerta/pkg/logging"
)

// ======================================================
// CREATE
// ======================================================

type CreateInput struct {
	CustomerID string
	PlanID     string
	BarberID   string
	ScheduleID string
}

type CreateOutput struct {
	Subscription *models.Subscription `json:"subscription"`
	CheckoutURL  string               `json:"checkout_url"`
}

// Create stores an inactive subscription and opens the recurring checkout.
// The payment webhook activates it.
type Create struct {
	repo    billing.Repository
	gateway billing.Gateway
	logger  *logging.Logger
}

func NewCreate(repo billing.Repository, gateway billing.Gateway, logger *logging.Logger) *Create {
	if logger == nil {
		logger = logging.Default()
	}
	return &Create{repo: repo, gateway: gateway, logger: logger}
}

func (uc *Create) Execute(ctx context.Context, in CreateInput) (*CreateOutput, error) {
	customer, err := uc.repo.GetCustomer(ctx, in.CustomerID)
	if err != nil {
		return nil, httperr.NotFoundAs(err, billing.ErrCustomerNotFound)
	}
	plan, err := uc.repo.GetPlan(ctx, in.PlanID)
	if err != nil {
		return nil, httperr.NotFoundAs(err, billing.ErrPlanNotFound)
	}
	barber, err := uc.repo.GetBarber(ctx, in.BarberID)
	if err != nil || barber.BarbershopID != plan.BarbershopID {
		return nil, httperr.NotFoundAs(orNotFound(err), billing.ErrBarberNotFound)
	}
	schedule, err := uc.repo.GetSchedule(ctx, in.ScheduleID)
	if err != nil || schedule.BarbershopID != plan.BarbershopID || schedule.BarberID != barber.ID {
		return nil, httperr.NotFoundAs(orNotFound(err), billing.ErrScheduleNotFound)
	}

	sub := &models.Subscription{
		CustomerID:   customer.ID,
		BarbershopID: plan.BarbershopID,
		BarberID:     barber.ID,
		ScheduleID:   schedule.ID,
		PlanID:       plan.ID,
	}
	if err := uc.repo.CreateSubscription(ctx, sub); err != nil {
		return nil, err
	}

	reason := "Assinatura"
	if plan.Service != nil {
		reason = "Assinatura " + plan.Service.Name
	}

	checkout, err := uc.gateway.CreateRecurring(ctx, billing.RecurringRequest{
		Reference:  billing.SubscriptionReference(sub.ID),
		Reason:     reason,
		Amount:     plan.Price,
		PayerEmail: customer.Email,
		Interval:   plan.Interval,
	})
	if err != nil {
		uc.logger.Error("subscription: checkout failed", "subscription_id", sub.ID, "error", err)
		if delErr := uc.repo.DeleteSubscription(ctx, sub.ID); delErr != nil {
			uc.logger.Error("subscription: discard failed", "subscription_id", sub.ID, "error", delErr)
		}
		return nil, httperr.External("payment_gateway", "Não foi possível criar a assinatura.", err)
	}

	sub.GatewaySubscriptionID = checkout.GatewayID
	if err := uc.repo.SaveSubscription(ctx, sub); err != nil {
		return nil, err
	}

	return &CreateOutput{Subscription: sub, CheckoutURL: checkout.CheckoutURL}, nil
}

// ======================================================
// CANCEL
// ======================================================

// Cancel deactivates a subscription; it is never deleted.
type Cancel struct {
	repo    billing.Repository
	gateway billing.Gateway
	audit   *audit.Dispatcher
	now     func() time.Time
}

func NewCancel(repo billing.Repository, gateway billing.Gateway, dispatcher *audit.Dispatcher, now func() time.Time) *Cancel {
	if now == nil {
		now = time.Now
	}
	return &Cancel{repo: repo, gateway: gateway, audit: dispatcher, now: now}
}

// Execute cancels id. A non-empty customerID must own the subscription.
func (uc *Cancel) Execute(ctx context.Context, id, customerID string) (*models.Subscription, error) {
	sub, err := uc.repo.GetSubscription(ctx, id)
	if err != nil {
		return nil, httperr.NotFoundAs(err, billing.ErrSubscriptionNotFound)
	}
	if customerID != "" && sub.CustomerID != customerID {
		return nil, billing.ErrSubscriptionNotFound
	}
	if sub.CanceledAt != nil {
		return nil, billing.ErrAlreadyCanceled
	}

	if sub.GatewaySubscriptionID != "" {
		if err := uc.gateway.CancelRecurring(ctx, sub.GatewaySubscriptionID); err != nil {
			return nil, httperr.External("payment_gateway", "Não foi possível cancelar a assinatura.", err)
		}
	}

	now := uc.now().UTC()
	sub.Active = false
	sub.CanceledAt = &now
	if err := uc.repo.SaveSubscription(ctx, sub); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		BarbershopID: sub.BarbershopID,
		CustomerID:   sub.CustomerID,
		Action:       "subscription_cancelled",
		Entity:       "subscription",
		EntityID:     sub.ID,
	})
	return sub, nil
}

// orNotFound turns an ownership mismatch (nil error) into not-found.
func orNotFound(err error) error {
	if err == nil {
		return gorm.ErrRecordNotFound
	}
	return err
}
