package payment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/horacerta/internal/audit"
	"github.com/BruksfildServices01/horacerta/internal/domain/billing"
	"github.com/BruksfildServices01/horacerta/internal/httperr"
	"github.com/BruksfildServices01/horacerta/internal/models"
	"github.com/BruksfildServices01/horacerta/pkg/logging"
)

// ChatResumer continues a paused conversation once its order is paid.
type ChatResumer interface {
	Resume(ctx context.Context, chatID string) error
}

type WebhookInput struct {
	Type      string
	GatewayID string
}

type WebhookResult struct {
	Processed bool   `json:"processed"`
	Reason    string `json:"reason,omitempty"`
	OrderID   string `json:"order_id,omitempty"`
}

// HandleWebhook records approved gateway payments. It is idempotent per
// gateway transaction id.
type HandleWebhook struct {
	repo    billing.Repository
	gateway billing.Gateway
	chats   ChatResumer
	audit   *audit.Dispatcher
	logger  *logging.Logger
	now     func() time.Time
}

func NewHandleWebhook(
	repo billing.Repository,
	gateway billing.Gateway,
	chats ChatResumer,
	dispatcher *audit.Dispatcher,
	logger *logging.Logger,
	now func() time.Time,
) *HandleWebhook {
	if logger == nil {
		logger = logging.Default()
	}
	if now == nil {
		now = time.Now
	}
	return &HandleWebhook{repo: repo, gateway: gateway, chats: chats, audit: dispatcher, logger: logger, now: now}
}

func (uc *HandleWebhook) Execute(ctx context.Context, in WebhookInput) (WebhookResult, error) {
	if in.Type != "" && in.Type != "payment" {
		return WebhookResult{Reason: "ignored_type"}, nil
	}
	if in.GatewayID == "" {
		return WebhookResult{}, httperr.Validation("invalid_payload", "Notificação sem identificador.")
	}

	status, err := uc.gateway.GetPayment(ctx, in.GatewayID)
	if err != nil {
		return WebhookResult{}, httperr.External("payment_gateway", "Falha ao consultar pagamento.", err)
	}
	if status.Status != billing.StatusApproved {
		return WebhookResult{Reason: "status_" + status.Status}, nil
	}

	recorded, err := uc.repo.PaymentRecorded(ctx, status.GatewayID)
	if err != nil {
		return WebhookResult{}, err
	}
	if recorded {
		return WebhookResult{Reason: "already_processed"}, nil
	}

	orderID, subscriptionID := billing.ParseReference(status.Reference)

	var (
		order  *models.Order
		result = WebhookResult{Processed: true, OrderID: orderID}
	)

	err = uc.repo.Transaction(ctx, func(tx billing.Repository) error {
		var customerID, shopID string
		var amount int64

		pay := &models.Payment{
			Status:        status.Status,
			TransactionID: status.GatewayID,
			PaymentMethod: status.Method,
			PaymentDate:   uc.now().UTC(),
			Total:         status.Amount,
		}

		if subscriptionID != "" {
			sub, err := tx.GetSubscription(ctx, subscriptionID)
			if err != nil {
				return httperr.NotFoundAs(err, billing.ErrSubscriptionNotFound)
			}
			plan, err := tx.GetPlan(ctx, sub.PlanID)
			if err != nil {
				return httperr.NotFoundAs(err, billing.ErrPlanNotFound)
			}

			customerID, shopID, amount = sub.CustomerID, sub.BarbershopID, plan.Price
			pay.SubscriptionID = &sub.ID
			pay.Type = "subscription"

			sub.Active = true
			sub.CanceledAt = nil
			if err := tx.SaveSubscription(ctx, sub); err != nil {
				return err
			}
		} else {
			o, err := tx.GetOrder(ctx, orderID)
			if err != nil {
				return httperr.NotFoundAs(err, billing.ErrOrderNotFound)
			}
			customerID, shopID, amount = o.CustomerID, o.BarbershopID, o.Amount
			pay.OrderID = &o.ID
			pay.Fee = o.Fee
			pay.Type = "order"

			o.Status = models.OrderPaid
			if err := tx.SaveOrder(ctx, o); err != nil {
				return err
			}
			order = o
		}

		pay.CustomerID = customerID
		pay.BarbershopID = shopID
		pay.Amount = amount

		if err := tx.CreatePayment(ctx, pay); err != nil {
			return err
		}

		if err := tx.AppendBalance(ctx, &models.Balance{
			CustomerID:   customerID,
			BarbershopID: shopID,
			Amount:       &amount,
			Type:         models.BalanceIncome,
			Status:       models.BalanceStatusReceived,
			PaymentDate:  pay.PaymentDate,
			PaymentID:    &pay.ID,
		}); err != nil {
			return err
		}

		return tx.CreateStamp(ctx, &models.LoyaltyStamp{
			CustomerID:   customerID,
			BarbershopID: shopID,
			PaymentID:    &pay.ID,
		})
	})

	if err != nil {
		if httperr.IsUniqueViolation(err) {
			return WebhookResult{Reason: "already_processed"}, nil
		}
		return WebhookResult{}, err
	}

	uc.logger.Info("payment: received", "transaction_id", status.GatewayID, "order_id", orderID, "subscription_id", subscriptionID)
	if order != nil {
		uc.audit.Dispatch(audit.Event{
			BarbershopID: order.BarbershopID,
			CustomerID:   order.CustomerID,
			Action:       "payment_received",
			Entity:       "order",
			EntityID:     order.ID,
		})
	}

	if order != nil && order.ChatID != "" && uc.chats != nil {
		if err := uc.chats.Resume(ctx, order.ChatID); err != nil {
			uc.logger.Warn("payment: chat resume failed", "chat_id", order.ChatID, "error", err)
		}
	}

	return result, nil
}
