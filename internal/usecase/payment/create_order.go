package payment

import (
	"context"
	"strings"

	"github.com/BruksfildServices01/horacerta/internal/domain/billing"
	"github.com/BruksfildServices01/horacerta/internal/httperr"
	"github.com/BruksfildServices01/horacerta/internal/models"
	"github.com/BruksfildServices01/horacerta/pkg/logging"
)

// ======================================================
// INPUT
// ======================================================

type CreateOrderInput struct {
	CustomerID   string
	BarbershopID string
	ServiceIDs   []string
	// Amount in cents, before the platform fee.
	Amount int64
	ChatID string
}

// ======================================================
// USE CASE
// ======================================================

// CreateOrder registers a PIX charge with the gateway for an amount the
// customer still owes.
type CreateOrder struct {
	repo    billing.Repository
	gateway billing.Gateway
	logger  *logging.Logger
}

func NewCreateOrder(repo billing.Repository, gateway billing.Gateway, logger *logging.Logger) *CreateOrder {
	if logger == nil {
		logger = logging.Default()
	}
	return &CreateOrder{repo: repo, gateway: gateway, logger: logger}
}

func (uc *CreateOrder) Execute(ctx context.Context, in CreateOrderInput) (*models.Order, error) {
	if in.Amount <= 0 {
		return nil, billing.ErrInvalidAmount
	}

	customer, err := uc.repo.GetCustomer(ctx, in.CustomerID)
	if err != nil {
		return nil, httperr.NotFoundAs(err, billing.ErrCustomerNotFound)
	}
	shop, err := uc.repo.GetBarbershop(ctx, in.BarbershopID)
	if err != nil {
		return nil, httperr.NotFoundAs(err, billing.ErrShopNotFound)
	}

	fee := billing.PlatformFee(in.Amount, shop.Fee)

	order := &models.Order{
		CustomerID:    customer.ID,
		BarbershopID:  shop.ID,
		ChatID:        in.ChatID,
		ServiceIDs:    strings.Join(in.ServiceIDs, ","),
		Amount:        in.Amount,
		Fee:           fee,
		Total:         in.Amount + fee,
		Status:        models.OrderPending,
		PaymentMethod: "pix",
	}
	if err := uc.repo.CreateOrder(ctx, order); err != nil {
		return nil, err
	}

	charge, err := uc.gateway.CreatePix(ctx, billing.PixRequest{
		Reference:   billing.OrderReference(order.ID),
		Description: "Créditos " + shop.Name,
		Amount:      order.Total,
		Payer: billing.Payer{
			Name:     customer.Name,
			Email:    customer.Email,
			Document: customer.Document,
		},
	})
	if err != nil {
		uc.logger.Error("payment: pix charge failed", "order_id", order.ID, "error", err)

		order.Status = models.OrderFailed
		if saveErr := uc.repo.SaveOrder(ctx, order); saveErr != nil {
			uc.logger.Error("payment: mark order failed", "order_id", order.ID, "error", saveErr)
		}
		return nil, httperr.External("payment_gateway", "Não foi possível gerar o pagamento.", err)
	}

	order.GatewayPaymentID = charge.GatewayID
	order.PixCode = charge.PixCode
	if err := uc.repo.SaveOrder(ctx, order); err != nil {
		return nil, err
	}

	uc.logger.Info("payment: order created", "order_id", order.ID, "total", order.Total)
	return order, nil
}
