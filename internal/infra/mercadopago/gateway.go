// Package mercadopago adapts the Mercado Pago SDK to billing.Gateway.
package mercadopago

import (
	"context"
	"fmt"
	"math"
	"strconv"

	mpconfig "github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/mercadopago/sdk-go/pkg/preapproval"

	"github.com/BruksfildServices01/horacerta/internal/domain/billing"
	"github.com/BruksfildServices01/horacerta/internal/validators"
)

type Config struct {
	AccessToken     string
	NotificationURL string
	BackURL         string
}

type Gateway struct {
	payments        payment.Client
	preapprovals    preapproval.Client
	notificationURL string
	backURL         string
}

func New(cfg Config) (*Gateway, error) {
	mp, err := mpconfig.New(cfg.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("mercadopago: config: %w", err)
	}
	return &Gateway{
		payments:        payment.NewClient(mp),
		preapprovals:    preapproval.NewClient(mp),
		notificationURL: cfg.NotificationURL,
		backURL:         cfg.BackURL,
	}, nil
}

func (g *Gateway) CreatePix(ctx context.Context, req billing.PixRequest) (*billing.PixCharge, error) {
	payer := &payment.PayerRequest{
		Email:     req.Payer.Email,
		FirstName: validators.FirstName(req.Payer.Name),
	}
	if doc := validators.OnlyDigits(req.Payer.Document); doc != "" {
		payer.Identification = &payment.IdentificationRequest{Type: "CPF", Number: doc}
	}

	res, err := g.payments.Create(ctx, payment.Request{
		TransactionAmount: toReais(req.Amount),
		PaymentMethodID:   "pix",
		Description:       req.Description,
		ExternalReference: req.Reference,
		NotificationURL:   g.notificationURL,
		Payer:             payer,
	})
	if err != nil {
		return nil, fmt.Errorf("mercadopago: create pix: %w", err)
	}

	return &billing.PixCharge{
		GatewayID: strconv.Itoa(res.ID),
		Status:    res.Status,
		PixCode:   res.PointOfInteraction.TransactionData.QRCode,
		TicketURL: res.PointOfInteraction.TransactionData.TicketURL,
	}, nil
}

func (g *Gateway) GetPayment(ctx context.Context, gatewayID string) (*billing.PaymentStatus, error) {
	id, err := strconv.Atoi(gatewayID)
	if err != nil {
		return nil, fmt.Errorf("mercadopago: invalid payment id %q", gatewayID)
	}

	res, err := g.payments.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("mercadopago: get payment: %w", err)
	}

	return &billing.PaymentStatus{
		GatewayID: strconv.Itoa(res.ID),
		Status:    res.Status,
		Reference: res.ExternalReference,
		Amount:    toCents(res.TransactionAmount),
		Method:    res.PaymentMethodID,
	}, nil
}

func (g *Gateway) CreateRecurring(ctx context.Context, req billing.RecurringRequest) (*billing.RecurringCheckout, error) {
	frequency, frequencyType := 1, "months"
	if req.Interval == "week" {
		frequency, frequencyType = 7, "days"
	}

	res, err := g.preapprovals.Create(ctx, preapproval.Request{
		PayerEmail:        req.PayerEmail,
		Reason:            req.Reason,
		ExternalReference: req.Reference,
		BackURL:           g.backURL,
		AutoRecurring: &preapproval.AutoRecurringRequest{
			Frequency:         frequency,
			FrequencyType:     frequencyType,
			TransactionAmount: toReais(req.Amount),
			CurrencyID:        "BRL",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("mercadopago: create preapproval: %w", err)
	}

	return &billing.RecurringCheckout{GatewayID: res.ID, CheckoutURL: res.InitPoint}, nil
}

func (g *Gateway) CancelRecurring(ctx context.Context, gatewayID string) error {
	if _, err := g.preapprovals.Update(ctx, gatewayID, preapproval.UpdateRequest{
		Status: billing.StatusCancelled,
	}); err != nil {
		return fmt.Errorf("mercadopago: cancel preapproval: %w", err)
	}
	return nil
}

func toReais(cents int64) float64 {
	return float64(cents) / 100
}

func toCents(reais float64) int64 {
	return int64(math.Round(reais * 100))
}

var _ billing.Gateway = (*Gateway)(nil)
