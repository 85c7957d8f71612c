package billing

import (
	"context"

	"github.com/BruksfildServices01/horacerta/internal/models"
)

type Repository interface {
	// Transaction runs fn with a repository bound to one transaction.
	Transaction(ctx context.Context, fn func(tx Repository) error) error

	// -------- Catalog --------
	GetCustomer(ctx context.Context, id string) (*models.Customer, error)
	GetBarbershop(ctx context.Context, id string) (*models.Barbershop, error)
	GetBarber(ctx context.Context, id string) (*models.Barber, error)
	GetSchedule(ctx context.Context, id string) (*models.Schedule, error)
	// GetPlan preloads the plan's service.
	GetPlan(ctx context.Context, id string) (*models.Plan, error)

	// -------- Orders / payments --------
	CreateOrder(ctx context.Context, o *models.Order) error
	SaveOrder(ctx context.Context, o *models.Order) error
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	PaymentRecorded(ctx context.Context, transactionID string) (bool, error)
	CreatePayment(ctx context.Context, p *models.Payment) error

	// -------- Ledger --------
	LockWallet(ctx context.Context, customerID, barbershopID string) (int64, error)
	AppendBalance(ctx context.Context, entry *models.Balance) error

	// -------- Loyalty --------
	CreateStamp(ctx context.Context, s *models.LoyaltyStamp) error
	CountStamps(ctx context.Context, customerID, barbershopID string) (int64, error)
	CountRewards(ctx context.Context, customerID, barbershopID string) (int64, error)

	// -------- Subscriptions --------
	CreateSubscription(ctx context.Context, s *models.Subscription) error
	GetSubscription(ctx context.Context, id string) (*models.Subscription, error)
	SaveSubscription(ctx context.Context, s *models.Subscription) error
	DeleteSubscription(ctx context.Context, id string) error
}
