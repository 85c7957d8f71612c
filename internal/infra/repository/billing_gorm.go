package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/horacerta/internal/domain/billing"
	"github.com/BruksfildServices01/horacerta/internal/models"
)

type BillingGormRepository struct {
	db *gorm.DB
}

func NewBillingGormRepository(db *gorm.DB) *BillingGormRepository {
	return &BillingGormRepository{db: db}
}

func (r *BillingGormRepository) Transaction(
	ctx context.Context,
	fn func(tx billing.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&BillingGormRepository{db: tx})
	})
}

// --------------------------------------------------
// Catalog
// --------------------------------------------------

func (r *BillingGormRepository) GetCustomer(ctx context.Context, id string) (*models.Customer, error) {
	return first[models.Customer](ctx, r.db, "id = ?", id)
}

func (r *BillingGormRepository) GetBarbershop(ctx context.Context, id string) (*models.Barbershop, error) {
	return first[models.Barbershop](ctx, r.db, "id = ?", id)
}

func (r *BillingGormRepository) GetBarber(ctx context.Context, id string) (*models.Barber, error) {
	return first[models.Barber](ctx, r.db, "id = ?", id)
}

func (r *BillingGormRepository) GetSchedule(ctx context.Context, id string) (*models.Schedule, error) {
	return first[models.Schedule](ctx, r.db, "id = ?", id)
}

func (r *BillingGormRepository) GetPlan(ctx context.Context, id string) (*models.Plan, error) {
	var plan models.Plan
	if err := r.db.WithContext(ctx).
		Preload("Service").
		Where("id = ?", id).
		First(&plan).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

// --------------------------------------------------
// Orders / payments
// --------------------------------------------------

func (r *BillingGormRepository) CreateOrder(ctx context.Context, o *models.Order) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *BillingGormRepository) SaveOrder(ctx context.Context, o *models.Order) error {
	return r.db.WithContext(ctx).Save(o).Error
}

func (r *BillingGormRepository) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	return first[models.Order](ctx, r.db, "id = ?", id)
}

func (r *BillingGormRepository) PaymentRecorded(ctx context.Context, transactionID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("transaction_id = ?", transactionID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *BillingGormRepository) CreatePayment(ctx context.Context, p *models.Payment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// --------------------------------------------------
// Ledger
// --------------------------------------------------

func (r *BillingGormRepository) LockWallet(ctx context.Context, customerID, barbershopID string) (int64, error) {
	return lockWallet(ctx, r.db, customerID, barbershopID)
}

func (r *BillingGormRepository) AppendBalance(ctx context.Context, entry *models.Balance) error {
	return appendLedger(ctx, r.db, entry)
}

// --------------------------------------------------
// Loyalty
// --------------------------------------------------

func (r *BillingGormRepository) CreateStamp(ctx context.Context, s *models.LoyaltyStamp) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *BillingGormRepository) CountStamps(ctx context.Context, customerID, barbershopID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.LoyaltyStamp{}).
		Where("customer_id = ? AND barbershop_id = ?", customerID, barbershopID).
		Count(&count).Error
	return count, err
}

func (r *BillingGormRepository) CountRewards(ctx context.Context, customerID, barbershopID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Balance{}).
		Where(
			"customer_id = ? AND barbershop_id = ? AND type = ?",
			customerID, barbershopID, models.BalanceLoyaltyReward,
		).
		Count(&count).Error
	return count, err
}

// --------------------------------------------------
// Subscriptions
// --------------------------------------------------

func (r *BillingGormRepository) CreateSubscription(ctx context.Context, s *models.Subscription) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *BillingGormRepository) GetSubscription(ctx context.Context, id string) (*models.Subscription, error) {
	return first[models.Subscription](ctx, r.db, "id = ?", id)
}

func (r *BillingGormRepository) SaveSubscription(ctx context.Context, s *models.Subscription) error {
	return r.db.WithContext(ctx).Save(s).Error
}

// DeleteSubscription removes a subscription whose checkout never opened.
func (r *BillingGormRepository) DeleteSubscription(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Subscription{}).Error
}

var _ billing.Repository = (*BillingGormRepository)(nil)
