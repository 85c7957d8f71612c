package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/horacerta/internal/domain/balance"
	"github.com/BruksfildServices01/horacerta/internal/models"
)

// appendLedger inserts a ledger entry and applies its delta to the cached
// wallet row. db must be a transaction handle. The wallet is locked (and
// rebuilt from the ledger when missing) before the entry is written, so the
// rebuilt sum never includes it twice.
func appendLedger(ctx context.Context, db *gorm.DB, entry *models.Balance) error {
	if _, err := lockWallet(ctx, db, entry.CustomerID, entry.BarbershopID); err != nil {
		return fmt.Errorf("ledger: lock wallet: %w", err)
	}

	if err := db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("ledger: append: %w", err)
	}

	delta := balance.Delta(entry.Type, entry.Amount)

	if err := db.WithContext(ctx).
		Model(&models.Wallet{}).
		Where("customer_id = ? AND barbershop_id = ?", entry.CustomerID, entry.BarbershopID).
		Updates(map[string]any{
			"balance":    gorm.Expr("balance + ?", delta),
			"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
		}).Error; err != nil {
		return fmt.Errorf("ledger: update wallet: %w", err)
	}

	return nil
}

// lockWallet reads the cached balance under a row lock, rebuilding the
// cache from the ledger when the row does not exist yet.
func lockWallet(ctx context.Context, db *gorm.DB, customerID, barbershopID string) (int64, error) {
	var w models.Wallet
	err := db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("customer_id = ? AND barbershop_id = ?", customerID, barbershopID).
		First(&w).Error
	if err == nil {
		return w.Balance, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}

	sum, err := ledgerSum(ctx, db, customerID, barbershopID)
	if err != nil {
		return 0, err
	}

	w = models.Wallet{CustomerID: customerID, BarbershopID: barbershopID, Balance: sum}
	if err := db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&w).Error; err != nil {
		return 0, err
	}

	if err := db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("customer_id = ? AND barbershop_id = ?", customerID, barbershopID).
		First(&w).Error; err != nil {
		return 0, err
	}
	return w.Balance, nil
}

func ledgerSum(ctx context.Context, db *gorm.DB, customerID, barbershopID string) (int64, error) {
	var entries []models.Balance
	if err := db.WithContext(ctx).
		Select("type", "amount").
		Where("customer_id = ? AND barbershop_id = ?", customerID, barbershopID).
		Find(&entries).Error; err != nil {
		return 0, err
	}
	return balance.Sum(entries), nil
}

// BalanceGormRepository serves wallet reads outside booking transactions.
type BalanceGormRepository struct {
	db *gorm.DB
}

func NewBalanceGormRepository(db *gorm.DB) *BalanceGormRepository {
	return &BalanceGormRepository{db: db}
}

// WalletBalance returns the cached balance, falling back to the ledger sum.
func (r *BalanceGormRepository) WalletBalance(ctx context.Context, customerID, barbershopID string) (int64, error) {
	w, err := firstOrNil[models.Wallet](ctx, r.db,
		"customer_id = ? AND barbershop_id = ?", customerID, barbershopID)
	if err != nil {
		return 0, err
	}
	if w != nil {
		return w.Balance, nil
	}
	return ledgerSum(ctx, r.db, customerID, barbershopID)
}

// LedgerBalance recomputes the balance from every entry.
func (r *BalanceGormRepository) LedgerBalance(ctx context.Context, customerID, barbershopID string) (int64, error) {
	return ledgerSum(ctx, r.db, customerID, barbershopID)
}

// Append writes a standalone ledger entry in its own transaction.
func (r *BalanceGormRepository) Append(ctx context.Context, entry *models.Balance) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return appendLedger(ctx, tx, entry)
	})
}

func (r *BalanceGormRepository) ListEntries(ctx context.Context, customerID, barbershopID string) ([]models.Balance, error) {
	var entries []models.Balance
	if err := r.db.WithContext(ctx).
		Where("customer_id = ? AND barbershop_id = ?", customerID, barbershopID).
		Order("created_at DESC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
