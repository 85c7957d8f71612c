package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	BalanceIncome        = "INCOME"
	BalanceOutcome       = "OUTCOME"
	BalanceLoyaltyReward = "LOYALTY_REWARD"

	BalanceStatusReceived = "received"
)

// Balance is one append-only ledger entry of a customer's wallet at a shop.
type Balance struct {
	ID           string `gorm:"type:uuid;primaryKey" json:"id"`
	CustomerID   string `gorm:"type:uuid;not null;index:idx_balance_customer_shop,priority:1" json:"customer_id"`
	BarbershopID string `gorm:"type:uuid;not null;index:idx_balance_customer_shop,priority:2" json:"barbershop_id"`

	Amount      *int64    `json:"amount"`
	Type        string    `gorm:"size:20;not null" json:"type"`
	Status      string    `gorm:"size:20" json:"status"`
	PaymentDate time.Time `json:"payment_date"`
	PaymentID   *string   `gorm:"type:uuid" json:"payment_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func (b *Balance) BeforeCreate(*gorm.DB) error {
	ensureID(&b.ID)
	return nil
}

// Wallet caches the ledger sum per customer and shop. It is only written in
// the same transaction as the ledger entry that changes it.
type Wallet struct {
	CustomerID   string `gorm:"type:uuid;primaryKey" json:"customer_id"`
	BarbershopID string `gorm:"type:uuid;primaryKey" json:"barbershop_id"`
	Balance      int64  `gorm:"not null;default:0" json:"balance"`

	UpdatedAt time.Time `json:"updated_at"`
}
