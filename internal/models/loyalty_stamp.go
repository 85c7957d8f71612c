package models

import (
	"time"

	"gorm.io/gorm"
)

type LoyaltyStamp struct {
	ID           string  `gorm:"type:uuid;primaryKey" json:"id"`
	CustomerID   string  `gorm:"type:uuid;not null;index:idx_stamp_customer_shop,priority:1" json:"customer_id"`
	BarbershopID string  `gorm:"type:uuid;not null;index:idx_stamp_customer_shop,priority:2" json:"barbershop_id"`
	PaymentID    *string `gorm:"type:uuid" json:"payment_id"`

	CreatedAt time.Time `json:"created_at"`
}

func (l *LoyaltyStamp) BeforeCreate(*gorm.DB) error {
	ensureID(&l.ID)
	return nil
}
