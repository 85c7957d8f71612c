package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	OrderPending = "PENDING"
	OrderPaid    = "PAID"
	OrderFailed  = "FAILED"
)

type Order struct {
	ID           string `gorm:"type:uuid;primaryKey" json:"id"`
	CustomerID   string `gorm:"type:uuid;not null;index" json:"customer_id"`
	BarbershopID string `gorm:"type:uuid;not null" json:"barbershop_id"`
	ChatID       string `gorm:"size:36" json:"chat_id"`

	ServiceIDs    string `gorm:"type:text" json:"service_ids"`
	Amount        int64  `json:"amount"`
	Fee           int64  `json:"fee"`
	Total         int64  `json:"total"`
	Status        string `gorm:"size:20;not null" json:"status"`
	PaymentMethod string `gorm:"size:20" json:"payment_method"`

	GatewayPaymentID string `gorm:"size:64;index" json:"gateway_payment_id"`
	PixCode          string `gorm:"type:text" json:"pix_code"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (o *Order) BeforeCreate(*gorm.DB) error {
	ensureID(&o.ID)
	return nil
}

type Payment struct {
	ID             string  `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID        *string `gorm:"type:uuid" json:"order_id"`
	SubscriptionID *string `gorm:"type:uuid" json:"subscription_id"`
	CustomerID     string  `gorm:"type:uuid;not null;index" json:"customer_id"`
	BarbershopID   string  `gorm:"type:uuid;not null" json:"barbershop_id"`

	Amount        int64     `json:"amount"`
	Fee           int64     `json:"fee"`
	Total         int64     `json:"total"`
	Status        string    `gorm:"size:20" json:"status"`
	TransactionID string    `gorm:"size:64;uniqueIndex;not null" json:"transaction_id"`
	PaymentMethod string    `gorm:"size:20" json:"payment_method"`
	PaymentDate   time.Time `json:"payment_date"`
	Type          string    `gorm:"size:20" json:"type"`

	CreatedAt time.Time `json:"created_at"`
}

func (p *Payment) BeforeCreate(*gorm.DB) error {
	ensureID(&p.ID)
	return nil
}
