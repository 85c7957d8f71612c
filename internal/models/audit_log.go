package models

import (
	"time"

	"gorm.io/gorm"
)

type AuditLog struct {
	ID string `gorm:"type:uuid;primaryKey" json:"id"`

	BarbershopID string  `gorm:"size:36;index" json:"barbershop_id"`
	CustomerID   *string `gorm:"size:36" json:"customer_id"`
	Action       string  `gorm:"size:50;not null" json:"action"`

	Entity   string  `gorm:"size:50" json:"entity"`
	EntityID *string `gorm:"size:36" json:"entity_id"`
	Metadata string  `gorm:"type:text" json:"metadata"`

	CreatedAt time.Time `json:"created_at"`
}

func (a *AuditLog) BeforeCreate(*gorm.DB) error {
	ensureID(&a.ID)
	return nil
}
