package models

import (
	"time"

	"gorm.io/gorm"
)

type Customer struct {
	ID string `gorm:"type:uuid;primaryKey" json:"id"`

	Name         string `gorm:"size:100;not null" json:"name"`
	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Phone        string `gorm:"size:20;index" json:"phone"`
	Document     string `gorm:"size:14" json:"document"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`

	GatewayCustomerID string `gorm:"size:100" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Customer) BeforeCreate(*gorm.DB) error {
	ensureID(&c.ID)
	return nil
}
