package models

import (
	"time"

	"gorm.io/gorm"
)

type Service struct {
	ID           string `gorm:"type:uuid;primaryKey" json:"id"`
	BarbershopID string `gorm:"type:uuid;index;not null" json:"barbershop_id"`

	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"size:255" json:"description"`
	// Amount is the price in cents; zero means free.
	Amount int64 `gorm:"default:0" json:"amount"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Service) BeforeCreate(*gorm.DB) error {
	ensureID(&s.ID)
	return nil
}
