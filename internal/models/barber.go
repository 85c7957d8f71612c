package models

import (
	"time"

	"gorm.io/gorm"
)

// Barber is a staff member who owns schedules at one shop.
type Barber struct {
	ID           string `gorm:"type:uuid;primaryKey" json:"id"`
	BarbershopID string `gorm:"type:uuid;index;not null" json:"barbershop_id"`

	Name  string `gorm:"size:100;not null" json:"name"`
	Phone string `gorm:"size:20" json:"phone"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *Barber) BeforeCreate(*gorm.DB) error {
	ensureID(&b.ID)
	return nil
}
