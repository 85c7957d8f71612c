package models

import (
	"time"

	"gorm.io/gorm"
)

// Schedule is a recurring weekly slot for one barber at one shop.
type Schedule struct {
	ID           string `gorm:"type:uuid;primaryKey" json:"id"`
	BarbershopID string `gorm:"type:uuid;index;not null" json:"barbershop_id"`
	BarberID     string `gorm:"type:uuid;index;not null" json:"barber_id"`

	// Weekday follows time.Weekday (0 = Sunday). Nil rows are never bookable.
	Weekday *int   `json:"weekday"`
	Time    string `gorm:"size:5" json:"time"`
	// Limit nil means unlimited.
	Limit *int `gorm:"column:capacity_limit" json:"limit"`

	Appointments  []Appointment  `gorm:"foreignKey:ScheduleID" json:"-"`
	Subscriptions []Subscription `gorm:"foreignKey:ScheduleID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Schedule) BeforeCreate(*gorm.DB) error {
	ensureID(&s.ID)
	return nil
}
