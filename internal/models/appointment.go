package models

import (
	"time"

	"gorm.io/gorm"
)

type Appointment struct {
	ID string `gorm:"type:uuid;primaryKey" json:"id"`

	CustomerID   string    `gorm:"type:uuid;not null;uniqueIndex:idx_appointment_customer_shop_date,priority:1" json:"customer_id"`
	BarbershopID string    `gorm:"type:uuid;not null;uniqueIndex:idx_appointment_customer_shop_date,priority:2" json:"barbershop_id"`
	Date         time.Time `gorm:"not null;uniqueIndex:idx_appointment_customer_shop_date,priority:3;index" json:"date"`

	BarberID   string `gorm:"type:uuid;not null;index" json:"barber_id"`
	ServiceID  string `gorm:"type:uuid;not null" json:"service_id"`
	ScheduleID string `gorm:"type:uuid;not null;index" json:"schedule_id"`

	Barbershop *Barbershop `gorm:"foreignKey:BarbershopID" json:"barbershop,omitempty"`
	Barber     *Barber     `gorm:"foreignKey:BarberID" json:"barber,omitempty"`
	Service    *Service    `gorm:"foreignKey:ServiceID" json:"service,omitempty"`
	Schedule   *Schedule   `gorm:"foreignKey:ScheduleID" json:"schedule,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *Appointment) BeforeCreate(*gorm.DB) error {
	ensureID(&a.ID)
	return nil
}
