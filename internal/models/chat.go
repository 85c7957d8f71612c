package models

import (
	"time"

	"gorm.io/gorm"
)

// Chat is the resumable booking conversation of one phone number. Empty
// strings mean the slot has not been filled yet.
type Chat struct {
	ID    string `gorm:"type:uuid;primaryKey" json:"id"`
	Phone string `gorm:"size:20;not null;index" json:"phone"`
	Name  string `gorm:"size:100" json:"name"`

	Email      string `gorm:"size:100" json:"email"`
	Document   string `gorm:"size:14" json:"document"`
	CustomerID string `gorm:"size:36" json:"customer_id"`

	BarbershopID string `gorm:"size:36" json:"barbershop_id"`
	BarberID     string `gorm:"size:36" json:"barber_id"`
	ServiceID    string `gorm:"size:36" json:"service_id"`
	Date         string `gorm:"size:10" json:"date"`
	Time         string `gorm:"size:5" json:"time"`
	ScheduleID   string `gorm:"size:36" json:"schedule_id"`

	AppointmentID string `gorm:"size:36" json:"appointment_id"`
	OrderID       string `gorm:"size:36" json:"order_id"`
	PixCode       string `gorm:"type:text" json:"-"`

	Finished    bool `gorm:"default:false;index" json:"finished"`
	IsCanceling bool `gorm:"default:false" json:"is_canceling"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Chat) BeforeCreate(*gorm.DB) error {
	ensureID(&c.ID)
	return nil
}
