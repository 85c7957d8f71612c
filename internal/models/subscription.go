package models

import (
	"time"

	"gorm.io/gorm"
)

type Plan struct {
	ID           string `gorm:"type:uuid;primaryKey" json:"id"`
	BarbershopID string `gorm:"type:uuid;index;not null" json:"barbershop_id"`
	ServiceID    string `gorm:"type:uuid;not null" json:"service_id"`

	Interval string `gorm:"size:10;default:'week'" json:"interval"`
	Price    int64  `json:"price"`

	Service *Service `gorm:"foreignKey:ServiceID" json:"service,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Plan) BeforeCreate(*gorm.DB) error {
	ensureID(&p.ID)
	return nil
}

type Subscription struct {
	ID           string `gorm:"type:uuid;primaryKey" json:"id"`
	CustomerID   string `gorm:"type:uuid;not null;index" json:"customer_id"`
	BarbershopID string `gorm:"type:uuid;index" json:"barbershop_id"`
	BarberID     string `gorm:"type:uuid" json:"barber_id"`
	ScheduleID   string `gorm:"type:uuid;index" json:"schedule_id"`
	PlanID       string `gorm:"type:uuid" json:"plan_id"`

	Active     bool       `gorm:"default:false;index" json:"active"`
	CanceledAt *time.Time `json:"canceled_at"`

	GatewaySubscriptionID string `gorm:"size:100" json:"-"`

	Customer *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Plan     *Plan     `gorm:"foreignKey:PlanID" json:"plan,omitempty"`
	Schedule *Schedule `gorm:"foreignKey:ScheduleID" json:"schedule,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Subscription) BeforeCreate(*gorm.DB) error {
	ensureID(&s.ID)
	return nil
}
