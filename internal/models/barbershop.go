package models

import (
	"time"

	"gorm.io/gorm"
)

type Barbershop struct {
	ID       string `gorm:"type:uuid;primaryKey" json:"id"`
	Name     string `gorm:"size:100;not null" json:"name"`
	Slug     string `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Phone    string `gorm:"size:20" json:"phone"`
	Address  string `gorm:"size:255" json:"address"`
	Timezone string `gorm:"size:64" json:"timezone"`

	// Fee is the platform percentage added on top of service prices.
	Fee             int   `gorm:"default:0" json:"fee"`
	WeeksToSchedule int   `gorm:"default:2" json:"weeks_to_schedule"`
	LoyaltyStamps   int   `gorm:"default:10" json:"loyalty_stamps"`
	LoyaltyReward   int64 `gorm:"default:4000" json:"loyalty_reward"`
	Hidden          bool  `gorm:"default:false" json:"hidden"`

	// ReceiverID identifies the shop at the payment gateway.
	ReceiverID string `gorm:"size:100" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *Barbershop) BeforeCreate(*gorm.DB) error {
	ensureID(&b.ID)
	return nil
}
