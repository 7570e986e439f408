package models

import (
	"time"

	"gorm.io/gorm"
)

type Reward struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	GymID       uint   `gorm:"not null;index" json:"gym_id"`
	Name        string `gorm:"size:128;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	PriceDrops  int64  `gorm:"not null" json:"price_drops"`
	// Stock is nil for unlimited rewards. Decremented only by the
	// redemption workflow, inside the same transaction as the debit.
	Stock     *int64         `json:"stock"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Gym Gym `gorm:"foreignKey:GymID" json:"-"`
}

func (Reward) TableName() string {
	return "rewards"
}
