package models

import (
	"time"

	"gorm.io/gorm"
)

type Gym struct {
	ID       uint    `gorm:"primaryKey" json:"id"`
	Name     string  `gorm:"size:128;not null" json:"name"`
	Address  string  `gorm:"size:255" json:"address"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Timezone string  `gorm:"size:64;default:'UTC'" json:"timezone"`
	// DropsPerTenMinutes is the session earn rate: drops credited per full
	// ten minutes of workout time at this gym.
	DropsPerTenMinutes int64          `gorm:"not null;default:1" json:"drops_per_ten_minutes"`
	IsActive           bool           `gorm:"default:true" json:"is_active"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Gym) TableName() string {
	return "gyms"
}

// GymMembership tracks the slice of a user's drops earned and spendable at
// one gym. Created lazily on the first gym-scoped earn. LocalBalance is
// mutated only by the ledger service.
type GymMembership struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	UserID       uint           `gorm:"not null;index:idx_membership_pair,unique" json:"user_id"`
	GymID        uint           `gorm:"not null;index:idx_membership_pair,unique" json:"gym_id"`
	LocalBalance int64          `gorm:"not null;default:0" json:"local_balance"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
	Gym  Gym  `gorm:"foreignKey:GymID" json:"-"`
}

func (GymMembership) TableName() string {
	return "gym_memberships"
}
