package models

import (
	"time"

	"gorm.io/gorm"
)

// Redemption is one exchange of drops for a catalog reward.
// Status machine: PENDING -> CONFIRMED or PENDING -> CANCELLED, nothing else.
type Redemption struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	UserID   uint `gorm:"not null;index" json:"user_id"`
	RewardID uint `gorm:"not null;index" json:"reward_id"`
	GymID    uint `gorm:"not null;index;index:idx_redemption_code,unique" json:"gym_id"`
	// Ref ties the redemption to its ledger entries (debit and any refund).
	Ref string `gorm:"size:64;uniqueIndex;not null" json:"ref"`
	// AmountSpent snapshots the reward price at creation; later catalog
	// edits never change what was charged.
	AmountSpent int64 `gorm:"not null" json:"amount_spent"`
	// Code is the short token the member shows at the front desk.
	// Uppercase, unique per gym.
	Code       string         `gorm:"size:16;not null;index:idx_redemption_code,unique" json:"code"`
	Status     string         `gorm:"size:20;not null;index" json:"status"` // PENDING, CONFIRMED, CANCELLED
	ResolvedAt *time.Time     `json:"resolved_at"`
	ResolvedBy *uint          `json:"resolved_by"` // staff user id
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	User   User   `gorm:"foreignKey:UserID" json:"-"`
	Reward Reward `gorm:"foreignKey:RewardID" json:"reward,omitempty"`
}

func (Redemption) TableName() string {
	return "redemptions"
}
