package models

import (
	"time"

	"gorm.io/gorm"
)

type Challenge struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	GymID       uint   `gorm:"not null;index" json:"gym_id"`
	Name        string `gorm:"size:128;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	Cadence     string `gorm:"size:20;not null" json:"cadence"` // DAILY, WEEKLY, STREAK, ONE_TIME
	// StreakDays is the rolling window length for STREAK challenges;
	// ignored for other cadences. Zero means the default window.
	StreakDays      int            `json:"streak_days"`
	RequiredMinutes int            `gorm:"not null" json:"required_minutes"`
	MachineType     string         `gorm:"size:30;not null;default:'ANY'" json:"machine_type"` // ANY matches every type
	BountyDrops     int64          `gorm:"not null" json:"bounty_drops"`
	StartDate       time.Time      `gorm:"not null" json:"start_date"`
	EndDate         time.Time      `gorm:"not null" json:"end_date"`
	IsActive        bool           `gorm:"default:true" json:"is_active"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	Gym Gym `gorm:"foreignKey:GymID" json:"-"`
}

func (Challenge) TableName() string {
	return "challenges"
}

// ChallengeProgress accumulates one member's minutes toward one challenge.
// Completed is monotonic: once set it never reverts.
type ChallengeProgress struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	UserID         uint       `gorm:"not null;index:idx_progress_pair,unique" json:"user_id"`
	ChallengeID    uint       `gorm:"not null;index:idx_progress_pair,unique" json:"challenge_id"`
	CurrentMinutes int        `gorm:"not null;default:0" json:"current_minutes"`
	Completed      bool       `gorm:"not null;default:false;index" json:"completed"`
	CompletedAt    *time.Time `json:"completed_at"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	User      User      `gorm:"foreignKey:UserID" json:"-"`
	Challenge Challenge `gorm:"foreignKey:ChallengeID" json:"-"`
}

func (ChallengeProgress) TableName() string {
	return "challenge_progress"
}
