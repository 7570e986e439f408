package models

import (
	"time"

	"gorm.io/gorm"
)

// WorkoutSession is one completed workout segment reported by the mobile
// app. It is the source event for session drops and challenge minutes.
type WorkoutSession struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UserID      uint           `gorm:"not null;index" json:"user_id"`
	GymID       uint           `gorm:"not null;index" json:"gym_id"`
	MachineType string         `gorm:"size:30;not null" json:"machine_type"`
	Minutes     int            `gorm:"not null" json:"minutes"`
	StartedAt   time.Time      `json:"started_at"`
	EndedAt     time.Time      `json:"ended_at"`
	DropsEarned int64          `gorm:"not null;default:0" json:"drops_earned"`
	CreatedAt   time.Time      `json:"created_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
	Gym  Gym  `gorm:"foreignKey:GymID" json:"-"`
}

func (WorkoutSession) TableName() string {
	return "workout_sessions"
}
