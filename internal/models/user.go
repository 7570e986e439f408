package models

import (
	"time"

	"dripfit/internal/domain"

	"gorm.io/gorm"
)

type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Username     string `gorm:"uniqueIndex;size:64;not null" json:"username"`
	Email        string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string `gorm:"size:255" json:"-"`
	Role         string `gorm:"size:20;not null;index" json:"role"` // MEMBER | STAFF | ADMIN
	// DropsBalance is the account's global balance across all gyms.
	// Mutated only by the ledger service, never directly.
	DropsBalance int64          `gorm:"not null;default:0" json:"drops_balance"`
	HomeGymID    *uint          `gorm:"index" json:"home_gym_id"` // staff: the gym they work at
	IsActive     bool           `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Memberships []GymMembership `gorm:"foreignKey:UserID" json:"memberships,omitempty"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsStaff() bool  { return u.Role == domain.RoleStaff || u.Role == domain.RoleAdmin }
func (u *User) IsMember() bool { return u.Role == domain.RoleMember }
