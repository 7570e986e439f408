package repository

import (
	"dripfit/internal/models"

	"gorm.io/gorm"
)

type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) CreateTx(tx *gorm.DB, s *models.WorkoutSession) error {
	return tx.Create(s).Error
}

func (r *SessionRepository) UpdateTx(tx *gorm.DB, s *models.WorkoutSession) error {
	return tx.Save(s).Error
}

func (r *SessionRepository) ListByUser(userID uint, limit, offset int) ([]models.WorkoutSession, error) {
	var ss []models.WorkoutSession
	err := r.db.Where("user_id = ?", userID).
		Order("ended_at DESC").
		Limit(limit).Offset(offset).
		Find(&ss).Error
	return ss, err
}
