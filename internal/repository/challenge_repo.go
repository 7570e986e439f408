package repository

import (
	"errors"
	"time"

	"dripfit/internal/models"

	"gorm.io/gorm"
)

type ChallengeRepository struct {
	db *gorm.DB
}

func NewChallengeRepository(db *gorm.DB) *ChallengeRepository {
	return &ChallengeRepository{db: db}
}

func (r *ChallengeRepository) Create(ch *models.Challenge) error {
	return r.db.Create(ch).Error
}

func (r *ChallengeRepository) GetByID(id uint) (*models.Challenge, error) {
	var ch models.Challenge
	err := r.db.First(&ch, id).Error
	if err != nil {
		return nil, err
	}
	return &ch, nil
}

func (r *ChallengeRepository) Update(ch *models.Challenge) error {
	return r.db.Save(ch).Error
}

// ListActiveByGymTx returns the challenges at a gym whose date range covers
// now, reading through the caller's transaction handle.
func (r *ChallengeRepository) ListActiveByGymTx(tx *gorm.DB, gymID uint, now time.Time) ([]models.Challenge, error) {
	var chs []models.Challenge
	err := tx.Where("gym_id = ? AND is_active = ? AND start_date <= ? AND end_date >= ?",
		gymID, true, now, now).
		Find(&chs).Error
	return chs, err
}

func (r *ChallengeRepository) ListByGym(gymID uint) ([]models.Challenge, error) {
	var chs []models.Challenge
	err := r.db.Where("gym_id = ?", gymID).Order("end_date").Find(&chs).Error
	return chs, err
}

func (r *ChallengeRepository) GetProgress(userID, challengeID uint) (*models.ChallengeProgress, error) {
	var p models.ChallengeProgress
	err := r.db.Where("user_id = ? AND challenge_id = ?", userID, challengeID).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ChallengeRepository) ListProgressByUser(userID uint, challengeIDs []uint) ([]models.ChallengeProgress, error) {
	var ps []models.ChallengeProgress
	err := r.db.Where("user_id = ? AND challenge_id IN ?", userID, challengeIDs).Find(&ps).Error
	return ps, err
}

// GetOrCreateProgressForUpdateTx loads the (user, challenge) progress row
// under a row lock, creating it at zero minutes on first activity.
func (r *ChallengeRepository) GetOrCreateProgressForUpdateTx(tx *gorm.DB, userID, challengeID uint) (*models.ChallengeProgress, error) {
	var p models.ChallengeProgress
	err := forUpdate(tx).
		Where("user_id = ? AND challenge_id = ?", userID, challengeID).
		First(&p).Error
	if err == nil {
		return &p, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	p = models.ChallengeProgress{UserID: userID, ChallengeID: challengeID}
	if err := tx.Create(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ChallengeRepository) UpdateProgressTx(tx *gorm.DB, p *models.ChallengeProgress) error {
	return tx.Save(p).Error
}
