package repository

import (
	"errors"
	"strings"

	"dripfit/internal/models"

	"gorm.io/gorm"
)

type RedemptionRepository struct {
	db *gorm.DB
}

func NewRedemptionRepository(db *gorm.DB) *RedemptionRepository {
	return &RedemptionRepository{db: db}
}

func (r *RedemptionRepository) CreateTx(tx *gorm.DB, rd *models.Redemption) error {
	return tx.Create(rd).Error
}

func (r *RedemptionRepository) GetByID(id uint) (*models.Redemption, error) {
	var rd models.Redemption
	err := r.db.Preload("Reward").First(&rd, id).Error
	if err != nil {
		return nil, err
	}
	return &rd, nil
}

// GetForUpdateTx loads a redemption under a row lock so status transitions
// serialize; a second confirm sees the first one's terminal state.
func (r *RedemptionRepository) GetForUpdateTx(tx *gorm.DB, id uint) (*models.Redemption, error) {
	var rd models.Redemption
	err := forUpdate(tx).First(&rd, id).Error
	if err != nil {
		return nil, err
	}
	return &rd, nil
}

func (r *RedemptionRepository) UpdateTx(tx *gorm.DB, rd *models.Redemption) error {
	return tx.Save(rd).Error
}

// GetByCode looks up a redemption by its normalized code within one gym.
func (r *RedemptionRepository) GetByCode(code string, gymID uint) (*models.Redemption, error) {
	var rd models.Redemption
	err := r.db.Preload("Reward").
		Where("code = ? AND gym_id = ?", strings.ToUpper(strings.TrimSpace(code)), gymID).
		First(&rd).Error
	if err != nil {
		return nil, err
	}
	return &rd, nil
}

// CodeTakenTx reports whether a code is already used at a gym.
func (r *RedemptionRepository) CodeTakenTx(tx *gorm.DB, code string, gymID uint) (bool, error) {
	var rd models.Redemption
	err := tx.Where("code = ? AND gym_id = ?", code, gymID).First(&rd).Error
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, err
}

func (r *RedemptionRepository) ListByUser(userID uint, limit, offset int) ([]models.Redemption, error) {
	var rds []models.Redemption
	err := r.db.Preload("Reward").
		Where("user_id = ?", userID).
		Order("id DESC").
		Limit(limit).Offset(offset).
		Find(&rds).Error
	return rds, err
}

func (r *RedemptionRepository) ListByGym(gymID uint, status string, limit, offset int) ([]models.Redemption, error) {
	q := r.db.Preload("Reward").Where("gym_id = ?", gymID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var rds []models.Redemption
	err := q.Order("id DESC").Limit(limit).Offset(offset).Find(&rds).Error
	return rds, err
}
