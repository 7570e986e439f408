package repository

import (
	"dripfit/internal/models"

	"gorm.io/gorm"
)

type RewardRepository struct {
	db *gorm.DB
}

func NewRewardRepository(db *gorm.DB) *RewardRepository {
	return &RewardRepository{db: db}
}

func (r *RewardRepository) Create(rw *models.Reward) error {
	return r.db.Create(rw).Error
}

func (r *RewardRepository) GetByID(id uint) (*models.Reward, error) {
	var rw models.Reward
	err := r.db.First(&rw, id).Error
	if err != nil {
		return nil, err
	}
	return &rw, nil
}

func (r *RewardRepository) ListByGym(gymID uint, activeOnly bool) ([]models.Reward, error) {
	q := r.db.Where("gym_id = ?", gymID)
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var rewards []models.Reward
	err := q.Order("price_drops").Find(&rewards).Error
	return rewards, err
}

func (r *RewardRepository) Update(rw *models.Reward) error {
	return r.db.Save(rw).Error
}

// GetForUpdateTx loads a reward under a row lock so stock checks and
// decrements serialize with concurrent redemptions.
func (r *RewardRepository) GetForUpdateTx(tx *gorm.DB, id uint) (*models.Reward, error) {
	var rw models.Reward
	err := forUpdate(tx).First(&rw, id).Error
	if err != nil {
		return nil, err
	}
	return &rw, nil
}

func (r *RewardRepository) UpdateTx(tx *gorm.DB, rw *models.Reward) error {
	return tx.Save(rw).Error
}
