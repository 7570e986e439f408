package repository

import (
	"errors"

	"dripfit/internal/models"

	"gorm.io/gorm"
)

type MembershipRepository struct {
	db *gorm.DB
}

func NewMembershipRepository(db *gorm.DB) *MembershipRepository {
	return &MembershipRepository{db: db}
}

func (r *MembershipRepository) Get(userID, gymID uint) (*models.GymMembership, error) {
	var m models.GymMembership
	err := r.db.Where("user_id = ? AND gym_id = ?", userID, gymID).First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MembershipRepository) ListByUser(userID uint) ([]models.GymMembership, error) {
	var ms []models.GymMembership
	err := r.db.Where("user_id = ?", userID).Find(&ms).Error
	return ms, err
}

// GetOrCreateForUpdateTx loads the (user, gym) membership under a row lock,
// creating it with a zero local balance on first use at that gym.
func (r *MembershipRepository) GetOrCreateForUpdateTx(tx *gorm.DB, userID, gymID uint) (*models.GymMembership, error) {
	var m models.GymMembership
	err := forUpdate(tx).
		Where("user_id = ? AND gym_id = ?", userID, gymID).
		First(&m).Error
	if err == nil {
		return &m, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	m = models.GymMembership{UserID: userID, GymID: gymID, LocalBalance: 0}
	if err := tx.Create(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}
