package repository

import (
	"dripfit/internal/models"

	"gorm.io/gorm"
)

type GymRepository struct {
	db *gorm.DB
}

func NewGymRepository(db *gorm.DB) *GymRepository {
	return &GymRepository{db: db}
}

func (r *GymRepository) Create(g *models.Gym) error {
	return r.db.Create(g).Error
}

func (r *GymRepository) GetByID(id uint) (*models.Gym, error) {
	var g models.Gym
	err := r.db.First(&g, id).Error
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *GymRepository) ListActive() ([]models.Gym, error) {
	var gyms []models.Gym
	err := r.db.Where("is_active = ?", true).Order("name").Find(&gyms).Error
	return gyms, err
}

func (r *GymRepository) Update(g *models.Gym) error {
	return r.db.Save(g).Error
}
