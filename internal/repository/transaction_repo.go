package repository

import (
	"errors"

	"dripfit/internal/models"

	"gorm.io/gorm"
)

type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) CreateTx(tx *gorm.DB, t *models.DropTransaction) error {
	return tx.Create(t).Error
}

// ExistsTx reports whether a ledger entry with this (kind, reference) pair
// already exists. Checked inside the owning transaction, after the account
// row is locked; the unique index is the backstop.
func (r *TransactionRepository) ExistsTx(tx *gorm.DB, kind, reference string) (bool, error) {
	var t models.DropTransaction
	err := tx.Where("kind = ? AND reference = ?", kind, reference).First(&t).Error
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, err
}

func (r *TransactionRepository) ListByUser(userID uint, limit, offset int) ([]models.DropTransaction, error) {
	var txs []models.DropTransaction
	err := r.db.Where("user_id = ?", userID).
		Order("id DESC").
		Limit(limit).Offset(offset).
		Find(&txs).Error
	return txs, err
}

// SumByUser returns the sum of all ledger amounts for one account.
func (r *TransactionRepository) SumByUser(userID uint) (int64, error) {
	var sum int64
	err := r.db.Model(&models.DropTransaction{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum).Error
	return sum, err
}

// SumByUserAndGym returns the sum of gym-scoped ledger amounts for one
// (account, gym) pair.
func (r *TransactionRepository) SumByUserAndGym(userID, gymID uint) (int64, error) {
	var sum int64
	err := r.db.Model(&models.DropTransaction{}).
		Where("user_id = ? AND gym_id = ?", userID, gymID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum).Error
	return sum, err
}
