package service

import (
	"dripfit/internal/models"
	"dripfit/internal/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// LedgerService is the only code path that mutates drops balances. Every
// apply is one database transaction: balance check, balance update and
// ledger insert commit together or not at all.
type LedgerService struct {
	db         *gorm.DB
	userRepo   *repository.UserRepository
	memberRepo *repository.MembershipRepository
	txRepo     *repository.TransactionRepository
	log        *logrus.Logger
}

func NewLedgerService(
	db *gorm.DB,
	userRepo *repository.UserRepository,
	memberRepo *repository.MembershipRepository,
	txRepo *repository.TransactionRepository,
	log *logrus.Logger,
) *LedgerService {
	return &LedgerService{db: db, userRepo: userRepo, memberRepo: memberRepo, txRepo: txRepo, log: log}
}

// Apply credits (amount > 0) or debits (amount < 0) an account and appends
// the matching ledger entry. When gymID is set the gym-local balance moves
// by the same amount. A non-empty reference makes the call idempotent:
// a second apply with the same (kind, reference) fails with
// ErrDuplicateApplication instead of paying twice.
func (s *LedgerService) Apply(userID uint, amount int64, kind, reference string, gymID *uint) (*models.DropTransaction, error) {
	var out *models.DropTransaction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		t, err := s.ApplyTx(tx, userID, amount, kind, reference, gymID)
		if err != nil {
			return err
		}
		out = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{
		"user_id": userID,
		"amount":  amount,
		"kind":    kind,
		"ref":     reference,
	}).Debug("ledger apply")
	return out, nil
}

// ApplyTx is Apply inside a caller-owned transaction, so redemption and
// challenge flows commit their debit/credit together with their own rows.
func (s *LedgerService) ApplyTx(tx *gorm.DB, userID uint, amount int64, kind, reference string, gymID *uint) (*models.DropTransaction, error) {
	// Lock the account row first; all concurrent applies against this
	// account serialize here.
	u, err := s.userRepo.GetForUpdateTx(tx, userID)
	if err != nil {
		return nil, err
	}

	if reference != "" {
		exists, err := s.txRepo.ExistsTx(tx, kind, reference)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrDuplicateApplication
		}
	}

	var membership *models.GymMembership
	if gymID != nil {
		membership, err = s.memberRepo.GetOrCreateForUpdateTx(tx, userID, *gymID)
		if err != nil {
			return nil, err
		}
	}

	if amount < 0 {
		if u.DropsBalance+amount < 0 {
			return nil, ErrInsufficientBalance
		}
		if membership != nil && membership.LocalBalance+amount < 0 {
			return nil, ErrInsufficientBalance
		}
	}

	// Insert the ledger entry before touching any balance. The unique
	// (kind, reference) index backstops the ExistsTx check; hitting it
	// here means nothing has been mutated yet, so a caller that tolerates
	// ErrDuplicateApplication can commit safely.
	entry := &models.DropTransaction{
		UserID: userID,
		Amount: amount,
		Kind:   kind,
		GymID:  gymID,
	}
	if reference != "" {
		entry.Reference = &reference
	}
	if err := s.txRepo.CreateTx(tx, entry); err != nil {
		if isDuplicateKey(err) {
			return nil, ErrDuplicateApplication
		}
		return nil, err
	}

	u.DropsBalance += amount
	if err := tx.Model(u).Update("drops_balance", u.DropsBalance).Error; err != nil {
		return nil, err
	}
	if membership != nil {
		membership.LocalBalance += amount
		if err := tx.Model(membership).Update("local_balance", membership.LocalBalance).Error; err != nil {
			return nil, err
		}
	}
	return entry, nil
}

// Balances returns the global balance plus every per-gym local balance.
func (s *LedgerService) Balances(userID uint) (int64, []models.GymMembership, error) {
	u, err := s.userRepo.GetByID(userID)
	if err != nil {
		return 0, nil, err
	}
	ms, err := s.memberRepo.ListByUser(userID)
	if err != nil {
		return 0, nil, err
	}
	return u.DropsBalance, ms, nil
}

func (s *LedgerService) History(userID uint, limit, offset int) ([]models.DropTransaction, error) {
	return s.txRepo.ListByUser(userID, limit, offset)
}
