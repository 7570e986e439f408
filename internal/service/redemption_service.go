package service

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"dripfit/config"
	"dripfit/internal/domain"
	"dripfit/internal/models"
	"dripfit/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// codeAlphabet drops easily-confused characters (0/O, 1/I/L) so codes
// survive being read out loud at a front desk.
const codeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

const codeAttempts = 5

// RedemptionFeed receives redemption lifecycle events after they commit.
// The ws hub implements it for the staff dashboard.
type RedemptionFeed interface {
	RedemptionEvent(gymID uint, event string, rd *models.Redemption)
}

type RedemptionService struct {
	db             *gorm.DB
	cfg            *config.DropsConfig
	ledger         *LedgerService
	rewardRepo     *repository.RewardRepository
	redemptionRepo *repository.RedemptionRepository
	notifier       *NotificationService
	feed           RedemptionFeed
	log            *logrus.Logger
}

func NewRedemptionService(
	db *gorm.DB,
	cfg *config.DropsConfig,
	ledger *LedgerService,
	rewardRepo *repository.RewardRepository,
	redemptionRepo *repository.RedemptionRepository,
	notifier *NotificationService,
	feed RedemptionFeed,
	log *logrus.Logger,
) *RedemptionService {
	return &RedemptionService{
		db:             db,
		cfg:            cfg,
		ledger:         ledger,
		rewardRepo:     rewardRepo,
		redemptionRepo: redemptionRepo,
		notifier:       notifier,
		feed:           feed,
		log:            log,
	}
}

// Create exchanges drops for a reward. Stock check, debit, stock decrement
// and the redemption row are one transaction: a redemption exists if and
// only if the debit committed.
func (s *RedemptionService) Create(userID, rewardID, gymID uint) (*models.Redemption, error) {
	var out *models.Redemption
	err := s.db.Transaction(func(tx *gorm.DB) error {
		reward, err := s.rewardRepo.GetForUpdateTx(tx, rewardID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRewardNotFound
			}
			return err
		}
		if !reward.IsActive || reward.GymID != gymID {
			return ErrRewardNotFound
		}
		if reward.Stock != nil && *reward.Stock <= 0 {
			return ErrOutOfStock
		}

		ref := "rdm-" + uuid.New().String()
		if _, err := s.ledger.ApplyTx(tx, userID, -reward.PriceDrops, domain.TxKindSpendRedemption, ref, &gymID); err != nil {
			return err
		}

		if reward.Stock != nil {
			*reward.Stock--
			if err := s.rewardRepo.UpdateTx(tx, reward); err != nil {
				return err
			}
		}

		code, err := s.generateCode(tx, gymID)
		if err != nil {
			return err
		}

		rd := &models.Redemption{
			UserID:      userID,
			RewardID:    rewardID,
			GymID:       gymID,
			Ref:         ref,
			AmountSpent: reward.PriceDrops,
			Code:        code,
			Status:      domain.RedemptionPending,
		}
		if err := s.redemptionRepo.CreateTx(tx, rd); err != nil {
			return err
		}
		rd.Reward = *reward
		out = rd
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{
		"user_id":       userID,
		"reward_id":     rewardID,
		"redemption_id": out.ID,
		"amount":        out.AmountSpent,
	}).Info("redemption created")
	if s.feed != nil {
		s.feed.RedemptionEvent(gymID, "created", out)
	}
	return out, nil
}

// Confirm moves a redemption from PENDING to CONFIRMED. Any other starting
// state fails with ErrInvalidTransition; a double confirm is never silent,
// so staff cannot hand out the same reward twice.
func (s *RedemptionService) Confirm(redemptionID, staffID uint) (*models.Redemption, error) {
	rd, err := s.resolve(redemptionID, staffID, domain.RedemptionConfirmed)
	if err != nil {
		return nil, err
	}
	if s.notifier != nil {
		_ = s.notifier.NotifyRedemptionConfirmed(rd.UserID, rd.ID)
	}
	if s.feed != nil {
		s.feed.RedemptionEvent(rd.GymID, "confirmed", rd)
	}
	return rd, nil
}

// Cancel moves a redemption from PENDING to CANCELLED and refunds the
// drops. Stock is deliberately not restored; restocking is a manual staff
// decision on the reward itself.
func (s *RedemptionService) Cancel(redemptionID, staffID uint) (*models.Redemption, error) {
	rd, err := s.resolve(redemptionID, staffID, domain.RedemptionCancelled)
	if err != nil {
		return nil, err
	}
	if s.notifier != nil {
		_ = s.notifier.NotifyRedemptionCancelled(rd.UserID, rd.ID)
	}
	if s.feed != nil {
		s.feed.RedemptionEvent(rd.GymID, "cancelled", rd)
	}
	return rd, nil
}

func (s *RedemptionService) resolve(redemptionID, staffID uint, target string) (*models.Redemption, error) {
	var out *models.Redemption
	err := s.db.Transaction(func(tx *gorm.DB) error {
		rd, err := s.redemptionRepo.GetForUpdateTx(tx, redemptionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if rd.Status != domain.RedemptionPending {
			return ErrInvalidTransition
		}
		if target == domain.RedemptionCancelled {
			if _, err := s.ledger.ApplyTx(tx, rd.UserID, rd.AmountSpent, domain.TxKindRefund, rd.Ref, &rd.GymID); err != nil {
				return err
			}
		}
		now := time.Now()
		rd.Status = target
		rd.ResolvedAt = &now
		rd.ResolvedBy = &staffID
		if err := s.redemptionRepo.UpdateTx(tx, rd); err != nil {
			return err
		}
		out = rd
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{
		"redemption_id": out.ID,
		"status":        out.Status,
		"staff_id":      staffID,
	}).Info("redemption resolved")
	return out, nil
}

// Validate looks a redemption up by its code within one gym. Read-only;
// staff scanning tools call it before Confirm.
func (s *RedemptionService) Validate(code string, gymID uint) (*models.Redemption, error) {
	rd, err := s.redemptionRepo.GetByCode(code, gymID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return rd, nil
}

// Get returns one redemption scoped to a gym; redemptions at other gyms
// are invisible, same as Validate.
func (s *RedemptionService) Get(redemptionID, gymID uint) (*models.Redemption, error) {
	rd, err := s.redemptionRepo.GetByID(redemptionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if rd.GymID != gymID {
		return nil, ErrNotFound
	}
	return rd, nil
}

func (s *RedemptionService) ListMine(userID uint, limit, offset int) ([]models.Redemption, error) {
	return s.redemptionRepo.ListByUser(userID, limit, offset)
}

func (s *RedemptionService) ListForGym(gymID uint, status string, limit, offset int) ([]models.Redemption, error) {
	return s.redemptionRepo.ListByGym(gymID, status, limit, offset)
}

// generateCode produces a per-gym unique code, regenerating on collision.
// The check happens against the same database the insert targets, never a
// network round trip holding a lock elsewhere.
func (s *RedemptionService) generateCode(tx *gorm.DB, gymID uint) (string, error) {
	for i := 0; i < codeAttempts; i++ {
		code, err := randomCode(s.cfg.CodePrefix, s.cfg.CodeLength)
		if err != nil {
			return "", err
		}
		taken, err := s.redemptionRepo.CodeTakenTx(tx, code, gymID)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", fmt.Errorf("could not allocate a unique redemption code after %d attempts", codeAttempts)
}

func randomCode(prefix string, length int) (string, error) {
	var b strings.Builder
	b.WriteString(prefix)
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(codeAlphabet[n.Int64()])
	}
	return b.String(), nil
}
