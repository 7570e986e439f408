package service

import (
	"errors"
	"fmt"
	"time"

	"dripfit/config"
	"dripfit/internal/domain"
	"dripfit/internal/models"
	"dripfit/internal/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// CompletionResult reports, per challenge touched by a workout, whether the
// challenge crossed its goal and how many drops were paid out.
type CompletionResult struct {
	ChallengeID    uint   `json:"challenge_id"`
	ChallengeName  string `json:"challenge_name"`
	CurrentMinutes int    `json:"current_minutes"`
	NewlyCompleted bool   `json:"newly_completed"`
	DropsAwarded   int64  `json:"drops_awarded"`
}

type ChallengeService struct {
	db            *gorm.DB
	cfg           *config.DropsConfig
	ledger        *LedgerService
	challengeRepo *repository.ChallengeRepository
	notifier      *NotificationService
	log           *logrus.Logger
}

func NewChallengeService(
	db *gorm.DB,
	cfg *config.DropsConfig,
	ledger *LedgerService,
	challengeRepo *repository.ChallengeRepository,
	notifier *NotificationService,
	log *logrus.Logger,
) *ChallengeService {
	return &ChallengeService{
		db:            db,
		cfg:           cfg,
		ledger:        ledger,
		challengeRepo: challengeRepo,
		notifier:      notifier,
		log:           log,
	}
}

// RecordMinutes feeds one workout segment into every matching challenge at
// the gym. Each challenge's progress update, completion flip and bounty
// credit run in their own transaction; the bounty reference makes a
// retried call pay at most once.
func (s *ChallengeService) RecordMinutes(userID, gymID uint, machineType string, minutes int, now time.Time) ([]CompletionResult, error) {
	return s.recordMinutes(s.db, userID, gymID, machineType, minutes, now)
}

// RecordMinutesTx is RecordMinutes inside a caller-owned transaction, used
// by the workout flow so session credit and challenge progress commit as
// one unit.
func (s *ChallengeService) RecordMinutesTx(tx *gorm.DB, userID, gymID uint, machineType string, minutes int, now time.Time) ([]CompletionResult, error) {
	return s.recordMinutes(tx, userID, gymID, machineType, minutes, now)
}

func (s *ChallengeService) recordMinutes(db *gorm.DB, userID, gymID uint, machineType string, minutes int, now time.Time) ([]CompletionResult, error) {
	challenges, err := s.challengeRepo.ListActiveByGymTx(db, gymID, now)
	if err != nil {
		return nil, err
	}

	results := make([]CompletionResult, 0, len(challenges))
	for _, ch := range challenges {
		if !machineMatches(ch.MachineType, machineType) {
			continue
		}
		if !s.window(&ch, now).contains(now) {
			continue
		}
		res, err := s.applyProgress(db, &ch, userID, gymID, minutes, now)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

func (s *ChallengeService) applyProgress(db *gorm.DB, ch *models.Challenge, userID, gymID uint, minutes int, now time.Time) (CompletionResult, error) {
	var res CompletionResult
	err := db.Transaction(func(tx *gorm.DB) error {
		progress, err := s.challengeRepo.GetOrCreateProgressForUpdateTx(tx, userID, ch.ID)
		if err != nil {
			return err
		}
		res = CompletionResult{ChallengeID: ch.ID, ChallengeName: ch.Name}
		if progress.Completed {
			// Completed is monotonic; extra minutes change nothing.
			res.CurrentMinutes = progress.CurrentMinutes
			return nil
		}

		progress.CurrentMinutes += minutes
		if progress.CurrentMinutes >= ch.RequiredMinutes {
			ref := fmt.Sprintf("challenge-%d-user-%d", ch.ID, userID)
			if _, err := s.ledger.ApplyTx(tx, userID, ch.BountyDrops, domain.TxKindEarnChallenge, ref, &gymID); err != nil {
				// A duplicate reference means the bounty was already
				// paid in a prior attempt; finish the completion flip
				// without paying again.
				if !errors.Is(err, ErrDuplicateApplication) {
					return err
				}
			} else {
				res.DropsAwarded = ch.BountyDrops
			}
			completedAt := now
			progress.Completed = true
			progress.CompletedAt = &completedAt
			res.NewlyCompleted = true
		}
		res.CurrentMinutes = progress.CurrentMinutes
		return s.challengeRepo.UpdateProgressTx(tx, progress)
	})
	if err != nil {
		return CompletionResult{}, err
	}
	if res.NewlyCompleted {
		s.log.WithFields(logrus.Fields{
			"user_id":      userID,
			"challenge_id": ch.ID,
			"bounty":       res.DropsAwarded,
		}).Info("challenge completed")
		if s.notifier != nil {
			_ = s.notifier.NotifyChallengeCompleted(userID, ch.ID, ch.Name, res.DropsAwarded)
		}
	}
	return res, nil
}

// ListForGym returns a gym's challenges with the member's own progress.
func (s *ChallengeService) ListForGym(userID, gymID uint) ([]models.Challenge, map[uint]models.ChallengeProgress, error) {
	challenges, err := s.challengeRepo.ListByGym(gymID)
	if err != nil {
		return nil, nil, err
	}
	ids := make([]uint, len(challenges))
	for i, ch := range challenges {
		ids[i] = ch.ID
	}
	byChallenge := make(map[uint]models.ChallengeProgress)
	if len(ids) > 0 {
		progress, err := s.challengeRepo.ListProgressByUser(userID, ids)
		if err != nil {
			return nil, nil, err
		}
		for _, p := range progress {
			byChallenge[p.ChallengeID] = p
		}
	}
	return challenges, byChallenge, nil
}

func machineMatches(filter, machineType string) bool {
	return filter == domain.MachineTypeAny || filter == machineType
}

// dateWindow is a half-open [From, Until) range in the gym's day terms.
type dateWindow struct {
	From  time.Time
	Until time.Time
}

func (w dateWindow) contains(t time.Time) bool {
	return !t.Before(w.From) && t.Before(w.Until)
}

// window computes the cadence-specific progress window relative to now.
// Pure date arithmetic; the challenge's own start/end dates still bound
// whether it is active at all.
func (s *ChallengeService) window(ch *models.Challenge, now time.Time) dateWindow {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch ch.Cadence {
	case domain.CadenceDaily:
		return dateWindow{From: dayStart, Until: dayStart.AddDate(0, 0, 1)}
	case domain.CadenceWeekly:
		// ISO week: Monday through Sunday.
		offset := (int(now.Weekday()) + 6) % 7
		weekStart := dayStart.AddDate(0, 0, -offset)
		return dateWindow{From: weekStart, Until: weekStart.AddDate(0, 0, 7)}
	case domain.CadenceStreak:
		days := ch.StreakDays
		if days <= 0 {
			days = s.cfg.DefaultStreakDays
		}
		return dateWindow{From: dayStart.AddDate(0, 0, -(days - 1)), Until: dayStart.AddDate(0, 0, 1)}
	default: // ONE_TIME: the challenge's full date range
		return dateWindow{From: ch.StartDate, Until: ch.EndDate.AddDate(0, 0, 1)}
	}
}
