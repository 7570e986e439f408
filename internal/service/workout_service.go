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

var ErrSessionTooShort = errors.New("session too short to record")

// SessionResult is what the mobile app gets back when a workout segment
// ends: the stored session, the session credit, and any challenge payouts.
type SessionResult struct {
	Session     *models.WorkoutSession `json:"session"`
	DropsEarned int64                  `json:"drops_earned"`
	Challenges  []CompletionResult     `json:"challenges"`
}

type WorkoutService struct {
	db          *gorm.DB
	cfg         *config.DropsConfig
	ledger      *LedgerService
	challenges  *ChallengeService
	sessionRepo *repository.SessionRepository
	gymRepo     *repository.GymRepository
	log         *logrus.Logger
}

func NewWorkoutService(
	db *gorm.DB,
	cfg *config.DropsConfig,
	ledger *LedgerService,
	challenges *ChallengeService,
	sessionRepo *repository.SessionRepository,
	gymRepo *repository.GymRepository,
	log *logrus.Logger,
) *WorkoutService {
	return &WorkoutService{
		db:          db,
		cfg:         cfg,
		ledger:      ledger,
		challenges:  challenges,
		sessionRepo: sessionRepo,
		gymRepo:     gymRepo,
		log:         log,
	}
}

// CompleteSession records a finished workout segment, credits session drops
// at the gym's earn rate, and feeds the minutes into challenge progress.
// Everything commits as one transaction.
func (s *WorkoutService) CompleteSession(userID, gymID uint, machineType string, minutes int, startedAt time.Time) (*SessionResult, error) {
	if minutes < s.cfg.MinSessionMinutes {
		return nil, ErrSessionTooShort
	}
	gym, err := s.gymRepo.GetByID(gymID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	now := time.Now()
	var out SessionResult
	err = s.db.Transaction(func(tx *gorm.DB) error {
		session := &models.WorkoutSession{
			UserID:      userID,
			GymID:       gymID,
			MachineType: machineType,
			Minutes:     minutes,
			StartedAt:   startedAt,
			EndedAt:     now,
		}
		if err := s.sessionRepo.CreateTx(tx, session); err != nil {
			return err
		}

		earned := gym.DropsPerTenMinutes * int64(minutes/10)
		if earned > 0 {
			ref := fmt.Sprintf("session-%d", session.ID)
			if _, err := s.ledger.ApplyTx(tx, userID, earned, domain.TxKindEarnSession, ref, &gymID); err != nil {
				return err
			}
			session.DropsEarned = earned
			if err := s.sessionRepo.UpdateTx(tx, session); err != nil {
				return err
			}
		}

		completions, err := s.challenges.RecordMinutesTx(tx, userID, gymID, machineType, minutes, now)
		if err != nil {
			return err
		}
		out = SessionResult{Session: session, DropsEarned: earned, Challenges: completions}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{
		"user_id": userID,
		"gym_id":  gymID,
		"minutes": minutes,
		"earned":  out.DropsEarned,
	}).Debug("workout session recorded")
	return &out, nil
}

func (s *WorkoutService) ListSessions(userID uint, limit, offset int) ([]models.WorkoutSession, error) {
	return s.sessionRepo.ListByUser(userID, limit, offset)
}
