package service

import (
	"fmt"
	"io"
	"testing"
	"time"

	"dripfit/config"
	"dripfit/internal/database"
	"dripfit/internal/domain"
	"dripfit/internal/models"
	"dripfit/internal/repository"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type testEnv struct {
	db          *gorm.DB
	ledger      *LedgerService
	redemptions *RedemptionService
	challenges  *ChallengeService
	workouts    *WorkoutService

	txRepo         *repository.TransactionRepository
	memberRepo     *repository.MembershipRepository
	rewardRepo     *repository.RewardRepository
	redemptionRepo *repository.RedemptionRepository
	challengeRepo  *repository.ChallengeRepository
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection keeps every goroutine on the same in-memory DB.
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.AutoMigrate(db))
	return db
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newTestDB(t)

	log := logrus.New()
	log.SetOutput(io.Discard)

	cfg := &config.DropsConfig{
		CodePrefix:        "DRP-",
		CodeLength:        6,
		DefaultStreakDays: 7,
		MinSessionMinutes: 1,
	}

	userRepo := repository.NewUserRepository(db)
	memberRepo := repository.NewMembershipRepository(db)
	txRepo := repository.NewTransactionRepository(db)
	rewardRepo := repository.NewRewardRepository(db)
	redemptionRepo := repository.NewRedemptionRepository(db)
	challengeRepo := repository.NewChallengeRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	gymRepo := repository.NewGymRepository(db)
	notifier := NewNotificationService(repository.NewNotificationRepository(db))

	ledger := NewLedgerService(db, userRepo, memberRepo, txRepo, log)
	challenges := NewChallengeService(db, cfg, ledger, challengeRepo, notifier, log)

	return &testEnv{
		db:             db,
		ledger:         ledger,
		redemptions:    NewRedemptionService(db, cfg, ledger, rewardRepo, redemptionRepo, notifier, nil, log),
		challenges:     challenges,
		workouts:       NewWorkoutService(db, cfg, ledger, challenges, sessionRepo, gymRepo, log),
		txRepo:         txRepo,
		memberRepo:     memberRepo,
		rewardRepo:     rewardRepo,
		redemptionRepo: redemptionRepo,
		challengeRepo:  challengeRepo,
	}
}

var testSeq int

func (e *testEnv) createUser(t *testing.T) *models.User {
	t.Helper()
	testSeq++
	u := &models.User{
		Username: fmt.Sprintf("member%d", testSeq),
		Email:    fmt.Sprintf("member%d@example.com", testSeq),
		Role:     domain.RoleMember,
		IsActive: true,
	}
	require.NoError(t, e.db.Create(u).Error)
	return u
}

// createFundedUser seeds a member with drops through the ledger itself so
// the balance/ledger-sum invariant holds from the first row.
func (e *testEnv) createFundedUser(t *testing.T, amount int64, gymID *uint) *models.User {
	t.Helper()
	u := e.createUser(t)
	if amount > 0 {
		_, err := e.ledger.Apply(u.ID, amount, domain.TxKindEarnSession, fmt.Sprintf("seed-%d", u.ID), gymID)
		require.NoError(t, err)
		u.DropsBalance = amount
	}
	return u
}

func (e *testEnv) createGym(t *testing.T, ratePerTenMinutes int64) *models.Gym {
	t.Helper()
	testSeq++
	g := &models.Gym{
		Name:               fmt.Sprintf("Gym %d", testSeq),
		DropsPerTenMinutes: ratePerTenMinutes,
		IsActive:           true,
	}
	require.NoError(t, e.db.Create(g).Error)
	return g
}

func (e *testEnv) createReward(t *testing.T, gymID uint, price int64, stock *int64) *models.Reward {
	t.Helper()
	testSeq++
	r := &models.Reward{
		GymID:      gymID,
		Name:       fmt.Sprintf("Reward %d", testSeq),
		PriceDrops: price,
		Stock:      stock,
		IsActive:   true,
	}
	require.NoError(t, e.db.Create(r).Error)
	return r
}

func (e *testEnv) createChallenge(t *testing.T, gymID uint, cadence, machineType string, requiredMinutes int, bounty int64) *models.Challenge {
	t.Helper()
	testSeq++
	now := time.Now()
	ch := &models.Challenge{
		GymID:           gymID,
		Name:            fmt.Sprintf("Challenge %d", testSeq),
		Cadence:         cadence,
		RequiredMinutes: requiredMinutes,
		MachineType:     machineType,
		BountyDrops:     bounty,
		StartDate:       now.AddDate(0, 0, -30),
		EndDate:         now.AddDate(0, 0, 30),
		IsActive:        true,
	}
	require.NoError(t, e.db.Create(ch).Error)
	return ch
}

func (e *testEnv) balance(t *testing.T, userID uint) int64 {
	t.Helper()
	var u models.User
	require.NoError(t, e.db.First(&u, userID).Error)
	return u.DropsBalance
}

func (e *testEnv) localBalance(t *testing.T, userID, gymID uint) int64 {
	t.Helper()
	m, err := e.memberRepo.Get(userID, gymID)
	require.NoError(t, err)
	return m.LocalBalance
}

func (e *testEnv) ledgerSum(t *testing.T, userID uint) int64 {
	t.Helper()
	sum, err := e.txRepo.SumByUser(userID)
	require.NoError(t, err)
	return sum
}

func (e *testEnv) countEntries(t *testing.T, userID uint, kind string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(&models.DropTransaction{}).
		Where("user_id = ? AND kind = ?", userID, kind).
		Count(&n).Error)
	return n
}
