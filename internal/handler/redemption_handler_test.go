package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"dripfit/config"
	"dripfit/internal/database"
	"dripfit/internal/domain"
	"dripfit/internal/models"
	"dripfit/internal/repository"
	"dripfit/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type redemptionFixture struct {
	db      *gorm.DB
	handler *RedemptionHandler
	gym     *models.Gym
	staff   *models.User
	rd      *models.Redemption
}

func newRedemptionFixture(t *testing.T) *redemptionFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.AutoMigrate(db))

	log := logrus.New()
	log.SetOutput(io.Discard)
	cfg := &config.DropsConfig{CodePrefix: "DRP-", CodeLength: 6, DefaultStreakDays: 7, MinSessionMinutes: 1}

	ledger := service.NewLedgerService(db,
		repository.NewUserRepository(db),
		repository.NewMembershipRepository(db),
		repository.NewTransactionRepository(db),
		log)
	svc := service.NewRedemptionService(db, cfg, ledger,
		repository.NewRewardRepository(db),
		repository.NewRedemptionRepository(db),
		nil, nil, log)

	gym := &models.Gym{Name: "Test Gym", DropsPerTenMinutes: 1, IsActive: true}
	require.NoError(t, db.Create(gym).Error)
	member := &models.User{Username: "member", Email: "member@example.com", Role: domain.RoleMember, IsActive: true}
	require.NoError(t, db.Create(member).Error)
	staff := &models.User{Username: "staff", Email: "staff@example.com", Role: domain.RoleStaff, HomeGymID: &gym.ID, IsActive: true}
	require.NoError(t, db.Create(staff).Error)
	reward := &models.Reward{GymID: gym.ID, Name: "Shaker", PriceDrops: 30, IsActive: true}
	require.NoError(t, db.Create(reward).Error)

	_, err = ledger.Apply(member.ID, 100, domain.TxKindEarnSession, "session-1", &gym.ID)
	require.NoError(t, err)
	rd, err := svc.Create(member.ID, reward.ID, gym.ID)
	require.NoError(t, err)

	return &redemptionFixture{
		db:      db,
		handler: NewRedemptionHandler(svc, repository.NewAuditLogRepository(db)),
		gym:     gym,
		staff:   staff,
		rd:      rd,
	}
}

func (f *redemptionFixture) staffRequest(t *testing.T, method, path string, gymID uint) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, path, nil)
	c.Params = gin.Params{{Key: "id", Value: fmt.Sprint(f.rd.ID)}}
	c.Set("user_id", f.staff.ID)
	c.Set("gym_id", gymID)
	return w, c
}

func TestRedemptionAuditTrail(t *testing.T) {
	f := newRedemptionFixture(t)

	w, c := f.staffRequest(t, http.MethodPost, "/staff/redemptions/1/confirm", f.gym.ID)
	f.handler.Confirm(c)
	require.Equal(t, http.StatusOK, w.Code)

	w, c = f.staffRequest(t, http.MethodGet, "/staff/redemptions/1/audit", f.gym.ID)
	f.handler.AuditTrail(c)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		RedemptionID uint              `json:"redemption_id"`
		Audit        []models.AuditLog `json:"audit"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, f.rd.ID, body.RedemptionID)
	require.Len(t, body.Audit, 1)
	assert.Equal(t, "redemption.confirm", body.Audit[0].Action)
	require.NotNil(t, body.Audit[0].UserID)
	assert.Equal(t, f.staff.ID, *body.Audit[0].UserID)
}

func TestRedemptionAuditTrailScopedToGym(t *testing.T) {
	f := newRedemptionFixture(t)
	other := &models.Gym{Name: "Other Gym", DropsPerTenMinutes: 1, IsActive: true}
	require.NoError(t, f.db.Create(other).Error)

	w, c := f.staffRequest(t, http.MethodGet, "/staff/redemptions/1/audit", other.ID)
	f.handler.AuditTrail(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
