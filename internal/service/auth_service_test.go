package service

import (
	"testing"
	"time"

	"dripfit/config"
	"dripfit/internal/auth"
	"dripfit/internal/domain"
	"dripfit/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T) (*AuthService, *testEnv) {
	t.Helper()
	env := newTestEnv(t)
	cfg := &config.Config{
		JWT: config.JWTConfig{
			AccessSecret:  "test-access",
			RefreshSecret: "test-refresh",
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: time.Hour,
			Issuer:        "dripfit-test",
		},
	}
	return NewAuthService(cfg, repository.NewUserRepository(env.db)), env
}

func TestAuthRegisterAndLogin(t *testing.T) {
	svc, _ := newAuthService(t)

	u, access, refresh, err := svc.Register("pat@example.com", "pat", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleMember, u.Role)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)
	assert.NotEqual(t, "s3cret-pass", u.PasswordHash)

	_, _, _, err = svc.Register("pat@example.com", "someone", "x")
	require.ErrorIs(t, err, ErrEmailExists)
	_, _, _, err = svc.Register("other@example.com", "pat", "x")
	require.ErrorIs(t, err, ErrUsernameExists)

	logged, _, _, err := svc.Login("pat@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, u.ID, logged.ID)

	_, _, _, err = svc.Login("pat@example.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCreds)
	_, _, _, err = svc.Login("nobody@example.com", "whatever")
	require.ErrorIs(t, err, ErrInvalidCreds)
}

func TestAuthLoginDeactivated(t *testing.T) {
	svc, env := newAuthService(t)

	u, _, _, err := svc.Register("gone@example.com", "gone", "s3cret-pass")
	require.NoError(t, err)
	require.NoError(t, env.db.Model(u).Update("is_active", false).Error)

	_, _, _, err = svc.Login("gone@example.com", "s3cret-pass")
	require.ErrorIs(t, err, ErrDeactivated)
}

func TestAuthRefresh(t *testing.T) {
	svc, _ := newAuthService(t)

	u, _, refresh, err := svc.Register("ref@example.com", "ref", "s3cret-pass")
	require.NoError(t, err)

	again, access, _, err := svc.Refresh(refresh)
	require.NoError(t, err)
	assert.Equal(t, u.ID, again.ID)
	assert.NotEmpty(t, access)

	_, _, _, err = svc.Refresh("not-a-token")
	require.ErrorIs(t, err, auth.ErrInvalidToken)
}
