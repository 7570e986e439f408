package service

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"testing"

	"dripfit/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestIsUnavailable(t *testing.T) {
	assert.True(t, IsUnavailable(gorm.ErrInvalidDB))
	assert.True(t, IsUnavailable(driver.ErrBadConn))
	assert.True(t, IsUnavailable(fmt.Errorf("exec: %w", driver.ErrBadConn)))
	assert.True(t, IsUnavailable(&net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connect: connection refused")}))
	assert.True(t, IsUnavailable(errors.New("dial tcp 127.0.0.1:3306: connect: connection refused")))
	assert.True(t, IsUnavailable(errors.New("invalid connection")))

	// Operation failures are not retryable storage outages.
	assert.False(t, IsUnavailable(nil))
	assert.False(t, IsUnavailable(ErrInsufficientBalance))
	assert.False(t, IsUnavailable(ErrDuplicateApplication))
	assert.False(t, IsUnavailable(gorm.ErrRecordNotFound))
	assert.False(t, IsUnavailable(errors.New("some business failure")))
}

func TestClosedDatabaseReadsAsUnavailable(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t)

	sqlDB, err := env.db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	_, err = env.ledger.Apply(user.ID, 10, domain.TxKindEarnSession, "session-900", nil)
	require.Error(t, err)
	assert.True(t, IsUnavailable(err))
}
