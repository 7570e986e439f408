package service

import (
	"testing"
	"time"

	"dripfit/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompleteSessionCreditsAtGymRate(t *testing.T) {
	env := newTestEnv(t)
	gym := env.createGym(t, 5)
	user := env.createUser(t)
	startedAt := time.Now().Add(-25 * time.Minute)

	res, err := env.workouts.CompleteSession(user.ID, gym.ID, domain.MachineTypeBike, 25, startedAt)
	require.NoError(t, err)

	// 25 minutes at 5 drops per full ten minutes.
	assert.EqualValues(t, 10, res.DropsEarned)
	assert.EqualValues(t, 10, res.Session.DropsEarned)
	assert.EqualValues(t, 10, env.balance(t, user.ID))
	assert.EqualValues(t, 10, env.localBalance(t, user.ID, gym.ID))
	assert.EqualValues(t, 1, env.countEntries(t, user.ID, domain.TxKindEarnSession))
}

func TestCompleteSessionUnderTenMinutesEarnsNothing(t *testing.T) {
	env := newTestEnv(t)
	gym := env.createGym(t, 5)
	user := env.createUser(t)

	res, err := env.workouts.CompleteSession(user.ID, gym.ID, domain.MachineTypeRower, 9, time.Now())
	require.NoError(t, err)

	assert.EqualValues(t, 0, res.DropsEarned)
	assert.EqualValues(t, 0, env.balance(t, user.ID))
	// The session itself is still on record.
	sessions, err := env.workouts.ListSessions(user.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, 9, sessions[0].Minutes)
}

func TestCompleteSessionRejectsTooShort(t *testing.T) {
	env := newTestEnv(t)
	gym := env.createGym(t, 5)
	user := env.createUser(t)

	_, err := env.workouts.CompleteSession(user.ID, gym.ID, domain.MachineTypeBike, 0, time.Now())
	require.ErrorIs(t, err, ErrSessionTooShort)
}

func TestCompleteSessionUnknownGym(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t)

	_, err := env.workouts.CompleteSession(user.ID, 9999, domain.MachineTypeBike, 30, time.Now())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCompleteSessionFeedsChallenges(t *testing.T) {
	env := newTestEnv(t)
	gym := env.createGym(t, 1)
	user := env.createUser(t)
	env.createChallenge(t, gym.ID, domain.CadenceOneTime, domain.MachineTypeAny, 30, 20)

	res, err := env.workouts.CompleteSession(user.ID, gym.ID, domain.MachineTypeTreadmill, 20, time.Now())
	require.NoError(t, err)
	require.Len(t, res.Challenges, 1)
	assert.False(t, res.Challenges[0].NewlyCompleted)

	res, err = env.workouts.CompleteSession(user.ID, gym.ID, domain.MachineTypeTreadmill, 15, time.Now())
	require.NoError(t, err)
	require.Len(t, res.Challenges, 1)
	assert.True(t, res.Challenges[0].NewlyCompleted)
	assert.EqualValues(t, 20, res.Challenges[0].DropsAwarded)

	// Session credits (2 + 1 drops) plus the bounty, with the bounty in the
	// ledger exactly once.
	assert.EqualValues(t, 23, env.balance(t, user.ID))
	assert.EqualValues(t, 1, env.countEntries(t, user.ID, domain.TxKindEarnChallenge))
	assert.EqualValues(t, env.balance(t, user.ID), env.ledgerSum(t, user.ID))
}
