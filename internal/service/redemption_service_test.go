package service

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"dripfit/internal/domain"
	"dripfit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedemptionCreate(t *testing.T) {
	env := newTestEnv(t)
	gym := env.createGym(t, 1)
	user := env.createFundedUser(t, 100, &gym.ID)
	reward := env.createReward(t, gym.ID, 60, nil)

	rd, err := env.redemptions.Create(user.ID, reward.ID, gym.ID)
	require.NoError(t, err)

	assert.Equal(t, domain.RedemptionPending, rd.Status)
	assert.EqualValues(t, 60, rd.AmountSpent)
	assert.True(t, strings.HasPrefix(rd.Code, "DRP-"))
	assert.Len(t, rd.Code, len("DRP-")+6)
	assert.EqualValues(t, 40, env.balance(t, user.ID))
	assert.EqualValues(t, 40, env.localBalance(t, user.ID, gym.ID))
	assert.EqualValues(t, 1, env.countEntries(t, user.ID, domain.TxKindSpendRedemption))
}

func TestRedemptionCreateInsufficientBalance(t *testing.T) {
	env := newTestEnv(t)
	gym := env.createGym(t, 1)
	user := env.createFundedUser(t, 50, &gym.ID)
	stock := int64(3)
	reward := env.createReward(t, gym.ID, 60, &stock)

	_, err := env.redemptions.Create(user.ID, reward.ID, gym.ID)
	require.ErrorIs(t, err, ErrInsufficientBalance)

	// Nothing committed: no redemption row, stock untouched.
	var n int64
	require.NoError(t, env.db.Model(&models.Redemption{}).Where("user_id = ?", user.ID).Count(&n).Error)
	assert.EqualValues(t, 0, n)
	fresh, err := env.rewardRepo.GetByID(reward.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, *fresh.Stock)
	assert.EqualValues(t, 50, env.balance(t, user.ID))
}

func TestRedemptionCreateOutOfStock(t *testing.T) {
	env := newTestEnv(t)
	gym := env.createGym(t, 1)
	first := env.createFundedUser(t, 100, &gym.ID)
	second := env.createFundedUser(t, 100, &gym.ID)
	stock := int64(1)
	reward := env.createReward(t, gym.ID, 30, &stock)

	_, err := env.redemptions.Create(first.ID, reward.ID, gym.ID)
	require.NoError(t, err)

	// The last unit is gone; the next member is refused and keeps their drops.
	_, err = env.redemptions.Create(second.ID, reward.ID, gym.ID)
	require.ErrorIs(t, err, ErrOutOfStock)
	assert.EqualValues(t, 100, env.balance(t, second.ID))

	fresh, err := env.rewardRepo.GetByID(reward.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, *fresh.Stock)
}

func TestRedemptionCreateConcurrentLastUnit(t *testing.T) {
	env := newTestEnv(t)
	gym := env.createGym(t, 1)
	users := []*models.User{
		env.createFundedUser(t, 100, &gym.ID),
		env.createFundedUser(t, 100, &gym.ID),
	}
	stock := int64(1)
	reward := env.createReward(t, gym.ID, 30, &stock)

	// Two members race for the last unit.
	errs := make([]error, len(users))
	var wg sync.WaitGroup
	for i, u := range users {
		wg.Add(1)
		go func(i int, userID uint) {
			defer wg.Done()
			_, errs[i] = env.redemptions.Create(userID, reward.ID, gym.ID)
		}(i, u.ID)
	}
	wg.Wait()

	var won, refused int
	for i, err := range errs {
		switch {
		case err == nil:
			won++
			assert.EqualValues(t, 70, env.balance(t, users[i].ID))
		case errors.Is(err, ErrOutOfStock):
			refused++
			assert.EqualValues(t, 100, env.balance(t, users[i].ID))
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, won)
	assert.Equal(t, 1, refused)

	var n int64
	require.NoError(t, env.db.Model(&models.Redemption{}).Where("reward_id = ?", reward.ID).Count(&n).Error)
	assert.EqualValues(t, 1, n)
	fresh, err := env.rewardRepo.GetByID(reward.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, *fresh.Stock)
}

func TestRedemptionCreateUnknownOrForeignReward(t *testing.T) {
	env := newTestEnv(t)
	gymA := env.createGym(t, 1)
	gymB := env.createGym(t, 1)
	user := env.createFundedUser(t, 100, &gymA.ID)
	reward := env.createReward(t, gymB.ID, 30, nil)

	_, err := env.redemptions.Create(user.ID, 9999, gymA.ID)
	require.ErrorIs(t, err, ErrRewardNotFound)

	// A reward listed at another gym is invisible here.
	_, err = env.redemptions.Create(user.ID, reward.ID, gymA.ID)
	require.ErrorIs(t, err, ErrRewardNotFound)

	inactive := env.createReward(t, gymA.ID, 30, nil)
	require.NoError(t, env.db.Model(inactive).Update("is_active", false).Error)
	_, err = env.redemptions.Create(user.ID, inactive.ID, gymA.ID)
	require.ErrorIs(t, err, ErrRewardNotFound)
}

func TestRedemptionConfirmOnlyOnce(t *testing.T) {
	env := newTestEnv(t)
	gym := env.createGym(t, 1)
	user := env.createFundedUser(t, 100, &gym.ID)
	staff := env.createUser(t)
	reward := env.createReward(t, gym.ID, 60, nil)

	rd, err := env.redemptions.Create(user.ID, reward.ID, gym.ID)
	require.NoError(t, err)

	confirmed, err := env.redemptions.Confirm(rd.ID, staff.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RedemptionConfirmed, confirmed.Status)
	require.NotNil(t, confirmed.ResolvedAt)
	require.NotNil(t, confirmed.ResolvedBy)
	assert.Equal(t, staff.ID, *confirmed.ResolvedBy)

	// A double confirm is loud, and only one debit ever landed.
	_, err = env.redemptions.Confirm(rd.ID, staff.ID)
	require.ErrorIs(t, err, ErrInvalidTransition)
	assert.EqualValues(t, 1, env.countEntries(t, user.ID, domain.TxKindSpendRedemption))
	assert.EqualValues(t, 40, env.balance(t, user.ID))
}

func TestRedemptionCancelRefundsWithoutRestocking(t *testing.T) {
	env := newTestEnv(t)
	gym := env.createGym(t, 1)
	user := env.createFundedUser(t, 100, &gym.ID)
	staff := env.createUser(t)
	stock := int64(5)
	reward := env.createReward(t, gym.ID, 60, &stock)

	rd, err := env.redemptions.Create(user.ID, reward.ID, gym.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 40, env.balance(t, user.ID))

	cancelled, err := env.redemptions.Cancel(rd.ID, staff.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RedemptionCancelled, cancelled.Status)

	// Drops come back; the unit does not.
	assert.EqualValues(t, 100, env.balance(t, user.ID))
	assert.EqualValues(t, 100, env.localBalance(t, user.ID, gym.ID))
	assert.EqualValues(t, 1, env.countEntries(t, user.ID, domain.TxKindRefund))
	fresh, err := env.rewardRepo.GetByID(reward.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 4, *fresh.Stock)

	// No further transitions out of CANCELLED.
	_, err = env.redemptions.Confirm(rd.ID, staff.ID)
	require.ErrorIs(t, err, ErrInvalidTransition)
	_, err = env.redemptions.Cancel(rd.ID, staff.ID)
	require.ErrorIs(t, err, ErrInvalidTransition)
	assert.EqualValues(t, 1, env.countEntries(t, user.ID, domain.TxKindRefund))
}

func TestRedemptionResolveUnknownID(t *testing.T) {
	env := newTestEnv(t)
	staff := env.createUser(t)

	_, err := env.redemptions.Confirm(424242, staff.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRedemptionValidateNormalizesCode(t *testing.T) {
	env := newTestEnv(t)
	gym := env.createGym(t, 1)
	other := env.createGym(t, 1)
	user := env.createFundedUser(t, 100, &gym.ID)
	reward := env.createReward(t, gym.ID, 30, nil)

	rd, err := env.redemptions.Create(user.ID, reward.ID, gym.ID)
	require.NoError(t, err)

	// Staff paste codes with stray whitespace and mixed case.
	found, err := env.redemptions.Validate("  "+strings.ToLower(rd.Code)+" ", gym.ID)
	require.NoError(t, err)
	assert.Equal(t, rd.ID, found.ID)

	// Codes are scoped per gym.
	_, err = env.redemptions.Validate(rd.Code, other.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRedemptionListMine(t *testing.T) {
	env := newTestEnv(t)
	gym := env.createGym(t, 1)
	user := env.createFundedUser(t, 100, &gym.ID)
	reward := env.createReward(t, gym.ID, 20, nil)

	for i := 0; i < 3; i++ {
		_, err := env.redemptions.Create(user.ID, reward.ID, gym.ID)
		require.NoError(t, err)
	}

	mine, err := env.redemptions.ListMine(user.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, mine, 3)
	assert.Equal(t, reward.Name, mine[0].Reward.Name)
}
