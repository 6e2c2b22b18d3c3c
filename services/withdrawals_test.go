package services

import (
	"testing"

	"stars-referral-system/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWithdrawalService(t *testing.T) *WithdrawalService {
	t.Helper()
	db := newTestDB(t)
	return NewWithdrawalService(db, NewLedgerService(db), NewSettingsService(db))
}

func eligibleUser(t *testing.T, svc *WithdrawalService, id int64, stars models.Stars) *models.User {
	t.Helper()
	user := seedUser(t, svc.DB, id, stars)
	cfg, err := svc.Settings.Get()
	require.NoError(t, err)
	require.NoError(t, svc.DB.Model(user).Updates(map[string]interface{}{
		"completed_tasks": cfg.MinTasks,
		"referrals_count": cfg.MinReferrals,
	}).Error)
	return user
}

func TestWithdrawalEscrowAndReject(t *testing.T) {
	svc := newWithdrawalService(t)
	eligibleUser(t, svc, 1, models.FromStars(200))

	withdrawal, err := svc.Request(1, models.FromStars(50), "wallet:abc")
	require.NoError(t, err)
	assert.Equal(t, models.WithdrawalPending, withdrawal.Status)
	assert.Equal(t, models.FromStars(150), balanceOf(t, svc.DB, 1), "funds escrowed at request time")

	processed, err := svc.Process(withdrawal.ID, false)
	require.NoError(t, err)
	assert.Equal(t, models.WithdrawalRejected, processed.Status)
	assert.NotNil(t, processed.ProcessDate)
	assert.Equal(t, models.FromStars(200), balanceOf(t, svc.DB, 1), "rejection restores the pre-request balance")
}

func TestWithdrawalApproveLeavesEscrowedBalance(t *testing.T) {
	svc := newWithdrawalService(t)
	eligibleUser(t, svc, 1, models.FromStars(200))

	withdrawal, err := svc.Request(1, models.FromStars(50), "wallet:abc")
	require.NoError(t, err)

	processed, err := svc.Process(withdrawal.ID, true)
	require.NoError(t, err)
	assert.Equal(t, models.WithdrawalApproved, processed.Status)
	assert.Equal(t, models.FromStars(150), balanceOf(t, svc.DB, 1), "approval moves no further funds")
}

func TestWithdrawalDoubleProcessRefused(t *testing.T) {
	svc := newWithdrawalService(t)
	eligibleUser(t, svc, 1, models.FromStars(200))

	withdrawal, err := svc.Request(1, models.FromStars(50), "wallet:abc")
	require.NoError(t, err)

	_, err = svc.Process(withdrawal.ID, false)
	require.NoError(t, err)

	// A second decision must not credit again.
	_, err = svc.Process(withdrawal.ID, false)
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Equal(t, models.FromStars(200), balanceOf(t, svc.DB, 1))

	_, err = svc.Process(withdrawal.ID, true)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestWithdrawalEligibilityGate(t *testing.T) {
	svc := newWithdrawalService(t)
	seedUser(t, svc.DB, 1, models.FromStars(200)) // thresholds not met

	_, err := svc.Request(1, models.FromStars(50), "wallet:abc")
	assert.ErrorIs(t, err, ErrNotEligible)
	assert.Equal(t, models.FromStars(200), balanceOf(t, svc.DB, 1))
}

func TestWithdrawalAmountValidation(t *testing.T) {
	svc := newWithdrawalService(t)
	eligibleUser(t, svc, 1, models.FromStars(100))

	_, err := svc.Request(1, 0, "wallet:abc")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = svc.Request(1, -models.FromStars(5), "wallet:abc")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = svc.Request(1, models.FromStars(101), "wallet:abc")
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, models.FromStars(100), balanceOf(t, svc.DB, 1))
}

func TestWithdrawalUnknownRequest(t *testing.T) {
	svc := newWithdrawalService(t)

	_, err := svc.Process("c0ffee00-0000-0000-0000-000000000000", true)
	assert.ErrorIs(t, err, ErrWithdrawalNotFound)
}

func TestPendingWithdrawalsQueue(t *testing.T) {
	svc := newWithdrawalService(t)
	eligibleUser(t, svc, 1, models.FromStars(200))
	eligibleUser(t, svc, 2, models.FromStars(200))

	first, err := svc.Request(1, models.FromStars(10), "wallet:a")
	require.NoError(t, err)
	_, err = svc.Request(2, models.FromStars(20), "wallet:b")
	require.NoError(t, err)

	_, err = svc.Process(first.ID, true)
	require.NoError(t, err)

	queue, err := svc.PendingWithdrawals()
	require.NoError(t, err)
	require.Len(t, queue, 1)
	assert.Equal(t, int64(2), queue[0].UserID)
	assert.Equal(t, "user2", queue[0].Username)
	assert.Equal(t, models.FromStars(20), queue[0].Amount)
}
