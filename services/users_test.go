package services

import (
	"testing"
	"time"

	"stars-referral-system/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopUsersOrdersByBalance(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	seedUser(t, db, 1, models.FromStars(10))
	seedUser(t, db, 2, models.FromStars(30))
	banned := seedUser(t, db, 3, models.FromStars(100))
	require.NoError(t, db.Model(banned).Update("is_banned", true).Error)

	top, err := svc.TopUsers(10)
	require.NoError(t, err)
	require.Len(t, top, 2, "banned users are excluded from the leaderboard")
	assert.Equal(t, int64(2), top[0].UserID)
	assert.Equal(t, int64(1), top[1].UserID)
}

func TestBanAndUnban(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	seedUser(t, db, 1, 0)

	require.NoError(t, svc.SetBanned(1, true))
	user, err := svc.GetUser(1)
	require.NoError(t, err)
	assert.True(t, user.IsBanned)

	require.NoError(t, svc.SetBanned(1, false))
	user, err = svc.GetUser(1)
	require.NoError(t, err)
	assert.False(t, user.IsBanned)

	assert.ErrorIs(t, svc.SetBanned(404, true), ErrUserNotFound)
}

func TestDeleteUserCascades(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	ledger := NewLedgerService(db)
	settings := NewSettingsService(db)
	tasks := NewTaskService(db)
	withdrawals := NewWithdrawalService(db, ledger, settings)
	seedUser(t, db, 1, models.FromStars(500))

	task, err := tasks.CreateTask("Task", models.FromStars(1))
	require.NoError(t, err)
	_, err = tasks.CompleteTask(1, task.ID)
	require.NoError(t, err)

	cfg, err := settings.Get()
	require.NoError(t, err)
	require.NoError(t, db.Model(&models.User{}).Where("user_id = ?", 1).Updates(map[string]interface{}{
		"completed_tasks": cfg.MinTasks,
		"referrals_count": cfg.MinReferrals,
	}).Error)
	_, err = withdrawals.Request(1, models.FromStars(10), "wallet:x")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteUser(1))

	_, err = svc.GetUser(1)
	assert.ErrorIs(t, err, ErrUserNotFound)

	var completions, pending int64
	require.NoError(t, db.Model(&models.TaskCompletion{}).Where("user_id = ?", 1).Count(&completions).Error)
	require.NoError(t, db.Model(&models.Withdrawal{}).Where("user_id = ?", 1).Count(&pending).Error)
	assert.Zero(t, completions)
	assert.Zero(t, pending)

	assert.ErrorIs(t, svc.DeleteUser(1), ErrUserNotFound)
}

func TestTouchActivity(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	user := seedUser(t, db, 1, 0)
	old := time.Now().Add(-time.Hour)
	require.NoError(t, db.Model(user).Update("last_activity", old).Error)

	require.NoError(t, svc.TouchActivity(1))
	fresh, err := svc.GetUser(1)
	require.NoError(t, err)
	assert.True(t, fresh.LastActivity.After(old))

	assert.ErrorIs(t, svc.TouchActivity(404), ErrUserNotFound)
}
