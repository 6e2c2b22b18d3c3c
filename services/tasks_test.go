package services

import (
	"errors"
	"testing"

	"stars-referral-system/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompleteTaskGrantsRewardOnce(t *testing.T) {
	db := newTestDB(t)
	tasks := NewTaskService(db)
	seedUser(t, db, 1, models.FromStars(100))

	task, err := tasks.CreateTask("Subscribe to the partner channel", models.FromStars(5))
	require.NoError(t, err)

	reward, err := tasks.CompleteTask(1, task.ID)
	require.NoError(t, err)
	assert.Equal(t, models.FromStars(5), reward)
	assert.Equal(t, models.FromStars(105), balanceOf(t, db, 1))

	var user models.User
	require.NoError(t, db.First(&user, "user_id = ?", 1).Error)
	assert.Equal(t, 1, user.CompletedTasks)

	// Second completion fails without re-applying the reward.
	_, err = tasks.CompleteTask(1, task.ID)
	assert.ErrorIs(t, err, ErrAlreadyCompleted)
	assert.Equal(t, models.FromStars(105), balanceOf(t, db, 1))

	var completions int64
	require.NoError(t, db.Model(&models.TaskCompletion{}).Where("user_id = ?", 1).Count(&completions).Error)
	assert.Equal(t, int64(1), completions)
}

func TestCompleteTaskConcurrentDuplicates(t *testing.T) {
	db := newTestDB(t)
	tasks := NewTaskService(db)
	seedUser(t, db, 1, models.FromStars(100))

	task, err := tasks.CreateTask("Subscribe to the partner channel", models.FromStars(5))
	require.NoError(t, err)

	// Two racing completions of the same (user, task) pair: the composite
	// primary key decides the winner, the loser maps to ErrAlreadyCompleted.
	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_, err := tasks.CompleteTask(1, task.ID)
			results <- err
		}()
	}

	var succeeded, duplicated int
	for i := 0; i < 2; i++ {
		switch err := <-results; {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrAlreadyCompleted):
			duplicated++
		default:
			t.Fatalf("unexpected completion error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, duplicated)

	assert.Equal(t, models.FromStars(105), balanceOf(t, db, 1), "reward credited exactly once")

	var user models.User
	require.NoError(t, db.First(&user, "user_id = ?", 1).Error)
	assert.Equal(t, 1, user.CompletedTasks)

	var completions int64
	require.NoError(t, db.Model(&models.TaskCompletion{}).Where("user_id = ?", 1).Count(&completions).Error)
	assert.Equal(t, int64(1), completions)
}

func TestCompleteTaskInactive(t *testing.T) {
	db := newTestDB(t)
	tasks := NewTaskService(db)
	seedUser(t, db, 1, 0)

	task, err := tasks.CreateTask("Click the sponsor link", models.FromStars(2))
	require.NoError(t, err)

	toggled, err := tasks.ToggleTask(task.ID)
	require.NoError(t, err)
	require.False(t, toggled.IsActive)

	_, err = tasks.CompleteTask(1, task.ID)
	assert.ErrorIs(t, err, ErrTaskInactive)
	assert.Equal(t, models.Stars(0), balanceOf(t, db, 1))
}

func TestCompleteTaskUnknownTaskAndUser(t *testing.T) {
	db := newTestDB(t)
	tasks := NewTaskService(db)
	seedUser(t, db, 1, 0)

	_, err := tasks.CompleteTask(1, "c0ffee00-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, ErrTaskNotFound)

	task, err := tasks.CreateTask("Join the chat", models.FromStars(1))
	require.NoError(t, err)
	_, err = tasks.CompleteTask(404, task.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestCompleteTaskBannedUser(t *testing.T) {
	db := newTestDB(t)
	tasks := NewTaskService(db)
	users := NewUserService(db)
	seedUser(t, db, 1, 0)
	require.NoError(t, users.SetBanned(1, true))

	task, err := tasks.CreateTask("Join the chat", models.FromStars(1))
	require.NoError(t, err)

	_, err = tasks.CompleteTask(1, task.ID)
	assert.ErrorIs(t, err, ErrUserBanned)
}

func TestCreateTaskSlugCollision(t *testing.T) {
	db := newTestDB(t)
	tasks := NewTaskService(db)

	first, err := tasks.CreateTask("Watch the video", models.FromStars(1))
	require.NoError(t, err)

	second, err := tasks.CreateTask("Watch the video", models.FromStars(2))
	require.NoError(t, err)
	assert.NotEqual(t, first.Slug, second.Slug)
	assert.Contains(t, second.Slug, "watch-the-video")
}

func TestActiveTasksForMarksCompleted(t *testing.T) {
	db := newTestDB(t)
	tasks := NewTaskService(db)
	seedUser(t, db, 1, 0)

	a, err := tasks.CreateTask("Task A", models.FromStars(1))
	require.NoError(t, err)
	_, err = tasks.CreateTask("Task B", models.FromStars(1))
	require.NoError(t, err)

	_, err = tasks.CompleteTask(1, a.ID)
	require.NoError(t, err)

	list, completed, err := tasks.ActiveTasksFor(1)
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.True(t, completed[a.ID])
	assert.Len(t, completed, 1)
}
