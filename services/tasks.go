package services

import (
	"errors"
	"time"

	"stars-referral-system/models"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type TaskService struct {
	DB *gorm.DB
}

func NewTaskService(db *gorm.DB) *TaskService {
	return &TaskService{DB: db}
}

// CreateTask registers a new internal task with a fixed reward. The slug is
// derived from the description for dashboard links; on collision the task id
// prefix disambiguates.
func (s *TaskService) CreateTask(description string, reward models.Stars) (*models.Task, error) {
	if reward <= 0 {
		return nil, ErrInvalidAmount
	}
	task := &models.Task{
		ID:          uuid.NewString(),
		Slug:        slug.Make(description),
		Description: description,
		Reward:      reward,
		IsActive:    true,
		CreatedAt:   time.Now(),
	}
	if err := s.DB.Create(task).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			task.Slug = task.Slug + "-" + task.ID[:8]
			if err := s.DB.Create(task).Error; err != nil {
				return nil, err
			}
			return task, nil
		}
		return nil, err
	}
	return task, nil
}

// ToggleTask flips the active flag and returns the updated task.
func (s *TaskService) ToggleTask(taskID string) (*models.Task, error) {
	var task models.Task
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&task, "id = ?", taskID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTaskNotFound
			}
			return err
		}
		task.IsActive = !task.IsActive
		return tx.Model(&task).Update("is_active", task.IsActive).Error
	})
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (s *TaskService) ActiveTasks() ([]models.Task, error) {
	var tasks []models.Task
	err := s.DB.Where("is_active = ?", true).Order("created_at ASC").Find(&tasks).Error
	return tasks, err
}

func (s *TaskService) AllTasks() ([]models.Task, error) {
	var tasks []models.Task
	err := s.DB.Order("created_at ASC").Find(&tasks).Error
	return tasks, err
}

// ActiveTasksFor returns the active tasks the user has not completed yet,
// with completion state for the rest (the bot's task list view).
func (s *TaskService) ActiveTasksFor(userID int64) ([]models.Task, map[string]bool, error) {
	tasks, err := s.ActiveTasks()
	if err != nil {
		return nil, nil, err
	}
	var done []models.TaskCompletion
	if err := s.DB.Where("user_id = ?", userID).Find(&done).Error; err != nil {
		return nil, nil, err
	}
	completed := make(map[string]bool, len(done))
	for _, c := range done {
		completed[c.TaskID] = true
	}
	return tasks, completed, nil
}

// CompleteTask grants the task's fixed reward at most once per (user, task).
// The completion insert and the balance/counter update are one transaction;
// the composite primary key on task_completions makes the second of two
// concurrent duplicates fail with a constraint violation, which is translated
// to ErrAlreadyCompleted and never retried.
func (s *TaskService) CompleteTask(userID int64, taskID string) (models.Stars, error) {
	var reward models.Stars
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var task models.Task
		if err := tx.First(&task, "id = ?", taskID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTaskNotFound
			}
			return err
		}
		if !task.IsActive {
			return ErrTaskInactive
		}

		if _, err := activeUserTx(tx, userID); err != nil {
			return err
		}

		completion := models.TaskCompletion{
			UserID:      userID,
			TaskID:      taskID,
			CompletedAt: time.Now(),
		}
		if err := tx.Create(&completion).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyCompleted
			}
			return err
		}

		res := tx.Model(&models.User{}).
			Where("user_id = ?", userID).
			Updates(map[string]interface{}{
				"stars":           gorm.Expr("stars + ?", task.Reward),
				"completed_tasks": gorm.Expr("completed_tasks + 1"),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrUserNotFound
		}
		reward = task.Reward
		return nil
	})
	if err != nil {
		return 0, err
	}
	return reward, nil
}
