package models

import "time"

// Task is an internally defined sponsor task with a fixed reward. Tasks are
// toggled active/inactive rather than deleted so completion history keeps
// its foreign rows.
type Task struct {
	ID          string    `gorm:"primaryKey;type:uuid" json:"id"`
	Slug        string    `gorm:"uniqueIndex;not null" json:"slug"`
	Description string    `gorm:"not null" json:"description"`
	Reward      Stars     `gorm:"not null" json:"reward"`
	IsActive    bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// TaskCompletion records that a user completed a task. The composite primary
// key is the at-most-once guarantee: a concurrent duplicate insert fails with
// a unique-constraint violation instead of granting a second reward.
type TaskCompletion struct {
	UserID      int64     `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	TaskID      string    `gorm:"primaryKey;type:uuid" json:"task_id"`
	CompletedAt time.Time `json:"completed_at"`
}
