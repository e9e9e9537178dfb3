package model

import (
	"time"

	"task-manager.com/task-manager/internal/constants"
)

// Task belongs to exactly one User through UserID. UserID is only nil for rows
// written outside the task service.
type Task struct {
	ID          string                 `gorm:"primaryKey;size:36"`
	UserID      *string                `gorm:"size:36;index"`
	Title       string                 `gorm:"size:255;not null"`
	Description *string                `gorm:"type:text"`
	Priority    constants.TaskPriority `gorm:"type:varchar(10);not null"`
	Status      constants.TaskStatus   `gorm:"type:varchar(20);not null"`
	DueDate     *time.Time
	IsCompleted bool      `gorm:"not null"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}
