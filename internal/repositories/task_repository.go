package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	model "task-manager.com/task-manager/internal/models"
)

// TaskRepository never touches a task without an owner predicate: every
// query starts from ownedBy.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func ownedBy(ownerID string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", ownerID)
	}
}

// CreateTask assigns id and timestamps and binds the task to ownerID,
// overwriting whatever UserID the caller set.
func (r *TaskRepository) CreateTask(ctx context.Context, ownerID string, task *model.Task) error {
	now := time.Now().UTC()
	task.ID = uuid.NewString()
	task.UserID = &ownerID
	task.CreatedAt = now
	task.UpdatedAt = now

	return translate(r.db.WithContext(ctx).Create(task).Error)
}

func (r *TaskRepository) FindOwned(ctx context.Context, ownerID, id string) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).Scopes(ownedBy(ownerID)).First(&task, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &task, nil
}

// ListOwned returns the owner's tasks in insertion order.
func (r *TaskRepository) ListOwned(ctx context.Context, ownerID string) ([]model.Task, error) {
	tasks := make([]model.Task, 0)
	err := r.db.WithContext(ctx).Scopes(ownedBy(ownerID)).
		Order("created_at asc").Order("id asc").
		Find(&tasks).Error
	return tasks, translate(err)
}

// UpdateOwned applies changes (column -> value) and refreshes updated_at.
// Last write wins; there is no version check.
func (r *TaskRepository) UpdateOwned(ctx context.Context, ownerID, id string, changes map[string]interface{}) (*model.Task, error) {
	var updated model.Task

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Scopes(ownedBy(ownerID)).First(&updated, "id = ?", id).Error; err != nil {
			return err
		}

		values := make(map[string]interface{}, len(changes)+1)
		for k, v := range changes {
			values[k] = v
		}
		values["updated_at"] = time.Now().UTC()

		res := tx.Model(&model.Task{}).Scopes(ownedBy(ownerID)).
			Where("id = ?", id).
			Updates(values)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return tx.Scopes(ownedBy(ownerID)).First(&updated, "id = ?", id).Error
	})
	if err != nil {
		return nil, translate(err)
	}

	return &updated, nil
}

func (r *TaskRepository) DeleteOwned(ctx context.Context, ownerID, id string) error {
	res := r.db.WithContext(ctx).Scopes(ownedBy(ownerID)).
		Where("id = ?", id).
		Delete(&model.Task{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
