package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"task-manager.com/task-manager/internal/constants"
	apperrors "task-manager.com/task-manager/internal/errors"
	model "task-manager.com/task-manager/internal/models"
	repository "task-manager.com/task-manager/internal/repositories"
)

type TaskStore interface {
	CreateTask(ctx context.Context, ownerID string, task *model.Task) error
	FindOwned(ctx context.Context, ownerID, id string) (*model.Task, error)
	ListOwned(ctx context.Context, ownerID string) ([]model.Task, error)
	UpdateOwned(ctx context.Context, ownerID, id string, changes map[string]interface{}) (*model.Task, error)
	DeleteOwned(ctx context.Context, ownerID, id string) error
}

type CreateTaskInput struct {
	Title       string                  `json:"title"`
	Description *string                 `json:"description"`
	Priority    *constants.TaskPriority `json:"priority"`
	Status      *constants.TaskStatus   `json:"status"`
	DueDate     *time.Time              `json:"due_date"`
	IsCompleted *bool                   `json:"is_completed"`
}

// UpdateTaskInput holds the fields supplied by the caller; nil means "leave
// unchanged". Description and DueDate can also be cleared, which is signalled
// by the *Set flag with a nil value.
type UpdateTaskInput struct {
	Title          *string                 `json:"title"`
	Description    *string                 `json:"description"`
	DescriptionSet bool                    `json:"-"`
	Priority       *constants.TaskPriority `json:"priority"`
	Status         *constants.TaskStatus   `json:"status"`
	DueDate        *time.Time              `json:"due_date"`
	DueDateSet     bool                    `json:"-"`
	IsCompleted    *bool                   `json:"is_completed"`
}

// TaskService is the owner-scoped task store. callerID is the resolved
// identity of the requester and is passed to every repository call.
type TaskService struct {
	repo   TaskStore
	logger *zap.Logger
}

func NewTaskService(repo TaskStore, logger *zap.Logger) *TaskService {
	return &TaskService{
		repo:   repo,
		logger: logger,
	}
}

func (s *TaskService) ListTasks(ctx context.Context, callerID string) ([]model.Task, error) {
	if callerID == "" {
		return nil, apperrors.ErrUnauthorized
	}

	tasks, err := s.repo.ListOwned(ctx, callerID)
	if err != nil {
		return nil, s.internal("failed to list tasks", callerID, err)
	}
	return tasks, nil
}

// CreateTask always binds the new task to callerID.
func (s *TaskService) CreateTask(ctx context.Context, callerID string, in CreateTaskInput) (*model.Task, error) {
	if callerID == "" {
		return nil, apperrors.ErrUnauthorized
	}

	title, verrs := normalizeTitle(in.Title)
	verrs = append(verrs, checkEnums(in.Priority, in.Status)...)
	if err := verrs.Err(); err != nil {
		return nil, err
	}

	task := &model.Task{
		Title:       title,
		Description: in.Description,
		Priority:    constants.PriorityMedium,
		Status:      constants.StatusPending,
	}
	if in.DueDate != nil {
		due := in.DueDate.UTC()
		task.DueDate = &due
	}
	if in.Priority != nil {
		task.Priority = *in.Priority
	}
	if in.Status != nil {
		task.Status = *in.Status
	}
	if in.IsCompleted != nil {
		task.IsCompleted = *in.IsCompleted
	}

	if err := s.repo.CreateTask(ctx, callerID, task); err != nil {
		return nil, s.internal("failed to create task", callerID, err)
	}
	return task, nil
}

func (s *TaskService) GetTask(ctx context.Context, callerID, id string) (*model.Task, error) {
	if callerID == "" {
		return nil, apperrors.ErrUnauthorized
	}
	if !isTaskID(id) {
		return nil, apperrors.ErrTaskNotFound
	}

	task, err := s.repo.FindOwned(ctx, callerID, id)
	if err != nil {
		return nil, s.mapRepoErr("failed to get task", callerID, err)
	}
	return task, nil
}

// UpdateTask changes only the supplied fields. An input with no fields still
// refreshes the last-modified timestamp.
func (s *TaskService) UpdateTask(ctx context.Context, callerID, id string, in UpdateTaskInput) (*model.Task, error) {
	if callerID == "" {
		return nil, apperrors.ErrUnauthorized
	}
	if !isTaskID(id) {
		return nil, apperrors.ErrTaskNotFound
	}

	changes := make(map[string]interface{})
	var verrs apperrors.ValidationErrors

	if in.Title != nil {
		title, titleErrs := normalizeTitle(*in.Title)
		verrs = append(verrs, titleErrs...)
		changes["title"] = title
	}
	verrs = append(verrs, checkEnums(in.Priority, in.Status)...)
	if err := verrs.Err(); err != nil {
		return nil, err
	}

	if in.DescriptionSet || in.Description != nil {
		changes["description"] = stringOrNil(in.Description)
	}
	if in.Priority != nil {
		changes["priority"] = *in.Priority
	}
	if in.Status != nil {
		changes["status"] = *in.Status
	}
	if in.DueDateSet || in.DueDate != nil {
		changes["due_date"] = timeOrNil(in.DueDate)
	}
	if in.IsCompleted != nil {
		changes["is_completed"] = *in.IsCompleted
	}

	task, err := s.repo.UpdateOwned(ctx, callerID, id, changes)
	if err != nil {
		return nil, s.mapRepoErr("failed to update task", callerID, err)
	}
	return task, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, callerID, id string) error {
	if callerID == "" {
		return apperrors.ErrUnauthorized
	}
	if !isTaskID(id) {
		return apperrors.ErrTaskNotFound
	}

	if err := s.repo.DeleteOwned(ctx, callerID, id); err != nil {
		return s.mapRepoErr("failed to delete task", callerID, err)
	}
	return nil
}

// mapRepoErr turns a missing row into ErrTaskNotFound whether the task does
// not exist or belongs to someone else.
func (s *TaskService) mapRepoErr(msg, callerID string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.ErrTaskNotFound
	}
	return s.internal(msg, callerID, err)
}

func (s *TaskService) internal(msg, callerID string, err error) error {
	s.logger.Error(msg, zap.String("user_id", callerID), zap.Error(err))
	return apperrors.ErrInternal
}

func normalizeTitle(raw string) (string, apperrors.ValidationErrors) {
	title := strings.TrimSpace(raw)
	switch {
	case title == "":
		return title, apperrors.ValidationErrors{{
			Field:   "title",
			Code:    apperrors.CodeRequired,
			Message: "this field may not be blank",
		}}
	case utf8.RuneCountInString(title) > constants.TitleMaxLength:
		return title, apperrors.ValidationErrors{{
			Field:   "title",
			Code:    apperrors.CodeTooLong,
			Message: fmt.Sprintf("ensure this field has no more than %d characters", constants.TitleMaxLength),
		}}
	}
	return title, nil
}

func checkEnums(priority *constants.TaskPriority, status *constants.TaskStatus) apperrors.ValidationErrors {
	var verrs apperrors.ValidationErrors
	if priority != nil && !priority.Valid() {
		verrs = append(verrs, apperrors.FieldError{
			Field:   "priority",
			Code:    apperrors.CodeInvalid,
			Message: fmt.Sprintf("must be one of: %s, %s, %s", constants.PriorityLow, constants.PriorityMedium, constants.PriorityHigh),
		})
	}
	if status != nil && !status.Valid() {
		verrs = append(verrs, apperrors.FieldError{
			Field:   "status",
			Code:    apperrors.CodeInvalid,
			Message: fmt.Sprintf("must be one of: %s, %s, %s", constants.StatusPending, constants.StatusInProgress, constants.StatusCompleted),
		})
	}
	return verrs
}

func isTaskID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func stringOrNil(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

func timeOrNil(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC()
}
