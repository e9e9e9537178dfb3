package validators

import (
	"encoding/json"

	"task-manager.com/task-manager/internal/constants"
	dto "task-manager.com/task-manager/internal/data_models"
	apperrors "task-manager.com/task-manager/internal/errors"
	"task-manager.com/task-manager/internal/services"
)

// BuildCreateTaskInput checks presence and nullability; value rules are
// enforced by the task service.
func BuildCreateTaskInput(req dto.TaskRequestData, raw map[string]json.RawMessage) (services.CreateTaskInput, error) {
	var verrs apperrors.ValidationErrors
	if !hasJSONField(raw, "title") {
		verrs = append(verrs, apperrors.FieldError{
			Field:   "title",
			Code:    apperrors.CodeRequired,
			Message: "this field is required",
		})
	}
	verrs = append(verrs, notNull(raw, "title", "priority", "status", "is_completed")...)
	if len(verrs) > 0 {
		return services.CreateTaskInput{}, verrs
	}

	in := services.CreateTaskInput{
		Description: req.Description,
		DueDate:     req.DueDate,
		IsCompleted: req.IsCompleted,
	}
	if req.Title != nil {
		in.Title = *req.Title
	}
	if req.Priority != nil {
		p := constants.TaskPriority(*req.Priority)
		in.Priority = &p
	}
	if req.Status != nil {
		s := constants.TaskStatus(*req.Status)
		in.Status = &s
	}
	return in, nil
}

// BuildUpdateTaskInput maps a PATCH (requireTitle=false) or PUT
// (requireTitle=true) body. Fields absent from the body stay nil.
func BuildUpdateTaskInput(req dto.TaskRequestData, raw map[string]json.RawMessage, requireTitle bool) (services.UpdateTaskInput, error) {
	var verrs apperrors.ValidationErrors
	if requireTitle && !hasJSONField(raw, "title") {
		verrs = append(verrs, apperrors.FieldError{
			Field:   "title",
			Code:    apperrors.CodeRequired,
			Message: "this field is required",
		})
	}
	verrs = append(verrs, notNull(raw, "title", "priority", "status", "is_completed")...)
	if len(verrs) > 0 {
		return services.UpdateTaskInput{}, verrs
	}

	in := services.UpdateTaskInput{
		Title:          req.Title,
		Description:    req.Description,
		DescriptionSet: hasJSONField(raw, "description"),
		DueDate:        req.DueDate,
		DueDateSet:     hasJSONField(raw, "due_date"),
		IsCompleted:    req.IsCompleted,
	}
	if req.Priority != nil {
		p := constants.TaskPriority(*req.Priority)
		in.Priority = &p
	}
	if req.Status != nil {
		s := constants.TaskStatus(*req.Status)
		in.Status = &s
	}
	return in, nil
}
