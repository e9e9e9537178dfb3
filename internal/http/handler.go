package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	dto "task-manager.com/task-manager/internal/data_models"
	apperrors "task-manager.com/task-manager/internal/errors"
	middleware "task-manager.com/task-manager/internal/http/middlewares"
	"task-manager.com/task-manager/internal/http/validators"
	"task-manager.com/task-manager/internal/services"
)

type Handler struct {
	userService *services.UserService
	taskService *services.TaskService
	db          *gorm.DB
}

func NewHandler(userService *services.UserService, taskService *services.TaskService, db *gorm.DB) *Handler {
	return &Handler{
		userService: userService,
		taskService: taskService,
		db:          db,
	}
}

func (h *Handler) Register(c echo.Context) error {
	var req dto.RegisterRequest
	if _, err := validators.DecodeJSON(c, &req); err != nil {
		return err
	}

	user, err := h.userService.Register(c.Request().Context(), req.ToInput())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, dto.RegisterResponse{User: dto.ToUserSummary(user)})
}

func (h *Handler) SignIn(c echo.Context) error {
	var req dto.SignInRequest
	if _, err := validators.DecodeJSON(c, &req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	res, err := h.userService.SignIn(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.ToSignInResponse(res))
}

func (h *Handler) ListTasks(c echo.Context) error {
	tasks, err := h.taskService.ListTasks(c.Request().Context(), middleware.CallerID(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.ToTaskResponses(tasks))
}

func (h *Handler) CreateTask(c echo.Context) error {
	var req dto.TaskRequestData
	raw, err := validators.DecodeJSON(c, &req)
	if err != nil {
		return err
	}
	in, err := validators.BuildCreateTaskInput(req, raw)
	if err != nil {
		return err
	}

	task, err := h.taskService.CreateTask(c.Request().Context(), middleware.CallerID(c), in)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, dto.ToTaskResponse(task))
}

func (h *Handler) GetTask(c echo.Context) error {
	task, err := h.taskService.GetTask(c.Request().Context(), middleware.CallerID(c), c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.ToTaskResponse(task))
}

// PatchTask applies a partial update.
func (h *Handler) PatchTask(c echo.Context) error {
	return h.updateTask(c, false)
}

// PutTask is a partial update that requires title.
func (h *Handler) PutTask(c echo.Context) error {
	return h.updateTask(c, true)
}

func (h *Handler) updateTask(c echo.Context, requireTitle bool) error {
	var req dto.TaskRequestData
	raw, err := validators.DecodeJSON(c, &req)
	if err != nil {
		return err
	}
	in, err := validators.BuildUpdateTaskInput(req, raw, requireTitle)
	if err != nil {
		return err
	}

	task, err := h.taskService.UpdateTask(c.Request().Context(), middleware.CallerID(c), c.Param("id"), in)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.ToTaskResponse(task))
}

func (h *Handler) DeleteTask(c echo.Context) error {
	if err := h.taskService.DeleteTask(c.Request().Context(), middleware.CallerID(c), c.Param("id")); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) Health(c echo.Context) error {
	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request().Context())
	}
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "unavailable"})
	}

	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

// NewErrorHandler renders every error returned by a handler or middleware.
// Only Exception messages and field errors reach the client; anything else is
// logged and reported as a generic 500.
func NewErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := apperrors.StatusCode(err)
		var body interface{}

		var appErr *apperrors.Exception
		var verrs apperrors.ValidationErrors
		var httpErr *echo.HTTPError
		switch {
		case errors.As(err, &appErr):
			body = dto.ErrorResponse{Error: appErr.Message}
		case errors.As(err, &verrs):
			body = dto.ValidationErrorResponse{Errors: verrs.Messages()}
		case errors.As(err, &httpErr):
			status = httpErr.Code
			msg, ok := httpErr.Message.(string)
			if !ok {
				msg = http.StatusText(status)
			}
			body = dto.ErrorResponse{Error: msg}
		default:
			logger.Error("unhandled error", zap.Error(err))
			body = dto.ErrorResponse{Error: apperrors.ErrInternal.Message}
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(status)
		} else {
			writeErr = c.JSON(status, body)
		}
		if writeErr != nil {
			logger.Error("failed to write error response", zap.Error(writeErr))
		}
	}
}
