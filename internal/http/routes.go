package http

import (
	"github.com/labstack/echo/v4"
)

func Register(e *echo.Echo, h *Handler, auth echo.MiddlewareFunc) {
	e.GET("/health", h.Health)

	e.POST("/auth/register", h.Register)
	e.POST("/auth/signin", h.SignIn)

	tasks := e.Group("/tasks", auth)
	tasks.GET("", h.ListTasks)
	tasks.POST("", h.CreateTask)
	tasks.GET("/:id", h.GetTask)
	tasks.PATCH("/:id", h.PatchTask)
	tasks.PUT("/:id", h.PutTask)
	tasks.DELETE("/:id", h.DeleteTask)
}
