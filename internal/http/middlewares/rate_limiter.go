package middleware

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "task-manager.com/task-manager/internal/errors"
	"task-manager.com/task-manager/internal/ratelimit"
)

// RateLimiter limits requests per client IP. If the limiter store fails the
// request is let through and the failure logged.
func RateLimiter(limiter ratelimit.Limiter, logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ok, err := limiter.Allow(c.Request().Context(), c.RealIP())
			if err != nil {
				logger.Warn("rate limiter unavailable", zap.Error(err))
				return next(c)
			}
			if !ok {
				return apperrors.ErrRateLimited
			}
			return next(c)
		}
	}
}
