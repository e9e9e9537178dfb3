package http

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"task-manager.com/task-manager/internal/http/validators"
)

// NewServer returns an echo instance with the shared validator and error
// handler. Client IPs come from the connection only; X-Forwarded-For and
// X-Real-IP are ignored so they cannot be used to dodge the rate limiter.
func NewServer(logger *zap.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.IPExtractor = echo.ExtractIPDirect()
	e.Validator = validators.EchoValidator{}
	e.HTTPErrorHandler = NewErrorHandler(logger)
	return e
}
