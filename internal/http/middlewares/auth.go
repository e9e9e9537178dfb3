package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	apperrors "task-manager.com/task-manager/internal/errors"
	model "task-manager.com/task-manager/internal/models"
)

const callerKey = "caller"

type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*model.User, error)
}

// JWTAuth requires "Authorization: Bearer <access token>" and stores the
// resolved user on the context. Anything else is a 401.
func JWTAuth(authenticator Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			scheme, token, found := strings.Cut(header, " ")
			if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
				return apperrors.ErrUnauthorized
			}

			user, err := authenticator.Authenticate(c.Request().Context(), strings.TrimSpace(token))
			if err != nil {
				return err
			}

			c.Set(callerKey, user)
			return next(c)
		}
	}
}

// Caller returns the user stored by JWTAuth, or nil.
func Caller(c echo.Context) *model.User {
	user, _ := c.Get(callerKey).(*model.User)
	return user
}

// CallerID is Caller(c).ID, or "" when no caller was resolved.
func CallerID(c echo.Context) string {
	if user := Caller(c); user != nil {
		return user.ID
	}
	return ""
}
