package validators

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/labstack/echo/v4"

	apperrors "task-manager.com/task-manager/internal/errors"
)

const maxBodyBytes = 1 << 20

// DecodeJSON decodes the request body into dst and also returns the raw
// top-level object, so callers can tell an absent field from an explicit null.
func DecodeJSON(c echo.Context, dst interface{}) (map[string]json.RawMessage, error) {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxBodyBytes))
	if err != nil {
		return nil, apperrors.ErrInvalidJSON
	}

	raw := map[string]json.RawMessage{}
	if len(bytes.TrimSpace(body)) == 0 {
		return raw, nil
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, apperrors.ErrInvalidJSON
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return nil, apperrors.ErrInvalidJSON
	}
	return raw, nil
}

func hasJSONField(raw map[string]json.RawMessage, field string) bool {
	_, ok := raw[field]
	return ok
}

func isJSONNull(value json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(value), []byte("null"))
}

func notNull(raw map[string]json.RawMessage, fields ...string) apperrors.ValidationErrors {
	var verrs apperrors.ValidationErrors
	for _, f := range fields {
		if v, ok := raw[f]; ok && isJSONNull(v) {
			verrs = append(verrs, apperrors.FieldError{
				Field:   f,
				Code:    apperrors.CodeInvalid,
				Message: "this field may not be null",
			})
		}
	}
	return verrs
}
