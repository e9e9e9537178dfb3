package validators

import "task-manager.com/task-manager/internal/validation"

// EchoValidator plugs the shared validator into echo.Context.Validate.
type EchoValidator struct{}

func (EchoValidator) Validate(i interface{}) error {
	return validation.Struct(i)
}
