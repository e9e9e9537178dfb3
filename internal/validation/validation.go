// Package validation runs struct-tag validation and converts failures into
// ordered, field-tagged errors.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "task-manager.com/task-manager/internal/errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// Struct validates s and returns apperrors.ValidationErrors in struct field
// order, or nil.
func Struct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	out := make(apperrors.ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, toFieldError(fe))
	}
	return out
}

func toFieldError(fe validator.FieldError) apperrors.FieldError {
	code := apperrors.CodeInvalid
	var msg string

	switch fe.Tag() {
	case "required":
		code = apperrors.CodeRequired
		msg = "this field is required"
	case "email":
		msg = "enter a valid email address"
	case "max":
		code = apperrors.CodeTooLong
		msg = fmt.Sprintf("ensure this field has no more than %s characters", fe.Param())
	case "oneof":
		msg = "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	default:
		msg = fmt.Sprintf("failed %q validation", fe.Tag())
	}

	return apperrors.FieldError{Field: fe.Field(), Code: code, Message: msg}
}
