package errors

import "strings"

// Codes for FieldError.Code. The registration chain codes are listed in the
// order they are evaluated.
const (
	CodeRequired      = "required"
	CodeInvalid       = "invalid"
	CodeTooLong       = "too_long"
	CodePasswordMatch = "password_mismatch"
	CodePhoneDigits   = "phone_not_numeric"
	CodePhoneLength   = "phone_length"
	CodeEmailTaken    = "email_taken"
	CodePhoneTaken    = "phone_taken"
)

type FieldError struct {
	Field   string
	Code    string
	Message string
}

func (e FieldError) String() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// ValidationErrors keeps field errors in the order they were detected.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	return strings.Join(v.Messages(), "; ")
}

func (v ValidationErrors) Messages() []string {
	out := make([]string, 0, len(v))
	for _, e := range v {
		out = append(out, e.String())
	}
	return out
}

func (v ValidationErrors) Has(code string) bool {
	for _, e := range v {
		if e.Code == code {
			return true
		}
	}
	return false
}

// Err returns nil when v is empty so callers can return it unconditionally.
func (v ValidationErrors) Err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}
