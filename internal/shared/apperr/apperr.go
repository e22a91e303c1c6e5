// Package apperr defines errors whose message is safe to show to the user.
package apperr

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"
)

// ValidationError is a rejected request whose Message is shown to the user as is.
// Nothing has been mutated when a ValidationError is returned.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidation creates a ValidationError with the given user-facing message.
func NewValidation(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// Validate runs the ozzo-validation rules against value and converts the first
// failure into a ValidationError.
func Validate(value interface{}, rules ...validation.Rule) error {
	if err := validation.Validate(value, rules...); err != nil {
		return NewValidation(err.Error())
	}
	return nil
}

// Message returns the user-facing message carried by err, if any.
func Message(err error) (string, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Message, true
	}
	return "", false
}
