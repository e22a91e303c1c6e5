package apperr

import (
	"errors"
	"fmt"
	"regexp"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	digits := regexp.MustCompile(`^[0-9]+$`)

	tests := []struct {
		name    string
		value   string
		wantMsg string
	}{
		{"empty value fails required", "", "must provide shares"},
		{"non-digits fail match", "1.5", "shares must be a positive integer"},
		{"digits pass", "42", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := Validate(tt.value,
				validation.Required.Error("must provide shares"),
				validation.Match(digits).Error("shares must be a positive integer"),
			)
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			msg, ok := Message(err)
			assert.True(t, ok)
			assert.Equal(t, tt.wantMsg, msg)
		})
	}
}

func TestMessage(t *testing.T) {
	t.Parallel()

	sentinel := NewValidation("not enough cash")
	wrapped := fmt.Errorf("record buy: %w", sentinel)

	msg, ok := Message(wrapped)
	assert.True(t, ok)
	assert.Equal(t, "not enough cash", msg)
	assert.ErrorIs(t, wrapped, sentinel)

	_, ok = Message(errors.New("connection refused"))
	assert.False(t, ok)
}
