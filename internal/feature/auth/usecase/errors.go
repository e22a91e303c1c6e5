// Package usecase implements registration, login, sessions and password changes.
package usecase

import (
	"errors"

	"papertrade/internal/shared/apperr"
)

var (
	// ErrUserNotFound is returned by repositories when no user matches.
	ErrUserNotFound = errors.New("user not found")

	// ErrUsernameTaken is returned when registering a username that already exists.
	ErrUsernameTaken = apperr.NewValidation("username already exists")

	// ErrInvalidCredentials is the only login failure callers ever see.
	// It does not reveal whether the username or the password was wrong.
	ErrInvalidCredentials = apperr.NewValidation("invalid username and/or password")

	// ErrIncorrectPassword is returned by ChangePassword when the old password does not verify.
	ErrIncorrectPassword = apperr.NewValidation("incorrect password")

	// ErrSessionNotFound is returned when a session cannot be found by ID.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionInvalid is returned when a session exists but is revoked or expired.
	ErrSessionInvalid = errors.New("session is no longer valid")
)
