// Package usecase implements trading, valuation and history for a user's portfolio.
package usecase

import (
	"errors"

	"papertrade/internal/shared/apperr"
)

var (
	// ErrAccountNotFound is returned when the user behind a session no longer exists.
	ErrAccountNotFound = errors.New("account not found")

	// ErrInsufficientFunds is returned when a buy costs more than the available cash.
	ErrInsufficientFunds = apperr.NewValidation("not enough cash")

	// ErrInsufficientHoldings is returned when selling more shares than are held.
	ErrInsufficientHoldings = apperr.NewValidation("not enough shares")

	// ErrInvalidSymbol is returned when no live quote exists for the symbol.
	ErrInvalidSymbol = apperr.NewValidation("invalid symbol")

	// ErrInvalidShares is returned for share counts that are not positive whole numbers.
	ErrInvalidShares = apperr.NewValidation("shares must be a positive integer")
)
