// Package usecase implements quote lookup, company search and research.
package usecase

import "papertrade/internal/shared/apperr"

// ErrInvalidSymbol is returned when no quote can be resolved for a symbol.
var ErrInvalidSymbol = apperr.NewValidation("invalid symbol")
