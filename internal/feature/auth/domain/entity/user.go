// Package entity defines the domain entities for the auth feature.
package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// User is a registered trader.
type User struct {
	// ID is the unique identifier for the user.
	ID uint `gorm:"primaryKey"`

	// Username is the login name. It must be unique across all users.
	Username string `gorm:"uniqueIndex;size:255;not null"`

	// Password is the bcrypt hash of the user's password, never plaintext.
	Password string `gorm:"size:255;not null"`

	// Cash is the simulated cash balance in rupees.
	// It is set at registration and changed only by trade settlement.
	Cash decimal.Decimal `gorm:"type:numeric(20,2);not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
