// Package entity defines the ledger entities for the portfolio feature.
package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is the cash side of a user's portfolio.
type Account struct {
	ID       uint
	Username string
	Cash     decimal.Decimal
}

// Transaction is one immutable ledger row.
// Quantity is positive for a buy and negative for a sell.
type Transaction struct {
	ID         uint
	Username   string
	Symbol     string
	Quantity   int64
	Price      decimal.Decimal // unit price at execution
	ExecutedAt time.Time
}

// IsBuy reports whether the transaction added shares.
func (t Transaction) IsBuy() bool {
	return t.Quantity > 0
}

// Shares returns the absolute number of shares traded.
func (t Transaction) Shares() int64 {
	if t.Quantity < 0 {
		return -t.Quantity
	}
	return t.Quantity
}

// Total returns the cash moved by the transaction, always non-negative.
func (t Transaction) Total() decimal.Decimal {
	return t.Price.Mul(decimal.NewFromInt(t.Shares()))
}
