package entity

import "github.com/shopspring/decimal"

// Position is the summed quantity a user holds in one symbol.
type Position struct {
	Symbol string
	Shares int64
}

// Holding is a position valued at the live price.
// Price and Value are zero when the quote was unavailable.
type Holding struct {
	Symbol string
	Shares int64
	Price  decimal.Decimal
	Value  decimal.Decimal
}

// Portfolio is the valued view of a user's account.
type Portfolio struct {
	Username      string
	Cash          decimal.Decimal
	Holdings      []Holding
	HoldingsValue decimal.Decimal
	// Total is Cash plus HoldingsValue.
	Total decimal.Decimal
	// Stale is set when at least one holding could not be priced.
	Stale      bool
	MarketOpen bool
}
