// Package entity defines the market-data entities for the quotes feature.
package entity

import "github.com/shopspring/decimal"

// Quote is a live price for an NSE equity. Quotes are never persisted.
type Quote struct {
	Symbol string          // Bare NSE symbol, uppercase (e.g., "RELIANCE")
	Name   string          // Company long name
	Price  decimal.Decimal // Last traded price in rupees
}

// Company is one company search result.
type Company struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// CompanyProfile is the research view of a listed company.
// Fields the market-data source omits are left invalid or nil.
type CompanyProfile struct {
	Symbol   string
	Name     string
	Exchange string
	Currency string

	Price            decimal.NullDecimal
	PreviousClose    decimal.NullDecimal
	DayLow           decimal.NullDecimal
	DayHigh          decimal.NullDecimal
	FiftyTwoWeekLow  decimal.NullDecimal
	FiftyTwoWeekHigh decimal.NullDecimal
	MarketCap        decimal.NullDecimal
	TrailingPE       decimal.NullDecimal
	Volume           *int64
}
