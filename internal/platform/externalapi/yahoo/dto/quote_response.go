// Package dto defines data transfer objects for the Yahoo Finance API responses.
// Every field is optional: Yahoo omits whatever it does not know.
package dto

import "github.com/shopspring/decimal"

// QuoteResponse is the body of GET /v7/finance/quote.
type QuoteResponse struct {
	QuoteResponse struct {
		Result []QuoteResult `json:"result"`
		Error  *APIError     `json:"error"`
	} `json:"quoteResponse"`
}

// QuoteResult is one ticker's market data.
type QuoteResult struct {
	Symbol                     string              `json:"symbol"`
	LongName                   *string             `json:"longName"`
	ShortName                  *string             `json:"shortName"`
	FullExchangeName           *string             `json:"fullExchangeName"`
	Currency                   *string             `json:"currency"`
	RegularMarketPrice         decimal.NullDecimal `json:"regularMarketPrice"`
	RegularMarketPreviousClose decimal.NullDecimal `json:"regularMarketPreviousClose"`
	RegularMarketDayLow        decimal.NullDecimal `json:"regularMarketDayLow"`
	RegularMarketDayHigh       decimal.NullDecimal `json:"regularMarketDayHigh"`
	FiftyTwoWeekLow            decimal.NullDecimal `json:"fiftyTwoWeekLow"`
	FiftyTwoWeekHigh           decimal.NullDecimal `json:"fiftyTwoWeekHigh"`
	RegularMarketVolume        *int64              `json:"regularMarketVolume"`
	MarketCap                  decimal.NullDecimal `json:"marketCap"`
	TrailingPE                 decimal.NullDecimal `json:"trailingPE"`
}

// APIError is the error object Yahoo embeds in otherwise successful bodies.
type APIError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}
