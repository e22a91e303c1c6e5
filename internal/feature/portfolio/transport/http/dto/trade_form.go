// Package dto defines the form payloads posted to the trading routes.
package dto

// TradeForm is the body of POST /buy and POST /sell.
// Shares stays a string so the usecase can report malformed input itself.
type TradeForm struct {
	Symbol string `form:"symbol"`
	Shares string `form:"shares"`
}
