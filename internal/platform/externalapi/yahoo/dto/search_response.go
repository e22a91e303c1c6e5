package dto

// SearchResponse is the body of GET /v1/finance/search.
type SearchResponse struct {
	Quotes []SearchQuote `json:"quotes"`
}

// SearchQuote is one search hit.
type SearchQuote struct {
	Symbol    string  `json:"symbol"`
	ShortName *string `json:"shortname"`
	Exchange  string  `json:"exchange"`
	QuoteType string  `json:"quoteType"`
}
