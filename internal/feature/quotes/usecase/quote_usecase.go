package usecase

import (
	"context"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"

	"papertrade/internal/feature/quotes/domain/entity"
	"papertrade/internal/shared/apperr"
)

const unknownCompanyName = "N/A"

// QuoteFetcher fetches the market profile of a fully qualified ticker (e.g., "TCS.NS").
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type QuoteFetcher interface {
	FetchQuote(ctx context.Context, ticker string) (*entity.CompanyProfile, error)
}

// CompanySearcher returns raw search hits across all exchanges, with
// fully qualified tickers as symbols.
type CompanySearcher interface {
	SearchCompanies(ctx context.Context, query string) ([]entity.Company, error)
}

// quoteUsecase resolves NSE symbols to live quotes and research profiles.
type quoteUsecase struct {
	fetcher  QuoteFetcher
	searcher CompanySearcher
	suffix   string
}

// NewQuoteUsecase creates a new quoteUsecase. suffix is the exchange suffix
// appended to bare symbols, ".NS" for the National Stock Exchange.
func NewQuoteUsecase(fetcher QuoteFetcher, searcher CompanySearcher, suffix string) *quoteUsecase {
	if suffix == "" {
		suffix = ".NS"
	}
	return &quoteUsecase{fetcher: fetcher, searcher: searcher, suffix: suffix}
}

// NormalizeSymbol trims and uppercases a user-supplied symbol.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// Lookup returns the live quote for symbol. ok is false when the quote is
// unavailable for any reason; the cause is logged and never returned.
func (u *quoteUsecase) Lookup(ctx context.Context, symbol string) (entity.Quote, bool) {
	symbol = NormalizeSymbol(symbol)
	if symbol == "" {
		return entity.Quote{}, false
	}

	profile, err := u.fetcher.FetchQuote(ctx, symbol+u.suffix)
	if err != nil {
		slog.Warn("quote unavailable", "symbol", symbol, "error", err)
		return entity.Quote{}, false
	}
	if profile.Name == "" || !profile.Price.Valid {
		slog.Warn("quote unavailable", "symbol", symbol, "reason", "missing name or price")
		return entity.Quote{}, false
	}

	return entity.Quote{
		Symbol: symbol,
		Name:   profile.Name,
		Price:  profile.Price.Decimal,
	}, true
}

// Quote validates the form input and looks up symbol.
func (u *quoteUsecase) Quote(ctx context.Context, symbol string) (entity.Quote, error) {
	if err := apperr.Validate(strings.TrimSpace(symbol), validation.Required.Error("must provide symbol")); err != nil {
		return entity.Quote{}, err
	}
	q, ok := u.Lookup(ctx, symbol)
	if !ok {
		return entity.Quote{}, ErrInvalidSymbol
	}
	return q, nil
}

// Search returns the NSE-listed companies matching query, with the
// exchange suffix stripped. Search failures yield an empty list.
func (u *quoteUsecase) Search(ctx context.Context, query string) ([]entity.Company, error) {
	query = strings.TrimSpace(query)
	if err := apperr.Validate(query, validation.Required.Error("must provide company name")); err != nil {
		return nil, err
	}

	hits, err := u.searcher.SearchCompanies(ctx, query)
	if err != nil {
		slog.Warn("company search failed", "query", query, "error", err)
		return []entity.Company{}, nil
	}

	out := make([]entity.Company, 0, len(hits))
	for _, h := range hits {
		if !strings.HasSuffix(h.Symbol, u.suffix) {
			continue
		}
		name := h.Name
		if name == "" {
			name = unknownCompanyName
		}
		out = append(out, entity.Company{
			Symbol: strings.TrimSuffix(h.Symbol, u.suffix),
			Name:   name,
		})
	}
	return out, nil
}

// Detail returns the research profile for symbol.
func (u *quoteUsecase) Detail(ctx context.Context, symbol string) (*entity.CompanyProfile, error) {
	symbol = NormalizeSymbol(symbol)
	if symbol == "" {
		return nil, ErrInvalidSymbol
	}

	profile, err := u.fetcher.FetchQuote(ctx, symbol+u.suffix)
	if err != nil {
		slog.Warn("company profile unavailable", "symbol", symbol, "error", err)
		return nil, ErrInvalidSymbol
	}
	if profile.Name == "" {
		return nil, ErrInvalidSymbol
	}
	profile.Symbol = symbol
	return profile, nil
}
