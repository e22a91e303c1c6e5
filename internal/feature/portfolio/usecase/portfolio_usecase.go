package usecase

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/shopspring/decimal"

	"papertrade/internal/feature/portfolio/domain/entity"
	quoteentity "papertrade/internal/feature/quotes/domain/entity"
	"papertrade/internal/shared/apperr"
	"papertrade/internal/shared/markethours"
)

// pricePlaces is the precision prices and cash are stored at.
const pricePlaces = 2

var digitsOnly = regexp.MustCompile(`^[0-9]+$`)

// LedgerRepository persists accounts and trades.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type LedgerRepository interface {
	// FindAccount returns ErrAccountNotFound if the user does not exist.
	FindAccount(ctx context.Context, userID uint) (*entity.Account, error)

	// RecordBuy atomically debits shares×price and records a +shares transaction.
	// It returns ErrInsufficientFunds without mutating anything when cash is short.
	RecordBuy(ctx context.Context, userID uint, symbol string, shares int64, price decimal.Decimal, at time.Time) error

	// RecordSell atomically credits shares×price and records a -shares transaction.
	// It returns ErrInsufficientHoldings without mutating anything when too few shares are held.
	RecordSell(ctx context.Context, userID uint, symbol string, shares int64, price decimal.Decimal, at time.Time) error

	// SharesHeld returns the summed quantity of symbol held by username.
	SharesHeld(ctx context.Context, username, symbol string) (int64, error)

	// ListHoldings returns positions with a positive sum, ordered by symbol.
	ListHoldings(ctx context.Context, username string) ([]entity.Position, error)

	// ListTransactions returns every transaction of username, oldest first.
	ListTransactions(ctx context.Context, username string) ([]entity.Transaction, error)
}

// QuoteProvider resolves a symbol to a live quote. ok is false when no quote is available.
type QuoteProvider interface {
	Lookup(ctx context.Context, symbol string) (quoteentity.Quote, bool)
}

// portfolioUsecase implements buying, selling and portfolio valuation.
type portfolioUsecase struct {
	ledger LedgerRepository
	quotes QuoteProvider
	locks  *userLocks
	now    func() time.Time
}

// NewPortfolioUsecase creates a new portfolioUsecase.
func NewPortfolioUsecase(ledger LedgerRepository, quotes QuoteProvider) *portfolioUsecase {
	return &portfolioUsecase{
		ledger: ledger,
		quotes: quotes,
		locks:  newUserLocks(),
		now:    time.Now,
	}
}

// Buy purchases shares of symbol at the live price.
func (u *portfolioUsecase) Buy(ctx context.Context, userID uint, symbol, shares string) (*entity.Transaction, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if err := apperr.Validate(symbol, validation.Required.Error("must provide symbol")); err != nil {
		return nil, err
	}
	n, err := parseShares(shares, "must provide shares")
	if err != nil {
		return nil, err
	}

	quote, ok := u.quotes.Lookup(ctx, symbol)
	if !ok {
		return nil, ErrInvalidSymbol
	}
	price := quote.Price.Round(pricePlaces)

	release := u.locks.lock(userID)
	defer release()

	at := u.now()
	if err := u.ledger.RecordBuy(ctx, userID, quote.Symbol, n, price, at); err != nil {
		return nil, err
	}
	return &entity.Transaction{Symbol: quote.Symbol, Quantity: n, Price: price, ExecutedAt: at}, nil
}

// Sell sells shares of symbol at the live price.
func (u *portfolioUsecase) Sell(ctx context.Context, userID uint, symbol, shares string) (*entity.Transaction, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if err := apperr.Validate(symbol, validation.Required.Error("must select symbol")); err != nil {
		return nil, err
	}
	n, err := parseShares(shares, "must enter shares")
	if err != nil {
		return nil, err
	}

	account, err := u.ledger.FindAccount(ctx, userID)
	if err != nil {
		return nil, err
	}
	// Checked again under the lock; this only decides which error the user sees first.
	held, err := u.ledger.SharesHeld(ctx, account.Username, symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to read position: %w", err)
	}
	if held < n {
		return nil, ErrInsufficientHoldings
	}

	quote, ok := u.quotes.Lookup(ctx, symbol)
	if !ok {
		return nil, ErrInvalidSymbol
	}
	price := quote.Price.Round(pricePlaces)

	release := u.locks.lock(userID)
	defer release()

	at := u.now()
	if err := u.ledger.RecordSell(ctx, userID, quote.Symbol, n, price, at); err != nil {
		return nil, err
	}
	return &entity.Transaction{Symbol: quote.Symbol, Quantity: -n, Price: price, ExecutedAt: at}, nil
}

// Portfolio values every holding at its live price. A holding whose quote
// is unavailable is valued at zero and marks the portfolio Stale.
func (u *portfolioUsecase) Portfolio(ctx context.Context, userID uint) (*entity.Portfolio, error) {
	account, err := u.ledger.FindAccount(ctx, userID)
	if err != nil {
		return nil, err
	}
	positions, err := u.ledger.ListHoldings(ctx, account.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to list holdings: %w", err)
	}

	p := &entity.Portfolio{
		Username:      account.Username,
		Cash:          account.Cash,
		Holdings:      make([]entity.Holding, 0, len(positions)),
		HoldingsValue: decimal.Zero,
		MarketOpen:    markethours.IsOpen(u.now()),
	}
	for _, pos := range positions {
		h := entity.Holding{Symbol: pos.Symbol, Shares: pos.Shares, Price: decimal.Zero, Value: decimal.Zero}
		if q, ok := u.quotes.Lookup(ctx, pos.Symbol); ok {
			h.Price = q.Price.Round(pricePlaces)
			h.Value = h.Price.Mul(decimal.NewFromInt(pos.Shares))
		} else {
			p.Stale = true
		}
		p.HoldingsValue = p.HoldingsValue.Add(h.Value)
		p.Holdings = append(p.Holdings, h)
	}
	p.Total = p.Cash.Add(p.HoldingsValue)
	return p, nil
}

// NetWorth returns cash plus the live value of all holdings.
func (u *portfolioUsecase) NetWorth(ctx context.Context, userID uint) (decimal.Decimal, error) {
	p, err := u.Portfolio(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	return p.Total, nil
}

// History returns every transaction of the user, oldest first.
func (u *portfolioUsecase) History(ctx context.Context, userID uint) ([]entity.Transaction, error) {
	account, err := u.ledger.FindAccount(ctx, userID)
	if err != nil {
		return nil, err
	}
	return u.ledger.ListTransactions(ctx, account.Username)
}

// HeldSymbols returns the symbols the user can sell.
func (u *portfolioUsecase) HeldSymbols(ctx context.Context, userID uint) ([]string, error) {
	account, err := u.ledger.FindAccount(ctx, userID)
	if err != nil {
		return nil, err
	}
	positions, err := u.ledger.ListHoldings(ctx, account.Username)
	if err != nil {
		return nil, err
	}
	symbols := make([]string, len(positions))
	for i, p := range positions {
		symbols[i] = p.Symbol
	}
	return symbols, nil
}

// parseShares accepts only a positive whole number of shares.
func parseShares(shares, missingMsg string) (int64, error) {
	shares = strings.TrimSpace(shares)
	if err := apperr.Validate(shares, validation.Required.Error(missingMsg)); err != nil {
		return 0, err
	}
	if !digitsOnly.MatchString(shares) {
		return 0, ErrInvalidShares
	}
	n, err := strconv.ParseInt(shares, 10, 64)
	if err != nil || n <= 0 {
		return 0, ErrInvalidShares
	}
	return n, nil
}
