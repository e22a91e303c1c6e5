// Package adapters provides the GORM ledger for the portfolio feature.
package adapters

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"papertrade/internal/feature/portfolio/domain/entity"
	"papertrade/internal/feature/portfolio/usecase"
)

// TransactionModel is the GORM model for the transactions table.
type TransactionModel struct {
	ID         uint            `gorm:"primaryKey"`
	Username   string          `gorm:"size:255;not null;index:idx_transactions_user_symbol,priority:1"`
	Symbol     string          `gorm:"size:32;not null;index:idx_transactions_user_symbol,priority:2"`
	Quantity   int64           `gorm:"not null"`
	Price      decimal.Decimal `gorm:"type:numeric(20,2);not null"`
	ExecutedAt time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM.
func (TransactionModel) TableName() string {
	return "transactions"
}

// ToEntity converts the GORM model to a domain entity.
func (m *TransactionModel) ToEntity() entity.Transaction {
	return entity.Transaction{
		ID:         m.ID,
		Username:   m.Username,
		Symbol:     m.Symbol,
		Quantity:   m.Quantity,
		Price:      m.Price,
		ExecutedAt: m.ExecutedAt,
	}
}

// accountModel maps the cash columns of the users table owned by the auth feature.
type accountModel struct {
	ID        uint
	Username  string
	Cash      decimal.Decimal
	UpdatedAt time.Time
}

func (accountModel) TableName() string {
	return "users"
}

// ledgerGorm is a GORM implementation of the LedgerRepository interface.
type ledgerGorm struct {
	db *gorm.DB
}

// Compile-time check to ensure ledgerGorm implements LedgerRepository.
var _ usecase.LedgerRepository = (*ledgerGorm)(nil)

// NewLedgerGorm creates a new instance of ledgerGorm.
func NewLedgerGorm(db *gorm.DB) *ledgerGorm {
	return &ledgerGorm{db: db}
}

// FindAccount returns usecase.ErrAccountNotFound when no user matches.
func (r *ledgerGorm) FindAccount(ctx context.Context, userID uint) (*entity.Account, error) {
	var m accountModel
	if err := r.db.WithContext(ctx).Where("id = ?", userID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrAccountNotFound
		}
		return nil, err
	}
	return &entity.Account{ID: m.ID, Username: m.Username, Cash: m.Cash}, nil
}

// RecordBuy debits the cost and records the purchase in one transaction.
func (r *ledgerGorm) RecordBuy(ctx context.Context, userID uint, symbol string, shares int64, price decimal.Decimal, at time.Time) error {
	if shares <= 0 {
		return fmt.Errorf("buy quantity must be positive, got %d", shares)
	}
	cost := price.Mul(decimal.NewFromInt(shares))

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		account, err := lockAccount(tx, userID)
		if err != nil {
			return err
		}
		if account.Cash.LessThan(cost) {
			return usecase.ErrInsufficientFunds
		}
		if err := insertTransaction(tx, account.Username, symbol, shares, price, at); err != nil {
			return err
		}
		return setCash(tx, userID, account.Cash.Sub(cost))
	})
}

// RecordSell credits the proceeds and records the sale in one transaction.
func (r *ledgerGorm) RecordSell(ctx context.Context, userID uint, symbol string, shares int64, price decimal.Decimal, at time.Time) error {
	if shares <= 0 {
		return fmt.Errorf("sell quantity must be positive, got %d", shares)
	}
	proceeds := price.Mul(decimal.NewFromInt(shares))

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		account, err := lockAccount(tx, userID)
		if err != nil {
			return err
		}
		held, err := sharesHeld(tx, account.Username, symbol)
		if err != nil {
			return err
		}
		if held < shares {
			return usecase.ErrInsufficientHoldings
		}
		if err := insertTransaction(tx, account.Username, symbol, -shares, price, at); err != nil {
			return err
		}
		return setCash(tx, userID, account.Cash.Add(proceeds))
	})
}

// SharesHeld returns the signed sum of quantities for username and symbol.
func (r *ledgerGorm) SharesHeld(ctx context.Context, username, symbol string) (int64, error) {
	return sharesHeld(r.db.WithContext(ctx), username, symbol)
}

// ListHoldings returns symbols with a positive summed quantity, ordered by symbol.
func (r *ledgerGorm) ListHoldings(ctx context.Context, username string) ([]entity.Position, error) {
	var rows []struct {
		Symbol string
		Shares int64
	}
	if err := r.db.WithContext(ctx).
		Model(&TransactionModel{}).
		Select("symbol, SUM(quantity) AS shares").
		Where("username = ?", username).
		Group("symbol").
		Having("SUM(quantity) > 0").
		Order("symbol ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	positions := make([]entity.Position, len(rows))
	for i, row := range rows {
		positions[i] = entity.Position{Symbol: row.Symbol, Shares: row.Shares}
	}
	return positions, nil
}

// ListTransactions returns every transaction of username, oldest first.
func (r *ledgerGorm) ListTransactions(ctx context.Context, username string) ([]entity.Transaction, error) {
	var models []TransactionModel
	if err := r.db.WithContext(ctx).
		Where("username = ?", username).
		Order("executed_at ASC").
		Order("id ASC").
		Find(&models).Error; err != nil {
		return nil, err
	}

	txs := make([]entity.Transaction, len(models))
	for i := range models {
		txs[i] = models[i].ToEntity()
	}
	return txs, nil
}

// lockAccount reads the user row with SELECT ... FOR UPDATE.
// SQLite ignores the clause; it serialises writers on its own.
func lockAccount(tx *gorm.DB, userID uint) (*accountModel, error) {
	var m accountModel
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", userID).
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrAccountNotFound
		}
		return nil, err
	}
	return &m, nil
}

func sharesHeld(db *gorm.DB, username, symbol string) (int64, error) {
	var held int64
	err := db.Model(&TransactionModel{}).
		Select("COALESCE(SUM(quantity), 0)").
		Where("username = ? AND symbol = ?", username, symbol).
		Scan(&held).Error
	return held, err
}

func insertTransaction(tx *gorm.DB, username, symbol string, quantity int64, price decimal.Decimal, at time.Time) error {
	return tx.Create(&TransactionModel{
		Username:   username,
		Symbol:     symbol,
		Quantity:   quantity,
		Price:      price,
		ExecutedAt: at,
	}).Error
}

func setCash(tx *gorm.DB, userID uint, cash decimal.Decimal) error {
	return tx.Model(&accountModel{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"cash":       cash,
			"updated_at": time.Now(),
		}).Error
}
