// Package handler provides HTTP handlers for the portfolio feature.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"papertrade/internal/feature/portfolio/domain/entity"
	"papertrade/internal/feature/portfolio/transport/http/dto"
	"papertrade/internal/feature/portfolio/usecase"
	jwtmw "papertrade/internal/platform/jwt"
	"papertrade/internal/platform/view"
)

// PortfolioUsecase defines the trading operations the handler needs.
type PortfolioUsecase interface {
	Buy(ctx context.Context, userID uint, symbol, shares string) (*entity.Transaction, error)
	Sell(ctx context.Context, userID uint, symbol, shares string) (*entity.Transaction, error)
	Portfolio(ctx context.Context, userID uint) (*entity.Portfolio, error)
	History(ctx context.Context, userID uint) ([]entity.Transaction, error)
	HeldSymbols(ctx context.Context, userID uint) ([]string, error)
}

// PortfolioHandler serves the portfolio, buy, sell and history pages.
type PortfolioHandler struct {
	portfolio PortfolioUsecase
}

// NewPortfolioHandler creates a PortfolioHandler.
func NewPortfolioHandler(portfolio PortfolioUsecase) *PortfolioHandler {
	return &PortfolioHandler{portfolio: portfolio}
}

// Index shows holdings valued at live prices, cash and the grand total.
func (h *PortfolioHandler) Index(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	p, err := h.portfolio.Portfolio(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, err)
		return
	}
	view.Render(c, http.StatusOK, "index", gin.H{"Portfolio": p})
}

// BuyForm shows the buy page, prefilled from ?symbol=.
func (h *PortfolioHandler) BuyForm(c *gin.Context) {
	view.Render(c, http.StatusOK, "buy", gin.H{"Symbol": c.Query("symbol")})
}

// Buy purchases shares at the live price.
func (h *PortfolioHandler) Buy(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var form dto.TradeForm
	if err := c.ShouldBind(&form); err != nil {
		view.Apology(c, http.StatusBadRequest, "invalid request")
		return
	}

	tx, err := h.portfolio.Buy(c.Request.Context(), userID, form.Symbol, form.Shares)
	if err != nil {
		h.fail(c, err)
		return
	}

	slog.Info("buy executed", "user_id", userID, "symbol", tx.Symbol, "shares", tx.Quantity, "price", tx.Price.StringFixed(2))
	view.SetFlash(c, "Purchase successful!")
	c.Redirect(http.StatusFound, "/")
}

// SellForm shows the sell page listing the symbols currently held.
func (h *PortfolioHandler) SellForm(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	symbols, err := h.portfolio.HeldSymbols(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, err)
		return
	}
	view.Render(c, http.StatusOK, "sell", gin.H{"Symbols": symbols})
}

// Sell sells shares at the live price.
func (h *PortfolioHandler) Sell(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var form dto.TradeForm
	if err := c.ShouldBind(&form); err != nil {
		view.Apology(c, http.StatusBadRequest, "invalid request")
		return
	}

	tx, err := h.portfolio.Sell(c.Request.Context(), userID, form.Symbol, form.Shares)
	if err != nil {
		h.fail(c, err)
		return
	}

	slog.Info("sell executed", "user_id", userID, "symbol", tx.Symbol, "shares", tx.Shares(), "price", tx.Price.StringFixed(2))
	view.SetFlash(c, "Sell completed successfully!")
	c.Redirect(http.StatusFound, "/")
}

// History lists every transaction of the user.
func (h *PortfolioHandler) History(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	txs, err := h.portfolio.History(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, err)
		return
	}
	view.Render(c, http.StatusOK, "history", gin.H{"Transactions": txs})
}

// fail sends a user whose account vanished back through logout.
func (h *PortfolioHandler) fail(c *gin.Context, err error) {
	if errors.Is(err, usecase.ErrAccountNotFound) {
		c.Redirect(http.StatusFound, "/logout")
		return
	}
	view.Fail(c, err)
}

func requireUser(c *gin.Context) (uint, bool) {
	userID, ok := jwtmw.UserID(c)
	if !ok {
		c.Redirect(http.StatusFound, "/login")
	}
	return userID, ok
}
