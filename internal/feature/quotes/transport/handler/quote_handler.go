// Package handler provides HTTP handlers for quotes and company research.
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"papertrade/internal/feature/quotes/domain/entity"
	"papertrade/internal/platform/view"
)

const noMatches = "No matching NSE companies found"

// QuoteUsecase defines the lookups the handler needs.
type QuoteUsecase interface {
	Quote(ctx context.Context, symbol string) (entity.Quote, error)
	Search(ctx context.Context, query string) ([]entity.Company, error)
	Detail(ctx context.Context, symbol string) (*entity.CompanyProfile, error)
}

// QuoteHandler serves the quote and research pages.
type QuoteHandler struct {
	quotes QuoteUsecase
}

// NewQuoteHandler creates a QuoteHandler.
func NewQuoteHandler(quotes QuoteUsecase) *QuoteHandler {
	return &QuoteHandler{quotes: quotes}
}

// QuoteForm shows the quote page.
func (h *QuoteHandler) QuoteForm(c *gin.Context) {
	view.Render(c, http.StatusOK, "quote", nil)
}

// Quote shows the live price of the posted symbol.
func (h *QuoteHandler) Quote(c *gin.Context) {
	q, err := h.quotes.Quote(c.Request.Context(), c.PostForm("symbol"))
	if err != nil {
		view.Fail(c, err)
		return
	}
	view.Render(c, http.StatusOK, "quote", gin.H{"Quote": q})
}

// ResearchForm shows the company search page.
func (h *QuoteHandler) ResearchForm(c *gin.Context) {
	view.Render(c, http.StatusOK, "research", nil)
}

// Research lists NSE companies matching the posted name.
func (h *QuoteHandler) Research(c *gin.Context) {
	query := c.PostForm("query")
	results, err := h.quotes.Search(c.Request.Context(), query)
	if err != nil {
		view.Fail(c, err)
		return
	}
	if len(results) == 0 {
		view.SetFlash(c, noMatches)
		c.Redirect(http.StatusFound, "/research")
		return
	}
	view.Render(c, http.StatusOK, "research", gin.H{"Query": query, "Results": results})
}

// Detail shows the research profile of one company.
func (h *QuoteHandler) Detail(c *gin.Context) {
	profile, err := h.quotes.Detail(c.Request.Context(), c.Param("symbol"))
	if err != nil {
		view.Fail(c, err)
		return
	}
	view.Render(c, http.StatusOK, "research_detail", gin.H{"Profile": profile})
}
