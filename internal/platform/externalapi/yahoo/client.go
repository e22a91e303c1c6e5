package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"

	"papertrade/internal/feature/quotes/domain/entity"
	"papertrade/internal/feature/quotes/usecase"
	"papertrade/internal/platform/externalapi/yahoo/dto"
	"papertrade/internal/shared/ratelimiter"
)

const (
	searchQuotesCount = "10"
	quotePath         = "/v7/finance/quote"
	crumbPath         = "/v1/test/getcrumb"
	maxCrumbBytes     = 256
)

var (
	// ErrNoResult is returned when Yahoo answers without data for the ticker.
	ErrNoResult = errors.New("yahoo: no result")

	// ErrUnauthorized is returned when Yahoo rejects the cookie or crumb.
	ErrUnauthorized = errors.New("yahoo: unauthorized")
)

// Client fetches quotes and search results from Yahoo Finance.
// Quote calls carry a crumb bound to a consent cookie held in the
// client's cookie jar; the crumb is fetched lazily and renewed once on 401.
type Client struct {
	cfg     Config
	client  *http.Client
	limiter ratelimiter.Limiter

	mu    sync.Mutex
	crumb string
}

var (
	_ usecase.QuoteFetcher    = (*Client)(nil)
	_ usecase.CompanySearcher = (*Client)(nil)
)

// NewClient creates a Client. limiter may be nil. A cookie jar is added to a
// copy of client when it has none.
func NewClient(cfg Config, client *http.Client, limiter ratelimiter.Limiter) *Client {
	hc := *client
	if hc.Jar == nil {
		jar, _ := cookiejar.New(nil)
		hc.Jar = jar
	}
	return &Client{cfg: cfg, client: &hc, limiter: limiter}
}

// FetchQuote returns the market profile of a fully qualified ticker.
func (c *Client) FetchQuote(ctx context.Context, ticker string) (*entity.CompanyProfile, error) {
	ctx, cancel := c.bound(ctx)
	defer cancel()

	var body dto.QuoteResponse
	for attempt := 0; ; attempt++ {
		crumb, err := c.crumbFor(ctx)
		if err != nil {
			return nil, err
		}
		q := url.Values{}
		q.Set("symbols", ticker)
		q.Set("crumb", crumb)

		err = c.getJSON(ctx, quotePath, q, &body)
		if errors.Is(err, ErrUnauthorized) && attempt == 0 {
			slog.Info("yahoo crumb rejected, renewing")
			c.dropCrumb(crumb)
			continue
		}
		if err != nil {
			return nil, err
		}
		break
	}

	if e := body.QuoteResponse.Error; e != nil {
		return nil, fmt.Errorf("yahoo: %s: %s", e.Code, e.Description)
	}
	if len(body.QuoteResponse.Result) == 0 {
		return nil, fmt.Errorf("%w for %s", ErrNoResult, ticker)
	}
	return toProfile(body.QuoteResponse.Result[0]), nil
}

// SearchCompanies returns Yahoo's search hits for query on every exchange.
func (c *Client) SearchCompanies(ctx context.Context, query string) ([]entity.Company, error) {
	ctx, cancel := c.bound(ctx)
	defer cancel()

	q := url.Values{}
	q.Set("q", query)
	q.Set("quotesCount", searchQuotesCount)
	q.Set("newsCount", "0")

	var body dto.SearchResponse
	if err := c.getJSON(ctx, "/v1/finance/search", q, &body); err != nil {
		return nil, err
	}

	out := make([]entity.Company, 0, len(body.Quotes))
	for _, hit := range body.Quotes {
		out = append(out, entity.Company{
			Symbol: hit.Symbol,
			Name:   deref(hit.ShortName),
		})
	}
	return out, nil
}

// bound caps one operation, waiting on the rate limiter included.
func (c *Client) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := c.cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return context.WithTimeout(ctx, timeout)
}

// crumbFor returns the cached crumb, fetching a new one if there is none.
// Concurrent callers wait for a single fetch.
func (c *Client) crumbFor(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.crumb != "" {
		return c.crumb, nil
	}

	if c.cfg.ConsentURL != "" {
		// Yahoo answers 404 here but still sets the consent cookie.
		res, err := c.do(ctx, c.cfg.ConsentURL, "text/html")
		if err != nil {
			return "", fmt.Errorf("yahoo consent: %w", err)
		}
		closeBody(res)
	}

	res, err := c.do(ctx, c.cfg.BaseURL+crumbPath, "text/plain")
	if err != nil {
		return "", fmt.Errorf("yahoo crumb: %w", err)
	}
	defer closeBody(res)
	if err := checkStatus(res); err != nil {
		return "", fmt.Errorf("yahoo crumb: %w", err)
	}
	b, err := io.ReadAll(io.LimitReader(res.Body, maxCrumbBytes))
	if err != nil {
		return "", fmt.Errorf("yahoo crumb: %w", err)
	}
	crumb := strings.TrimSpace(string(b))
	if crumb == "" || strings.ContainsAny(crumb, "<{ ") {
		return "", fmt.Errorf("yahoo crumb: unexpected body %q", crumb)
	}
	c.crumb = crumb
	return crumb, nil
}

// dropCrumb forgets crumb unless another caller already replaced it.
func (c *Client) dropCrumb(crumb string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.crumb == crumb {
		c.crumb = ""
	}
}

// getJSON performs a rate-limited GET and decodes a 2xx JSON body into out.
func (c *Client) getJSON(ctx context.Context, path string, q url.Values, out interface{}) error {
	res, err := c.do(ctx, fmt.Sprintf("%s%s?%s", c.cfg.BaseURL, path, q.Encode()), "application/json")
	if err != nil {
		return err
	}
	defer closeBody(res)

	if err := checkStatus(res); err != nil {
		return err
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("yahoo: decode %s: %w", path, err)
	}
	return nil
}

// do waits for the rate limiter and sends one GET.
func (c *Client) do(ctx context.Context, u, accept string) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("yahoo rate limit: %w", err)
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", accept)
	return c.client.Do(req)
}

func checkStatus(res *http.Response) error {
	switch {
	case res.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case res.StatusCode < 200 || res.StatusCode >= 300:
		return fmt.Errorf("yahoo http %d", res.StatusCode)
	}
	return nil
}

func closeBody(res *http.Response) {
	if err := res.Body.Close(); err != nil {
		slog.Warn("failed to close response body", "error", err)
	}
}

func toProfile(r dto.QuoteResult) *entity.CompanyProfile {
	return &entity.CompanyProfile{
		Symbol:           r.Symbol,
		Name:             deref(r.LongName),
		Exchange:         deref(r.FullExchangeName),
		Currency:         deref(r.Currency),
		Price:            r.RegularMarketPrice,
		PreviousClose:    r.RegularMarketPreviousClose,
		DayLow:           r.RegularMarketDayLow,
		DayHigh:          r.RegularMarketDayHigh,
		FiftyTwoWeekLow:  r.FiftyTwoWeekLow,
		FiftyTwoWeekHigh: r.FiftyTwoWeekHigh,
		MarketCap:        r.MarketCap,
		TrailingPE:       r.TrailingPE,
		Volume:           r.RegularMarketVolume,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
