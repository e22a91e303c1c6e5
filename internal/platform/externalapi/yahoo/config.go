// Package yahoo is a client for the Yahoo Finance quote and search endpoints.
package yahoo

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

const (
	defaultBaseURL    = "https://query1.finance.yahoo.com"
	defaultConsentURL = "https://fc.yahoo.com"
	defaultSuffix     = ".NS"
	defaultTimeout    = 5 * time.Second
	defaultRateLimit  = 120
	defaultCacheTTL   = 10 * time.Minute

	// DefaultUserAgent is sent with every request; Yahoo rejects the Go default.
	DefaultUserAgent = "Mozilla/5.0"
)

// Config holds configuration for the Yahoo Finance client.
type Config struct {
	BaseURL        string        // e.g., "https://query1.finance.yahoo.com"
	ConsentURL     string        // sets the cookie the crumb is bound to; empty skips the visit
	Suffix         string        // exchange suffix appended to bare symbols
	Timeout        time.Duration // bound on one lookup or search, rate-limit wait included
	RateLimit      int           // calls per minute; 0 disables limiting
	SearchCacheTTL time.Duration // lifetime of cached search results
}

// LoadConfig loads Yahoo Finance configuration from environment variables.
func LoadConfig() Config {
	cfg := Config{
		BaseURL:        os.Getenv("YAHOO_BASE_URL"),
		ConsentURL:     os.Getenv("YAHOO_CONSENT_URL"),
		Suffix:         os.Getenv("QUOTE_EXCHANGE_SUFFIX"),
		Timeout:        defaultTimeout,
		RateLimit:      defaultRateLimit,
		SearchCacheTTL: defaultCacheTTL,
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.ConsentURL == "" {
		cfg.ConsentURL = defaultConsentURL
	}
	if cfg.Suffix == "" {
		cfg.Suffix = defaultSuffix
	}
	if v := os.Getenv("YAHOO_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.RateLimit = n
		} else {
			slog.Warn("invalid YAHOO_RATE_LIMIT, using default", "value", v)
		}
	}
	if v := os.Getenv("SEARCH_CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.SearchCacheTTL = d
		} else {
			slog.Warn("invalid SEARCH_CACHE_TTL, using default", "value", v)
		}
	}
	return cfg
}
