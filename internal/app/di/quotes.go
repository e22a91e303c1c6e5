package di

import (
	"time"

	"github.com/redis/go-redis/v9"

	"papertrade/internal/feature/quotes/usecase"
	"papertrade/internal/platform/cache"
	"papertrade/internal/platform/externalapi/yahoo"
	infrahttp "papertrade/internal/platform/http"
	"papertrade/internal/shared/ratelimiter"
)

// QuoteSources are the market-data ports backed by Yahoo Finance.
type QuoteSources struct {
	Fetcher  usecase.QuoteFetcher
	Searcher usecase.CompanySearcher
}

// NewQuoteSources creates the Yahoo client, rate limited and with a User-Agent
// Yahoo accepts. Searches go through Redis when rdb is non-nil.
func NewQuoteSources(cfg yahoo.Config, rdb *redis.Client) QuoteSources {
	httpClient := infrahttp.NewHTTPClient(cfg.Timeout, yahoo.DefaultUserAgent)
	limiter := ratelimiter.NewRateLimiter(cfg.RateLimit, time.Minute)
	client := yahoo.NewClient(cfg, httpClient, limiter)
	return QuoteSources{
		Fetcher:  client,
		Searcher: cache.NewCachingCompanySearch(rdb, cfg.SearchCacheTTL, client, "search"),
	}
}
