// Package cache provides caching decorators for market-data lookups.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"papertrade/internal/feature/quotes/domain/entity"
	"papertrade/internal/feature/quotes/usecase"
)

// CachingCompanySearch decorates a CompanySearcher with Redis caching.
// Only search results are cached; quotes always go to the source.
type CachingCompanySearch struct {
	inner     usecase.CompanySearcher
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.CompanySearcher = (*CachingCompanySearch)(nil)

// NewCachingCompanySearch decorates inner with Redis caching.
// If ttl is 0, it defaults to 10 minutes. If namespace is empty, it uses "search".
// A nil rdb disables caching.
func NewCachingCompanySearch(rdb *redis.Client, ttl time.Duration, inner usecase.CompanySearcher, namespace string) *CachingCompanySearch {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if namespace == "" {
		namespace = "search"
	}
	return &CachingCompanySearch{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// SearchCompanies checks the cache first, then falls back to the inner searcher.
// Failed searches are not cached.
func (c *CachingCompanySearch) SearchCompanies(ctx context.Context, query string) ([]entity.Company, error) {
	if c.rdb == nil {
		return c.inner.SearchCompanies(ctx, query)
	}

	key := c.cacheKey(query)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []entity.Company
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to the source
	out, err := c.inner.SearchCompanies(ctx, query)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		if err := c.rdb.Set(ctx, key, b, c.ttl).Err(); err != nil {
			slog.Warn("failed to cache search results", "key", key, "error", err)
		}
	}
	return out, nil
}

// cacheKey normalises the query so equivalent searches share an entry.
func (c *CachingCompanySearch) cacheKey(query string) string {
	return fmt.Sprintf("%s:%s", c.namespace, safe(strings.ToLower(strings.TrimSpace(query))))
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
