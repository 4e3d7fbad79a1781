package websearch

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"research-crew/internal/common/logger"
	"research-crew/internal/common/metrics"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "crew:search:"

// CachedSearcher memoizes another Searcher's results in Redis. Cache faults
// are logged and never fail a search.
type CachedSearcher struct {
	next   Searcher
	redis  redis.Cmdable
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedSearcher(next Searcher, rdb redis.Cmdable, ttl time.Duration, log logger.Logger) *CachedSearcher {
	return &CachedSearcher{
		next:   next,
		redis:  rdb,
		ttl:    ttl,
		logger: log.With(map[string]interface{}{"component": "search-cache"}),
	}
}

func (c *CachedSearcher) Search(ctx context.Context, query string) ([]Result, error) {
	key := cacheKey(query)

	val, err := c.redis.Get(ctx, key).Result()
	switch {
	case err == nil:
		var cached []Result
		if jsonErr := json.Unmarshal([]byte(val), &cached); jsonErr == nil {
			metrics.SearchCacheLookups.WithLabelValues("hit").Inc()
			return cached, nil
		}
		c.logger.Warn("discarding unreadable cache entry", map[string]interface{}{"key": key})
	case errors.Is(err, redis.Nil):
	default:
		metrics.SearchCacheLookups.WithLabelValues("error").Inc()
		c.logger.Warn("cache read failed", map[string]interface{}{"key": key, "error": err.Error()})
	}
	metrics.SearchCacheLookups.WithLabelValues("miss").Inc()

	results, err := c.next.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(results)
	if err == nil {
		if setErr := c.redis.Set(ctx, key, data, c.ttl).Err(); setErr != nil {
			c.logger.Warn("cache write failed", map[string]interface{}{"key": key, "error": setErr.Error()})
		}
	}
	return results, nil
}

func cacheKey(query string) string {
	return cacheKeyPrefix + strings.Join(strings.Fields(strings.ToLower(query)), " ")
}
