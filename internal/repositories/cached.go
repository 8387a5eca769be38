package repositories

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"weather-bot/internal/models"
	"weather-bot/pkg/logger"
)

// CachedRepository keeps successful lookups for a while so that several
// conversations asking about the same place share one provider call.
type CachedRepository struct {
	repo   ForecastRepository
	cache  *expirable.LRU[string, models.ForecastRecord]
	hits   atomic.Int64
	misses atomic.Int64
	l      *logger.Logger
}

func NewCachedRepository(repo ForecastRepository, size int, ttl time.Duration, l *logger.Logger) *CachedRepository {
	return &CachedRepository{
		repo:  repo,
		cache: expirable.NewLRU[string, models.ForecastRecord](size, nil, ttl),
		l:     l,
	}
}

func (c *CachedRepository) Name() string {
	return c.repo.Name() + " [Cached]"
}

func (c *CachedRepository) FetchForecast(ctx context.Context, location string) (models.ForecastRecord, error) {
	key := cacheKey(location)

	if record, ok := c.cache.Get(key); ok {
		c.hits.Add(1)
		c.l.Debug("forecast cache hit", map[string]any{"location": key})
		return record, nil
	}

	c.misses.Add(1)
	c.l.Debug("forecast cache miss", map[string]any{"location": key})

	record, err := c.repo.FetchForecast(ctx, location)
	if err != nil {
		return models.ForecastRecord{}, err
	}

	c.cache.Add(key, record)

	return record, nil
}

// CacheStats returns the number of cache hits and misses so far.
func (c *CachedRepository) CacheStats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

func cacheKey(location string) string {
	return strings.ToLower(strings.Join(strings.Fields(location), " "))
}

var (
	_ ForecastRepository = (*WttrRepository)(nil)
	_ ForecastRepository = (*ResilientRepository)(nil)
	_ ForecastRepository = (*CachedRepository)(nil)
)
