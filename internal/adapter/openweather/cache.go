package openweather

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/limaflow/congestion/internal/domain"
	"github.com/limaflow/congestion/internal/observability"
)

// CachedProvider wraps a WeatherProvider with a single-entry TTL cache. The
// service watches one city, so the cache is the last successful description
// plus its fetch time; errors are never cached so the next request retries.
type CachedProvider struct {
	inner   domain.WeatherProvider
	ttl     time.Duration
	clock   clockwork.Clock
	metrics *observability.Metrics

	mu          sync.Mutex
	description string
	fetchedAt   time.Time
	valid       bool
}

// NewCachedProvider creates a cache decorator around a weather provider.
func NewCachedProvider(inner domain.WeatherProvider, ttl time.Duration, metrics *observability.Metrics) *CachedProvider {
	return &CachedProvider{
		inner:   inner,
		ttl:     ttl,
		clock:   clockwork.NewRealClock(),
		metrics: metrics,
	}
}

// CurrentDescription serves from cache while the entry is fresh, otherwise
// asks the inner provider. Concurrent callers during a refresh serialize on
// the mutex so the upstream sees at most one request per expiry.
func (c *CachedProvider) CurrentDescription(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	if c.valid && now.Sub(c.fetchedAt) < c.ttl {
		c.metrics.WeatherCache.WithLabelValues("hit").Inc()
		return c.description, nil
	}

	c.metrics.WeatherCache.WithLabelValues("miss").Inc()
	description, err := c.inner.CurrentDescription(ctx)
	if err != nil {
		return "", err
	}

	c.description = description
	c.fetchedAt = now
	c.valid = true
	return description, nil
}
