package clash

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/singleflight"

	"github.com/KirkDiggler/clash-profile-bot/internal"
)

// CachedConfig configures the caching decorator
type CachedConfig struct {
	Client Client
	TTL    time.Duration

	// MaxEntries bounds the number of cached players (default 10k)
	MaxEntries int64

	// Requests, if set, is incremented with "hit" or "miss"
	Requests *prometheus.CounterVec
}

type cachedClient struct {
	next     Client
	ttl      time.Duration
	cache    *ristretto.Cache
	group    singleflight.Group
	requests *prometheus.CounterVec
}

// NewCached wraps a client with an in-memory TTL cache. Concurrent lookups for the
// same tag share a single upstream request. Not-found results are cached too.
func NewCached(cfg *CachedConfig) (Client, error) {
	if cfg == nil {
		return nil, internal.NewMissingParamError("cfg")
	}
	if cfg.Client == nil {
		return nil, internal.NewMissingParamError("cfg.Client")
	}
	if cfg.TTL <= 0 {
		return nil, internal.NewInvalidParamError("cfg.TTL must be positive")
	}

	maxEntries := cfg.MaxEntries
	if maxEntries <= 0 {
		maxEntries = 10000
	}

	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: maxEntries * 10,
		MaxCost:     maxEntries,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create lookup cache: %w", err)
	}

	return &cachedClient{
		next:     cfg.Client,
		ttl:      cfg.TTL,
		cache:    cache,
		requests: cfg.Requests,
	}, nil
}

func (c *cachedClient) FindPlayer(ctx context.Context, tag string) (*LookupResult, error) {
	if val, found := c.cache.Get(tag); found {
		if result, ok := val.(*LookupResult); ok {
			c.observe("hit")
			return result, nil
		}
	}
	c.observe("miss")

	val, err, _ := c.group.Do(tag, func() (interface{}, error) {
		result, err := c.next.FindPlayer(ctx, tag)
		if err != nil {
			return nil, err
		}
		c.cache.SetWithTTL(tag, result, 1, c.ttl)
		return result, nil
	})
	if err != nil {
		return nil, err
	}

	return val.(*LookupResult), nil
}

func (c *cachedClient) observe(result string) {
	if c.requests != nil {
		c.requests.WithLabelValues(result).Inc()
	}
}
