package clash

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/clash-profile-bot/internal/entities"
)

// countingClient returns queued results in order and counts upstream calls
type countingClient struct {
	calls   atomic.Int32
	results []*LookupResult
	errs    []error
}

func (c *countingClient) FindPlayer(_ context.Context, _ string) (*LookupResult, error) {
	i := int(c.calls.Add(1)) - 1
	return c.results[i], c.errs[i]
}

func TestNewCached_RequiresParams(t *testing.T) {
	_, err := NewCached(nil)
	assert.Error(t, err)

	_, err = NewCached(&CachedConfig{Client: &countingClient{}})
	assert.Error(t, err, "zero TTL")
}

func TestCachedClient_HitAfterMiss(t *testing.T) {
	expected := &LookupResult{Found: true, Player: &entities.Player{Tag: "#2PP", Name: "Chief"}}
	upstream := &countingClient{results: []*LookupResult{expected}, errs: []error{nil}}
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "lookup_cache_requests_total"}, []string{"result"})

	c, err := NewCached(&CachedConfig{Client: upstream, TTL: time.Minute, Requests: requests})
	require.NoError(t, err)

	ctx := context.Background()
	first, err := c.FindPlayer(ctx, "2PP")
	require.NoError(t, err)
	c.(*cachedClient).cache.Wait()

	second, err := c.FindPlayer(ctx, "2PP")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int32(1), upstream.calls.Load())
	assert.Equal(t, float64(1), testutil.ToFloat64(requests.WithLabelValues("miss")))
	assert.Equal(t, float64(1), testutil.ToFloat64(requests.WithLabelValues("hit")))
}

func TestCachedClient_ErrorsNotCached(t *testing.T) {
	upstream := &countingClient{
		results: []*LookupResult{nil, {Found: false}},
		errs:    []error{errors.New("boom"), nil},
	}
	c, err := NewCached(&CachedConfig{Client: upstream, TTL: time.Minute})
	require.NoError(t, err)

	_, err = c.FindPlayer(context.Background(), "2PP")
	require.Error(t, err)
	c.(*cachedClient).cache.Wait()

	result, err := c.FindPlayer(context.Background(), "2PP")
	require.NoError(t, err)
	assert.False(t, result.Found)
	assert.Equal(t, int32(2), upstream.calls.Load())
}
