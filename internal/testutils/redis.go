package testutils

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// redisTestDB keeps test data away from anything a developer stores in DB 0
const redisTestDB = 15

// RedisTestClient returns a client for an empty Redis database. It uses the
// server at REDIS_TEST_ADDR when set and starts a container otherwise.
func RedisTestClient(t *testing.T) redis.UniversalClient {
	t.Helper()

	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		return StartRedisContainer(t)
	}

	client := redis.NewClient(&redis.Options{Addr: addr, DB: redisTestDB})
	t.Cleanup(func() {
		_ = client.FlushDB(context.Background()).Err()
		_ = client.Close()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := waitForPing(ctx, client); err != nil {
		t.Skipf("redis at %s not available: %v", addr, err)
	}
	require.NoError(t, client.FlushDB(ctx).Err())

	return client
}

// waitForPing polls until client answers PING or ctx ends
func waitForPing(ctx context.Context, client redis.UniversalClient) error {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		err := client.Ping(ctx).Err()
		if err == nil {
			return nil
		}

		select {
		case <-ctx.Done():
			return err
		case <-ticker.C:
		}
	}
}
