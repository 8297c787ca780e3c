package testutil

import (
	"context"
	"os"
	"testing"

	"github.com/redis/go-redis/v9"
)

// RedisAddrEnv names the environment variable holding the test Redis address.
const RedisAddrEnv = "TEST_REDIS_ADDR"

// NewRedis returns a client on a flushed database, or skips when Redis is unavailable.
func NewRedis(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv(RedisAddrEnv)
	if addr == "" {
		addr = "127.0.0.1:6379"
	}
	if !reachable(addr) {
		t.Skip("Redis not available at " + addr)
	}

	client := redis.NewClient(&redis.Options{Addr: addr, DB: 15})
	ctx := context.Background()
	if err := client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("failed to flush redis: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}
