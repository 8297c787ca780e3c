package biodata

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisWindowGuard marks (biodata, viewer) pairs with SET NX and a TTL equal to the window.
type RedisWindowGuard struct {
	client redis.Cmdable
	prefix string
}

// NewRedisWindowGuard creates a guard; keys are namespaced with prefix.
func NewRedisWindowGuard(client redis.Cmdable, prefix string) *RedisWindowGuard {
	return &RedisWindowGuard{client: client, prefix: prefix}
}

func (g *RedisWindowGuard) key(k ViewKey) string {
	id := strconv.FormatInt(k.BiodataID, 10)
	if k.Anonymous() {
		return g.prefix + "view:" + id + ":ip:" + k.IPAddress
	}
	return g.prefix + "view:" + id + ":user:" + k.ViewerID
}

// Acquire sets the key if absent. It reports false when the key already exists.
func (g *RedisWindowGuard) Acquire(ctx context.Context, k ViewKey, window time.Duration) (bool, error) {
	ok, err := g.client.SetNX(ctx, g.key(k), time.Now().UTC().Unix(), window).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx: %w", err)
	}
	return ok, nil
}

// Release deletes the key.
func (g *RedisWindowGuard) Release(ctx context.Context, k ViewKey) error {
	if err := g.client.Del(ctx, g.key(k)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

var _ WindowGuard = (*RedisWindowGuard)(nil)
