package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache stores each session's table as JSON under
// "<prefix>:<session id>" with a sliding TTL, so several dashboard
// replicas can share session state.
type RedisCache struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisCache returns a RedisCache.  A non-positive ttl defaults to 12h.
func NewRedisCache(rdb *redis.Client, prefix string, ttl time.Duration) *RedisCache {
	if prefix == "" {
		prefix = "films:session"
	}
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &RedisCache{rdb: rdb, prefix: prefix, ttl: ttl}
}

func (c *RedisCache) key(sessionID string) string {
	return c.prefix + ":" + sessionID
}

// Get reads and decodes the session table.  redis.Nil is a miss.
func (c *RedisCache) Get(ctx context.Context, sessionID string) (*Table, bool, error) {
	bs, err := c.rdb.Get(ctx, c.key(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	var t Table
	if err := json.Unmarshal(bs, &t); err != nil {
		return nil, false, fmt.Errorf("decode session table: %w", err)
	}
	return &t, true, nil
}

// Put encodes t and stores it with the cache TTL.
func (c *RedisCache) Put(ctx context.Context, sessionID string, t *Table) error {
	bs, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("encode session table: %w", err)
	}
	if err := c.rdb.SetEx(ctx, c.key(sessionID), bs, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis setex: %w", err)
	}
	return nil
}

// Delete removes the session table.
func (c *RedisCache) Delete(ctx context.Context, sessionID string) error {
	if err := c.rdb.Del(ctx, c.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
