// Package rdx wraps the optional Redis connection: the list cache and the
// pending view buffer. Every type here degrades to a no-op when Redis is not
// configured.
package rdx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/surafelx/portfolio26/logx"
	"github.com/surafelx/portfolio26/metrics"
)

// Connect parses url and pings the server. An empty url returns a nil client.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	if url == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// Cache stores JSON values under short-lived keys.
type Cache struct {
	client  *redis.Client
	ttl     time.Duration
	log     *logx.Logger
	metrics *metrics.Metrics
}

func NewCache(client *redis.Client, ttl time.Duration, log *logx.Logger, m *metrics.Metrics) *Cache {
	return &Cache{client: client, ttl: ttl, log: logx.OrNop(log), metrics: m}
}

func (c *Cache) enabled() bool { return c != nil && c.client != nil }

// GetJSON decodes the cached value into v and reports whether it was found.
func (c *Cache) GetJSON(ctx context.Context, key string, v interface{}) bool {
	if !c.enabled() {
		return false
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("cache get failed", "key", key, "error", err)
		}
		c.metrics.CacheLookup(false)
		return false
	}
	if err := json.Unmarshal(raw, v); err != nil {
		c.log.Warn("cache decode failed", "key", key, "error", err)
		c.metrics.CacheLookup(false)
		return false
	}
	c.metrics.CacheLookup(true)
	return true
}

func (c *Cache) SetJSON(ctx context.Context, key string, v interface{}) {
	if !c.enabled() {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		c.log.Warn("cache encode failed", "key", key, "error", err)
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.log.Warn("cache set failed", "key", key, "error", err)
	}
}

func (c *Cache) Del(ctx context.Context, keys ...string) {
	if !c.enabled() || len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.log.Warn("cache delete failed", "keys", keys, "error", err)
	}
}
