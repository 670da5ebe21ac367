package cache

import (
	"context"
	"encoding/json"
	"time"

	"yoga-studio/pkg/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Cache is a small JSON read cache over redis. A nil client disables it, so
// callers can stay oblivious to whether redis is reachable.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

// New connects to redis and returns a Cache. If the address is empty, the TTL
// is zero, or the server cannot be pinged, caching is disabled rather than
// failing startup.
func New(config utils.RedisConfig, log *zap.Logger) *Cache {
	c := &Cache{
		ttl: time.Duration(config.CatalogTTL) * time.Second,
		log: log.With(zap.String("component", "cache")),
	}

	if config.Addr == "" || config.CatalogTTL <= 0 {
		c.log.Info("Cache disabled by configuration")
		return c
	}

	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		c.log.Warn("Redis unreachable, running without cache", zap.Error(err))
		return c
	}

	c.client = client
	c.log.Info("Cache connected", zap.String("addr", config.Addr))
	return c
}

func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil
}

// Get unmarshals the cached value into dest and reports whether it was a hit.
func (c *Cache) Get(ctx context.Context, key string, dest any) bool {
	if !c.Enabled() {
		return false
	}

	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn("Cache get failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		c.log.Warn("Cache entry corrupt, dropping", zap.String("key", key), zap.Error(err))
		c.client.Del(ctx, key)
		return false
	}

	return true
}

// Set stores val as JSON under key with the configured TTL. Failures are
// logged and swallowed; the cache never fails a request.
func (c *Cache) Set(ctx context.Context, key string, val any) {
	if !c.Enabled() {
		return
	}

	raw, err := json.Marshal(val)
	if err != nil {
		c.log.Warn("Cache marshal failed", zap.String("key", key), zap.Error(err))
		return
	}

	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.log.Warn("Cache set failed", zap.String("key", key), zap.Error(err))
	}
}

// Delete removes a key, used on writes that invalidate cached reads.
func (c *Cache) Delete(ctx context.Context, key string) {
	if !c.Enabled() {
		return
	}

	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.log.Warn("Cache delete failed", zap.String("key", key), zap.Error(err))
	}
}
