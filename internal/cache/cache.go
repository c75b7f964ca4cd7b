// Package cache is a best-effort byte cache. Every failure degrades to a miss
// or a no-op; callers never see cache errors.
package cache

import (
	"context"
	"time"

	"clinic-admin-api/internal/config"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// Cache stores opaque values under string keys.
type Cache interface {
	// Get returns the value for key and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool)
	// Set stores value under key for ttl.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	// InvalidatePrefix removes every key starting with prefix.
	InvalidatePrefix(ctx context.Context, prefix string)
}

// New returns a Redis-backed cache, or a no-op cache when no Redis address
// is configured.
func New(cfg config.RedisConfig, log *zap.Logger) Cache {
	if cfg.Addr == "" {
		log.Info("Redis not configured, list caching disabled")
		return NoopCache{}
	}
	return NewRedisCache(cfg, log)
}

// GetJSON decodes the cached value for key into dst. It reports false on a
// miss or an undecodable entry.
func GetJSON(ctx context.Context, c Cache, key string, dst interface{}) bool {
	raw, ok := c.Get(ctx, key)
	if !ok {
		return false
	}
	return json.Unmarshal(raw, dst) == nil
}

// SetJSON encodes v and stores it under key. Encoding failures are dropped.
func SetJSON(ctx context.Context, c Cache, key string, v interface{}, ttl time.Duration) {
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	c.Set(ctx, key, raw, ttl)
}

// NoopCache never stores anything.
type NoopCache struct{}

func (NoopCache) Get(context.Context, string) ([]byte, bool)         { return nil, false }
func (NoopCache) Set(context.Context, string, []byte, time.Duration) {}
func (NoopCache) InvalidatePrefix(context.Context, string)           {}
