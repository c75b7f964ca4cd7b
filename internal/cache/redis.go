package cache

import (
	"context"
	"errors"
	"time"

	"clinic-admin-api/internal/config"
	"clinic-admin-api/internal/metrics"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	scanBatch   = 100
	pingTimeout = 5 * time.Second
)

// RedisCache implements Cache on go-redis.
type RedisCache struct {
	client *redis.Client
	log    *zap.Logger
}

// NewRedisCache connects to Redis. An unreachable server is logged, not
// fatal: the client keeps reconnecting and the cache misses until then.
func NewRedisCache(cfg config.RedisConfig, log *zap.Logger) *RedisCache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test the connection
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn("Redis ping failed, cache will miss until it is reachable",
			zap.String("addr", cfg.Addr), zap.Error(err))
	} else {
		log.Info("Connected to Redis", zap.String("addr", cfg.Addr))
	}

	return NewRedisCacheFromClient(rdb, log)
}

// NewRedisCacheFromClient wraps an existing client.
func NewRedisCacheFromClient(client *redis.Client, log *zap.Logger) *RedisCache {
	return &RedisCache{client: client, log: log}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		metrics.RecordCacheLookup(metrics.CacheHit)
		return val, true
	case errors.Is(err, redis.Nil):
		metrics.RecordCacheLookup(metrics.CacheMiss)
	default:
		metrics.RecordCacheLookup(metrics.CacheError)
		c.log.Warn("Cache get failed", zap.String("key", key), zap.Error(err))
	}
	return nil, false
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		c.log.Warn("Cache set failed", zap.String("key", key), zap.Error(err))
	}
}

// InvalidatePrefix walks matching keys with SCAN and deletes them in
// batches. Keys written concurrently with the walk may survive.
func (c *RedisCache) InvalidatePrefix(ctx context.Context, prefix string) {
	metrics.RecordCacheInvalidation()

	iter := c.client.Scan(ctx, 0, prefix+"*", scanBatch).Iterator()
	batch := make([]string, 0, scanBatch)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == scanBatch {
			c.del(ctx, prefix, batch)
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		c.log.Warn("Cache scan failed", zap.String("prefix", prefix), zap.Error(err))
	}
	if len(batch) > 0 {
		c.del(ctx, prefix, batch)
	}
}

func (c *RedisCache) del(ctx context.Context, prefix string, keys []string) {
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.log.Warn("Cache invalidation failed", zap.String("prefix", prefix), zap.Int("keys", len(keys)), zap.Error(err))
	}
}

// Close gracefully closes the Redis connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
