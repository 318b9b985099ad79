// Package cache stores serialized classification reports between requests.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tair/inventory-analytics/pkg/logger"
)

// KeyPrefix namespaces every report key.
const KeyPrefix = "abc:"

// ReportCache is a best-effort byte cache. Failures degrade to misses.
type ReportCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte)
	Invalidate(ctx context.Context) error
}

// NopCache never stores anything.
type NopCache struct{}

func (NopCache) Get(context.Context, string) ([]byte, bool) { return nil, false }
func (NopCache) Set(context.Context, string, []byte)        {}
func (NopCache) Invalidate(context.Context) error           { return nil }

// RedisReportCache keeps reports in Redis under hashed keys with a TTL.
type RedisReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisReportCache creates a cache over client.
func NewRedisReportCache(client *redis.Client, ttl time.Duration) *RedisReportCache {
	return &RedisReportCache{client: client, ttl: ttl}
}

// Key hashes a logical report key into the Redis key space.
func Key(logical string) string {
	hash := sha256.Sum256([]byte(logical))
	return KeyPrefix + hex.EncodeToString(hash[:])
}

func (c *RedisReportCache) Get(ctx context.Context, key string) ([]byte, bool) {
	data, err := c.client.Get(ctx, Key(key)).Bytes()
	switch {
	case err == nil:
		logger.Debug(ctx).Str("cache_key", key).Msg("Report cache hit")
		return data, true
	case errors.Is(err, redis.Nil):
		logger.Debug(ctx).Str("cache_key", key).Msg("Report cache miss")
	default:
		logger.Warn(ctx).Err(err).Str("cache_key", key).Msg("Report cache read failed")
	}
	return nil, false
}

func (c *RedisReportCache) Set(ctx context.Context, key string, value []byte) {
	if err := c.client.Set(ctx, Key(key), value, c.ttl).Err(); err != nil {
		logger.Warn(ctx).Err(err).Str("cache_key", key).Msg("Failed to cache report")
		return
	}
	logger.Debug(ctx).
		Str("cache_key", key).
		Dur("ttl", c.ttl).
		Int("size", len(value)).
		Msg("Report cached")
}

// Invalidate drops every cached report.
func (c *RedisReportCache) Invalidate(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, KeyPrefix+"*", 0).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}

	if len(keys) > 0 {
		if err := c.client.Del(ctx, keys...).Err(); err != nil {
			return err
		}
		logger.Info(ctx).Int("count", len(keys)).Msg("Report cache invalidated")
	}
	return nil
}

// Connect pings addr and returns a client, or nil with the ping error when
// Redis is unreachable.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}
