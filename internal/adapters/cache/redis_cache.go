package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/mikey/alert-report/internal/core"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const redisKeyPrefix = "alert-report:alert:"

// redisRecord is the stored form of a cache entry
type redisRecord struct {
	Detail   *core.AlertDetail `json:"detail"`
	CachedAt int64             `json:"cached_at"`
	Expires  int64             `json:"expires_at"`
}

// RedisCache is a Redis implementation of the CacheRepository interface.
// Expiry is delegated to Redis key TTLs.
type RedisCache struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisCache creates a new Redis cache
func NewRedisCache(addr, password string, db int, logger *zap.Logger) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisCache{client: client, logger: logger}, nil
}

// Get retrieves a cached entry for an alert
func (c *RedisCache) Get(ctx context.Context, alertID string) (*core.CacheEntry, error) {
	data, err := c.client.Get(ctx, redisKeyPrefix+alertID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query cache: %w", err)
	}

	var record redisRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to decode cache entry: %w", err)
	}

	entry := &core.CacheEntry{
		AlertID:   alertID,
		Detail:    record.Detail,
		CachedAt:  fromUnix(record.CachedAt),
		ExpiresAt: fromUnix(record.Expires),
	}
	if entry.Expired(time.Now()) {
		return nil, ErrExpired
	}
	return entry, nil
}

// Set stores a cache entry. A zero ExpiresAt stores the key without a TTL.
func (c *RedisCache) Set(ctx context.Context, entry *core.CacheEntry) error {
	data, err := json.Marshal(redisRecord{
		Detail:   entry.Detail,
		CachedAt: toUnix(entry.CachedAt),
		Expires:  toUnix(entry.ExpiresAt),
	})
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}

	var ttl time.Duration
	if !entry.ExpiresAt.IsZero() {
		ttl = time.Until(entry.ExpiresAt)
		if ttl <= 0 {
			return nil
		}
	}

	if err := c.client.Set(ctx, redisKeyPrefix+entry.AlertID, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to insert cache entry: %w", err)
	}
	return nil
}

// Delete removes a cache entry
func (c *RedisCache) Delete(ctx context.Context, alertID string) error {
	if err := c.client.Del(ctx, redisKeyPrefix+alertID).Err(); err != nil {
		return fmt.Errorf("failed to delete cache entry: %w", err)
	}
	return nil
}

// Cleanup is a no-op; Redis evicts expired keys itself
func (c *RedisCache) Cleanup(ctx context.Context) error {
	return nil
}

// Stop closes the Redis connection
func (c *RedisCache) Stop() {
	if err := c.client.Close(); err != nil {
		c.logger.Error("Failed to close Redis client", zap.Error(err))
	}
}
