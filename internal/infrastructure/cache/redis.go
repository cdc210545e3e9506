package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	apperrors "github.com/alacena/v2/pkg/errors"
	"github.com/alacena/v2/internal/ports/outbound"
)

// RedisCache implements the CacheRepository port on top of a Redis server.
// It is the driver selected when cache.driver is "redis".
type RedisCache struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisCache connects to Redis and verifies the connection with a ping.
// A non-positive timeout falls back to 5 seconds.
func NewRedisCache(addr, password string, db int, timeout time.Duration, logger *zap.Logger) (outbound.CacheRepository, error) {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	client := redis.NewClient(&redis.Options{
		Addr:        addr,
		Password:    password,
		DB:          db,
		DialTimeout: timeout,
		ReadTimeout: timeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, apperrors.NewStorageUnavailableError(err).
			WithMetadata("addr", addr)
	}

	logger.Info("Connected to Redis cache", zap.String("addr", addr), zap.Int("db", db))

	return &RedisCache{
		client: client,
		logger: logger,
	}, nil
}

// Get retrieves a value from Redis. A miss returns nil without error.
func (rc *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := rc.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		rc.logger.Debug("Cache miss", zap.String("key", key))
		return nil, nil
	}
	if err != nil {
		rc.logger.Error("Failed to get value from cache",
			zap.String("key", key),
			zap.Error(err))
		return nil, apperrors.NewStorageError("get cached value", err)
	}
	return data, nil
}

// Set stores a value in Redis with TTL
func (rc *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := rc.client.Set(ctx, key, value, ttl).Err(); err != nil {
		rc.logger.Error("Failed to set value in cache",
			zap.String("key", key),
			zap.Error(err))
		return apperrors.NewStorageError("set cached value", err)
	}
	return nil
}

// Delete removes a value from Redis
func (rc *RedisCache) Delete(ctx context.Context, key string) error {
	if err := rc.client.Del(ctx, key).Err(); err != nil {
		rc.logger.Error("Failed to delete value from cache",
			zap.String("key", key),
			zap.Error(err))
		return apperrors.NewStorageError("delete cached value", err)
	}
	return nil
}

// Exists checks if a key exists in Redis
func (rc *RedisCache) Exists(ctx context.Context, key string) (bool, error) {
	count, err := rc.client.Exists(ctx, key).Result()
	if err != nil {
		return false, apperrors.NewStorageError("check cached key", err)
	}
	return count > 0, nil
}

// Close closes the Redis connection
func (rc *RedisCache) Close() error {
	return rc.client.Close()
}
