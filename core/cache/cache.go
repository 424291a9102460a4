package cache

import (
	"context"
	"errors"
	"time"

	"go-booking-api/core/config"
	"go-booking-api/core/logger"

	"github.com/redis/go-redis/v9"
)

var client *redis.Client

// ErrCacheMiss is returned when a key is absent or caching is disabled.
var ErrCacheMiss = errors.New("cache miss")

// Init connects to redis. Caching is optional: with no REDIS_ADDR configured
// every lookup is a miss and writes are dropped.
func Init(cfg config.RedisConfig) error {
	if cfg.Addr == "" {
		logger.Warn("Redis not configured, caching disabled")
		return nil
	}

	client = redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to ping redis", "error", err)
		client = nil
		return err
	}

	logger.Info("Redis cache initialized", "addr", cfg.Addr)
	return nil
}

func Enabled() bool {
	return client != nil
}

func Get(ctx context.Context, key string) (string, error) {
	if client == nil {
		return "", ErrCacheMiss
	}
	val, err := client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrCacheMiss
		}
		return "", err
	}
	return val, nil
}

func Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	if client == nil {
		return nil
	}
	return client.Set(ctx, key, value, ttl).Err()
}

func Del(ctx context.Context, keys ...string) error {
	if client == nil {
		return nil
	}
	return client.Del(ctx, keys...).Err()
}

func Expire(ctx context.Context, key string, ttl time.Duration) error {
	if client == nil {
		return nil
	}
	return client.Expire(ctx, key, ttl).Err()
}
