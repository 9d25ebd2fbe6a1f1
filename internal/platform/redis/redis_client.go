package redis

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"userapi/internal/platform/config"
)

// NewRedisClient connects to Redis using the configured coordinates.
// Returns an error when Redis does not answer a ping; callers may treat that
// as non-fatal and run without the cache.
func NewRedisClient(cfg config.Config) (*redis.Client, error) {
	addr := cfg.RedisHost + ":" + cfg.RedisPort

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.RedisPassword,
		DB:       0,
	})

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		slog.Error("Redis connection failed", "address", addr, "error", err)
		return nil, err
	}

	slog.Info("Redis connection successful", "address", addr)
	return rdb, nil
}
