package realtime

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/localloop/localloop-backend/internal/config"
	"github.com/redis/go-redis/v9"
)

// NewRedisClient connects to Redis for cross-instance change fanout. It
// returns nil when no address is configured or the server is unreachable;
// callers degrade to in-process delivery.
func NewRedisClient(cfg *config.Config) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}

	dbNum := 0
	if n, err := strconv.Atoi(cfg.RedisDB); err == nil {
		dbNum = n
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       dbNum,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		slog.Error("redis unreachable, realtime fanout is single-instance", "addr", cfg.RedisAddr, "error", err)
		return nil
	}

	slog.Info("redis connected", "addr", cfg.RedisAddr)
	return client
}
