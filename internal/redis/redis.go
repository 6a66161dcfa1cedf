package redis

import (
	"context"
	"log/slog"
	"time"

	"siteproof/internal/config"
	"siteproof/pkg/e"

	"github.com/redis/go-redis/v9"
)

// Redis holds the shared client backing the ingest lock.
type Redis struct {
	Client *redis.Client
}

func NewRedis(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Redis, error) {
	const op = "redis.NewRedis"

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	pingTimeout := cfg.Redis.PingTimeout
	if pingTimeout <= 0 {
		pingTimeout = 5 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Error("Failed to ping Redis",
			slog.String("addr", cfg.Redis.Addr),
			slog.Any("error", err),
		)
		_ = client.Close()
		return nil, e.Wrap(op, err)
	}
	logger.Info("Connected to Redis", slog.String("addr", cfg.Redis.Addr))

	return &Redis{Client: client}, nil
}

func (r *Redis) Close() error {
	return r.Client.Close()
}
