package components

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"siteproof/internal/annotate"
	"siteproof/internal/api"
	"siteproof/internal/config"
	"siteproof/internal/redis"
	"siteproof/internal/service"
	"siteproof/internal/storage/layout"
	"siteproof/internal/storage/postgres"
	"siteproof/internal/workers"
	"siteproof/pkg/logger"
)

type Components struct {
	logger     *slog.Logger
	HttpServer *api.Server
	Postgres   *postgres.Postgres
	Redis      *redis.Redis
	Janitor    *workers.LockJanitor
}

func InitComponents(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Components, error) {
	logger.Info("Initializing Postgres")

	storage, err := postgres.NewPostgres(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to init postgres",
			slog.Any("error", err),
		)
		return nil, fmt.Errorf("failed to init postgres: %w", err)
	}

	logger.Info("Initializing Redis")
	redisClient, err := redis.NewRedis(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to init redis: %w", err)
	}

	ingestLock := redis.NewIngestLock(redisClient.Client, cfg.Storage.LockTTL)
	fileStore := layout.NewManager(cfg.Storage.Root)
	annotator := annotate.New(cfg.Annotate.BoxWidth, cfg.Annotate.BoxHeight, cfg.Annotate.Quality)

	ingestSvc := service.NewIngestService(storage.Reports(), fileStore, annotator, ingestLock, logger)
	reportSvc := service.NewReportService(storage.Reports(), logger)

	srv := service.NewService(ingestSvc, reportSvc)

	httpServer := api.NewServer(cfg, logger, srv)
	janitor := workers.NewLockJanitor(ingestLock, logger, 30*time.Second)
	logger.Info("Initialized server")

	return &Components{
		logger:     logger,
		HttpServer: httpServer,
		Postgres:   storage,
		Redis:      redisClient,
		Janitor:    janitor,
	}, nil
}

func SetupLogger(env string) *slog.Logger {
	switch env {
	case "local":
		return logger.SetupPrettySlog()
	case "dev":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	case "prod":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	default:
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	}
}

func (c *Components) ShutdownAll() {
	start := time.Now()
	c.logger.Info("Shutting down components")

	c.Postgres.Pool.Close()
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.logger.Error("Redis close failed", slog.String("err", err.Error()))
		}
	}

	c.logger.Info("All components stopped",
		slog.Duration("latency", time.Since(start)))
}
