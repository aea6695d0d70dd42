package components

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"tourguard/internal/api"
	"tourguard/internal/config"
	"tourguard/internal/domain"
	"tourguard/internal/redis"
	"tourguard/internal/service"
	"tourguard/internal/storage/postgres"
	"tourguard/pkg/logger"
)

type Components struct {
	logger     *slog.Logger
	HttpServer *api.Server
	Postgres   *postgres.Postgres
	Redis      *redis.Redis
	NotifyQ    *redis.NotifyQueue
	Notifier   *service.NotifySender
}

func InitComponents(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Components, error) {
	logger.Info("initializing postgres")

	storage, err := postgres.NewPostgres(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to init postgres", slog.Any("error", err))
		return nil, fmt.Errorf("failed to init postgres: %w", err)
	}

	logger.Info("initializing redis")
	redisClient, err := redis.NewRedis(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to init redis: %w", err)
	}

	notifyQueue := redis.NewNotifyQueue(redisClient.Client, "sos:notify:queue")

	incidentSvc := service.NewIncidentService(storage.Incidents(), domain.FreeTransitions{}, logger)
	alertSvc := service.NewAlertService(storage.Alerts(), storage.Locations(), storage.Incidents(), storage.SOSEvents(), storage.References(), logger)
	sosSvc := service.NewSOSService(storage.SOSEvents(), notifyQueue, logger)
	statsSvc := service.NewStatsService(storage.Stats(), storage.Incidents())
	locationSvc := service.NewLocationService(storage.Locations())

	svc := service.NewService(incidentSvc, alertSvc, sosSvc, statsSvc, locationSvc)

	var notifier *service.NotifySender
	if !cfg.Webhook.Disabled {
		notifier = service.NewNotifySender(logger, cfg.Webhook, notifyQueue)
	} else {
		logger.Info("sos webhook delivery disabled")
	}

	httpServer := api.NewServer(cfg, logger, svc, storage.Pool)
	logger.Info("initialized server")

	return &Components{
		logger:     logger,
		HttpServer: httpServer,
		Postgres:   storage,
		Redis:      redisClient,
		NotifyQ:    notifyQueue,
		Notifier:   notifier,
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
	c.logger.Info("component shutdown started")

	c.Postgres.Pool.Close()
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.logger.Error("redis close failed", slog.String("err", err.Error()))
		}
	}

	c.logger.Info("all components stopped",
		slog.Duration("latency", time.Since(start)))
}
