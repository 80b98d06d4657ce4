package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Tejayenduri9/biryani-boys-backend/internal/analytics"
	"github.com/Tejayenduri9/biryani-boys-backend/pkg/bigquery"
	"github.com/Tejayenduri9/biryani-boys-backend/pkg/config"
	"github.com/Tejayenduri9/biryani-boys-backend/pkg/logger"
	"github.com/Tejayenduri9/biryani-boys-backend/pkg/pubsub"
	"github.com/Tejayenduri9/biryani-boys-backend/pkg/redis"
)

const (
	consumerName   = "order-events"
	idempotencyTTL = 7 * 24 * time.Hour
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "events-worker"})

	_ = godotenv.Load()

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "events-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	requireResource(ctx, logg, "redis", err)
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(ctx, "closing redis client", err)
		}
	}()

	pubsubClient, err := pubsub.NewClient(ctx, cfg.GCP, cfg.PubSub, logg)
	requireResource(ctx, logg, "pubsub", err)
	defer func() {
		if err := pubsubClient.Close(); err != nil {
			logg.Error(ctx, "closing pubsub client", err)
		}
	}()

	bqClient, err := bigquery.NewClient(ctx, cfg.GCP, cfg.BigQuery, logg)
	requireResource(ctx, logg, "bigquery", err)
	defer func() {
		if err := bqClient.Close(); err != nil {
			logg.Error(ctx, "closing bigquery client", err)
		}
	}()

	writer, err := analytics.NewWriter(bqClient)
	requireResource(ctx, logg, "analytics writer", err)

	guard, err := analytics.NewGuard(redisClient, consumerName, idempotencyTTL)
	requireResource(ctx, logg, "idempotency guard", err)

	worker, err := analytics.NewWorker(pubsubClient.OrdersSubscription(), writer, guard, logg)
	requireResource(ctx, logg, "events worker", err)

	runCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	runCtx = logg.WithField(runCtx, "env", cfg.App.Env)
	logg.Info(runCtx, "events worker ready")

	if err := worker.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(runCtx, "events worker failed", err)
		os.Exit(1)
	}
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
