package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/Tejayenduri9/biryani-boys-backend/api/controllers"
	"github.com/Tejayenduri9/biryani-boys-backend/api/routes"
	"github.com/Tejayenduri9/biryani-boys-backend/internal/availability"
	"github.com/Tejayenduri9/biryani-boys-backend/internal/cart"
	"github.com/Tejayenduri9/biryani-boys-backend/internal/menu"
	"github.com/Tejayenduri9/biryani-boys-backend/internal/orders"
	"github.com/Tejayenduri9/biryani-boys-backend/internal/reviews"
	"github.com/Tejayenduri9/biryani-boys-backend/pkg/bigquery"
	"github.com/Tejayenduri9/biryani-boys-backend/pkg/config"
	"github.com/Tejayenduri9/biryani-boys-backend/pkg/db"
	fs "github.com/Tejayenduri9/biryani-boys-backend/pkg/firestore"
	"github.com/Tejayenduri9/biryani-boys-backend/pkg/logger"
	"github.com/Tejayenduri9/biryani-boys-backend/pkg/metrics"
	"github.com/Tejayenduri9/biryani-boys-backend/pkg/migrate"
	"github.com/Tejayenduri9/biryani-boys-backend/pkg/pubsub"
	"github.com/Tejayenduri9/biryani-boys-backend/pkg/redis"
	"github.com/Tejayenduri9/biryani-boys-backend/pkg/types"
	"github.com/Tejayenduri9/biryani-boys-backend/pkg/whatsapp"
)

const shutdownGrace = 15 * time.Second

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(ctx, ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(ctx, cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
	requireResource(ctx, logg, "database", err)

	err = migrate.MaybeRunDev(ctx, cfg, logg, dbClient)
	requireResource(ctx, logg, "dev migrations", err)

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	requireResource(ctx, logg, "redis", err)

	fsClient, err := fs.NewClient(ctx, cfg.GCP, cfg.Firestore, logg)
	requireResource(ctx, logg, "firestore", err)

	pubsubClient, err := pubsub.NewClient(ctx, cfg.GCP, cfg.PubSub, logg)
	requireResource(ctx, logg, "pubsub", err)

	bqClient, err := bigquery.NewClient(ctx, cfg.GCP, cfg.BigQuery, logg)
	requireResource(ctx, logg, "bigquery", err)

	reviewMetrics := metrics.NewReviewSyncMetrics(prometheus.DefaultRegisterer)
	orderMetrics := metrics.NewOrderMetrics(prometheus.DefaultRegisterer)

	remoteReviews, err := reviews.NewFirestoreStore(fsClient, logg)
	requireResource(ctx, logg, "review store", err)

	reviewCache := reviews.NewCache(redisClient, logg)
	reviewEngine, err := reviews.NewEngine(reviewCache, remoteReviews, cfg.Reviews.WindowSize, reviewMetrics, logg)
	requireResource(ctx, logg, "review engine", err)

	if err := reviewEngine.Hydrate(ctx); err != nil {
		logg.Warn(logg.WithField(ctx, "error", err.Error()), "review cache hydration failed, starting cold")
	}

	mealRepo := menu.NewRepository(dbClient.DB())
	menuService, err := menu.NewService(mealRepo, reviewEngine)
	requireResource(ctx, logg, "menu service", err)

	cartRepo, err := cart.NewRedisRepository(redisClient)
	requireResource(ctx, logg, "cart repository", err)
	cartService, err := cart.NewService(cartRepo)
	requireResource(ctx, logg, "cart service", err)

	policy, err := availability.NewPolicy(cfg.Delivery)
	requireResource(ctx, logg, "delivery policy", err)

	dispatcher := whatsapp.NewDispatcher(cfg.WhatsApp, logg)
	eventPublisher := orders.NewEventPublisher(pubsubClient.OrdersPublisher(), logg)

	orderService, err := orders.NewService(cartService, policy, dispatcher, eventPublisher, orderMetrics, logg)
	requireResource(ctx, logg, "order service", err)

	runCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	startReviewWatchers(runCtx, logg, mealRepo, reviewEngine)

	router := routes.NewRouter(cfg, logg, map[string]controllers.Pinger{
		"database":  dbClient,
		"redis":     redisClient,
		"firestore": fsClient,
		"pubsub":    pubsubClient,
		"bigquery":  bqClient,
	}, menuService, cartService, orderService, reviewEngine)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	server := &http.Server{Addr: addr, Handler: router}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.ListenAndServe()
	}()

	logCtx := logg.WithFields(runCtx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(logCtx, "api server started")

	select {
	case <-runCtx.Done():
		logg.Info(logCtx, "shutdown signal received")
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(logCtx, "api server stopped unexpectedly", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	var closeErr error
	closeErr = multierr.Append(closeErr, server.Shutdown(shutdownCtx))
	closeErr = multierr.Append(closeErr, bqClient.Close())
	closeErr = multierr.Append(closeErr, pubsubClient.Close())
	closeErr = multierr.Append(closeErr, fsClient.Close())
	closeErr = multierr.Append(closeErr, redisClient.Close())
	closeErr = multierr.Append(closeErr, dbClient.Close())
	if closeErr != nil {
		logg.Error(logCtx, "shutdown finished with errors", closeErr)
		os.Exit(1)
	}
	logg.Info(logCtx, "shutdown complete")
}

// startReviewWatchers opens a live review stream for every meal on the menu.
// Streams reconnect on their own; meals added after boot are picked up on the
// next restart.
func startReviewWatchers(ctx context.Context, logg *logger.Logger, repo *menu.Repository, engine *reviews.Engine) {
	meals, err := repo.List(ctx, false)
	if err != nil {
		logg.Error(ctx, "listing meals for review watchers", err)
		return
	}

	watcher := types.Identity{UID: "review-sync", DisplayName: "Review Sync"}
	for _, meal := range meals {
		title := meal.Title
		go func() {
			watchCtx := logg.WithMeal(ctx, title)
			if err := engine.Watch(watchCtx, watcher, title); err != nil && !errors.Is(err, context.Canceled) {
				logg.Error(watchCtx, "review watcher stopped", err)
			}
		}()
	}
	logg.Info(logg.WithField(ctx, "watchers", len(meals)), "review watchers started")
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
