package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"billiard/internal/app"
	"billiard/internal/config"
	"billiard/internal/handler"
	"billiard/internal/logger"
	internalRedis "billiard/internal/redis"
	"billiard/internal/repository"
	"billiard/internal/service"
)

func main() {
	// Load configuration.
	cfg := config.Load()
	log := logger.New(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
	var nrApp *newrelic.Application
	var err error
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			log.WithError(err).Warn("failed to initialize New Relic")
		} else {
			log.WithField("app", cfg.NewRelic.AppName).Info("New Relic enabled")
		}
	}

	// Open the document store.
	store, closeStore, err := app.NewDocumentStore(ctx, cfg, nrApp, log)
	if err != nil {
		log.WithError(err).Fatal("failed to open document store")
	}
	defer func() {
		if err := closeStore(); err != nil {
			log.WithError(err).Warn("failed to close document store")
		}
	}()
	log.WithField("driver", cfg.Store.Driver).Info("Document store ready")

	// Initialize Redis with New Relic instrumentation.
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = app.NewRedisClient(ctx, cfg.Redis, nrApp)
		if err != nil {
			log.WithError(err).Fatal("failed to connect to redis")
		}
		defer redisClient.Close()
		log.WithField("addr", cfg.Redis.Addr).Info("Connected to Redis")
	}

	// Event publishing.
	events, closeEvents, err := app.NewEventPublisher(cfg.RabbitMQ, log)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to rabbitmq")
	}
	defer closeEvents()

	// Wire dependencies.
	server := wireServer(store, redisClient, events, nrApp, cfg, log)

	// Start server in goroutine.
	go func() {
		log.WithField("port", cfg.Server.Port).Info("Starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server error")
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server forced to shutdown")
	}

	if nrApp != nil {
		nrApp.Shutdown(5 * time.Second)
	}

	log.Info("Server exited")
}

// wireServer wires all dependencies and returns the HTTP server.
func wireServer(
	store repository.DocumentStore,
	redisClient *redis.Client,
	events service.EventPublisher,
	nrApp *newrelic.Application,
	cfg *config.Config,
	log *logrus.Logger,
) *http.Server {
	// Redis-backed lock and cache are optional.
	var locker service.Locker
	var orderCache service.OrderCache
	if redisClient != nil {
		locker = internalRedis.NewDocumentLock(redisClient, cfg.Redis.LockTTL)
		orderCache = internalRedis.NewCacheStore(redisClient, cfg.Redis.OrderCacheTTL)
	}

	// Initialize services.
	tx := service.NewTransactor(store, locker, log)
	receiptService := service.NewReceiptService()
	sessionService := service.NewSessionService(tx, events, nil, nil, log)
	settingsService := service.NewSettingsService(tx, events, nil, log)
	orderService := service.NewOrderService(tx, orderCache, receiptService, log)

	// Create router.
	router := app.NewRouter(app.RouterDeps{
		TableHandler:    handler.NewTableHandler(sessionService),
		SessionHandler:  handler.NewSessionHandler(sessionService),
		SettingsHandler: handler.NewSettingsHandler(settingsService),
		OrderHandler:    handler.NewOrderHandler(orderService),
		RedisClient:     redisClient,
		NewRelicApp:     nrApp,
		Logger:          log,
	})

	// Create HTTP server.
	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}
