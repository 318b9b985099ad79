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

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	_ "github.com/tair/inventory-analytics/docs"
	"github.com/tair/inventory-analytics/internal/config"
	"github.com/tair/inventory-analytics/internal/inventory"
	"github.com/tair/inventory-analytics/internal/inventory/cache"
	httpDelivery "github.com/tair/inventory-analytics/internal/inventory/delivery/http"
	"github.com/tair/inventory-analytics/internal/inventory/domain"
	"github.com/tair/inventory-analytics/internal/inventory/usecase/command"
	"github.com/tair/inventory-analytics/kafka"
	"github.com/tair/inventory-analytics/pkg/database"
	"github.com/tair/inventory-analytics/pkg/logger"
	"github.com/tair/inventory-analytics/pkg/tracing"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(logger.Options{
		Service:     cfg.ServiceName,
		Development: cfg.IsDevelopment(),
		Level:       cfg.LogLevel,
	})

	logger.Logger.Info().
		Str("service", cfg.ServiceName).
		Str("version", version).
		Str("environment", cfg.Environment).
		Str("log_level", cfg.LogLevel).
		Msg("Starting inventory analytics service")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tp, err := tracing.InitTracer(cfg.ServiceName, version, cfg.JaegerEndpoint)
	if err != nil {
		logger.Logger.Warn().Err(err).Msg("Tracing disabled")
	}

	db, health := openDatabase(cfg.Database)
	redisClient := openRedis(ctx, cfg.Redis)
	var reportCache cache.ReportCache = cache.NopCache{}
	if redisClient != nil {
		defer redisClient.Close()
		reportCache = cache.NewRedisReportCache(redisClient, cfg.Redis.TTL)
	}
	alerts, closeAlerts := openAlertPublisher(cfg.Kafka)
	defer closeAlerts()

	svc, err := inventory.InitializeService(db, cfg.Source, reportCache, alerts, prometheus.DefaultRegisterer)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize handler")
	}

	if redisClient != nil && cfg.Redis.RateLimit > 0 {
		limiter := httpDelivery.NewRateLimiter(
			httpDelivery.NewRedisWindowStore(redisClient), cfg.Redis.RateLimit, time.Minute,
		)
		if err := limiter.TrustProxies(cfg.Redis.TrustedProxies); err != nil {
			logger.Logger.Fatal().Err(err).Msg("Invalid trusted proxies")
		}
		svc.HTTP.WithRateLimiter(limiter)
	}

	closeConsumer := startGoodsReceivedConsumer(ctx, cfg.Kafka, svc.ReceiveGoods)
	defer closeConsumer()

	server := newHTTPServer(cfg, svc.HTTP, health)
	go func() {
		logger.Logger.Info().
			Str("port", cfg.HTTPPort).
			Str("metrics_endpoint", "/metrics").
			Str("swagger", "/swagger/index.html").
			Msg("HTTP server started")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Logger.Fatal().Err(err).Msg("Failed to start HTTP server")
		}
	}()

	<-ctx.Done()
	logger.Logger.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Logger.Error().Err(err).Msg("HTTP server shutdown failed")
	}
	if tp != nil {
		if err := tracing.Shutdown(shutdownCtx, tp); err != nil {
			logger.Logger.Error().Err(err).Msg("Tracer shutdown failed")
		}
	}
	logger.Logger.Info().Msg("Server stopped")
}

// openDatabase connects to PostgreSQL and migrates the schema. The memory
// driver returns a nil db, which selects the in-memory store.
func openDatabase(cfg config.DatabaseConfig) (*gorm.DB, httpDelivery.HealthChecker) {
	if cfg.Driver == "memory" {
		logger.Logger.Warn().Msg("Using in-memory item store, data is not persisted")
		return nil, nil
	}

	db, err := database.NewGormConnection(database.Config{
		Host:     cfg.Host,
		Port:     cfg.Port,
		User:     cfg.User,
		Password: cfg.Password,
		DBName:   cfg.Name,
		SSLMode:  cfg.SSLMode,
	})
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to connect to database")
	}

	if err := db.AutoMigrate(&domain.Item{}); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to run migrations")
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to get database instance")
	}

	logger.Logger.Info().Msg("Database initialized successfully")
	return db, sqlDB
}

// openRedis returns nil when Redis is not configured or not reachable, which
// disables report caching and rate limiting.
func openRedis(ctx context.Context, cfg config.RedisConfig) *redis.Client {
	if cfg.Addr == "" {
		logger.Logger.Info().Msg("Redis not configured, report cache and rate limiting disabled")
		return nil
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	client, err := cache.Connect(pingCtx, cfg.Addr, cfg.Password, cfg.DB)
	if err != nil {
		logger.Logger.Warn().Err(err).Str("addr", cfg.Addr).Msg("Redis unreachable, report cache and rate limiting disabled")
		return nil
	}

	logger.Logger.Info().
		Str("addr", cfg.Addr).
		Dur("ttl", cfg.TTL).
		Int("rate_limit_per_minute", cfg.RateLimit).
		Msg("Redis connected")
	return client
}

func openAlertPublisher(cfg config.KafkaConfig) (command.StockAlertPublisher, func()) {
	if len(cfg.Brokers) == 0 {
		logger.Logger.Info().Msg("Kafka not configured, stock alerts disabled")
		return kafka.NopPublisher{}, func() {}
	}

	publisher, err := kafka.NewPublisher(cfg.Brokers, cfg.AlertTopic)
	if err != nil {
		logger.Logger.Warn().Err(err).Msg("Kafka publisher unavailable, stock alerts disabled")
		return kafka.NopPublisher{}, func() {}
	}

	return publisher, func() {
		if err := publisher.Close(); err != nil {
			logger.Logger.Error().Err(err).Msg("Failed to close Kafka publisher")
		}
	}
}

func startGoodsReceivedConsumer(ctx context.Context, cfg config.KafkaConfig, receive *command.ReceiveGoodsHandler) func() {
	if len(cfg.Brokers) == 0 {
		return func() {}
	}

	consumer, err := kafka.NewConsumer(cfg.Brokers, cfg.GroupID, []string{cfg.ReceiptsTopic})
	if err != nil {
		logger.Logger.Warn().Err(err).Msg("Kafka consumer unavailable, goods receipts will not be consumed")
		return func() {}
	}

	consumer.RegisterHandler(kafka.EventTypeGoodsReceived, kafka.GoodsReceivedHandler(receive.HandleEvent))
	consumer.Start(ctx)

	return func() {
		if err := consumer.Close(); err != nil {
			logger.Logger.Error().Err(err).Msg("Failed to close Kafka consumer")
		}
	}
}

func newHTTPServer(cfg *config.Config, handler *httpDelivery.InventoryHandler, health httpDelivery.HealthChecker) *http.Server {
	router := mux.NewRouter()
	middlewares := httpDelivery.DefaultMiddlewareConfig(cfg.RequestTimeout)

	// Operational endpoints stay outside the request middlewares.
	router.Handle("/metrics", promhttp.Handler())
	httpDelivery.RegisterSwaggerDocs(router)

	api := router.NewRoute().Subrouter()
	httpDelivery.RegisterMiddlewares(api, middlewares)
	handler.RegisterRoutes(api)
	handler.RegisterHealthCheck(api, health)

	return &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           httpDelivery.SetupCORS(middlewares)(router),
		ReadHeaderTimeout: 10 * time.Second,
	}
}
