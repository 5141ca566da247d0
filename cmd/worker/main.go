package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/shubhammalhotra1708/booking-app-sub000/internal/config"
	"github.com/shubhammalhotra1708/booking-app-sub000/internal/handler/health"
	"github.com/shubhammalhotra1708/booking-app-sub000/internal/repository/postgres"
	internalWorker "github.com/shubhammalhotra1708/booking-app-sub000/internal/worker"
	"github.com/shubhammalhotra1708/booking-app-sub000/pkg/logger"
	"github.com/shubhammalhotra1708/booking-app-sub000/pkg/messaging/redis"
	"github.com/shubhammalhotra1708/booking-app-sub000/pkg/metrics"
	"github.com/shubhammalhotra1708/booking-app-sub000/pkg/worker"
)

func main() {
	// Load config
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty}).
		With().Str("component", "outbox-worker").Logger()

	// Initialize database
	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize Redis broker
	redisClient, err := redis.NewClient(ctx, cfg.ToBrokerConfig())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	broker := redis.NewRedisBroker(redisClient, &log)
	defer broker.Close()

	registry := prometheus.NewRegistry()
	m := metrics.NewMetrics(registry, "booking_worker")

	// Initialize repositories
	outboxRepo := postgres.NewOutboxRepository(postgres.NewBaseRepository(db))

	processor := worker.NewOutboxProcessor(outboxRepo, broker, cfg.Outbox.ToWorkerConfig(), &log, m)
	cleanup := internalWorker.NewOutboxCleanupWorker(outboxRepo, cfg.Outbox.Retention, cfg.Outbox.CleanupInterval, &log, m)

	// Setup health check endpoints
	srv := setupHealthCheck(cfg.Outbox.HealthPort, registry, health.NewHandler(map[string]health.Pinger{
		"database": db,
		"redis": health.PingFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}),
	}), &log)

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info().Msg("Shutting down...")
		cancel()
	}()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		processor.Start(ctx)
	}()
	go func() {
		defer wg.Done()
		cleanup.Start(ctx)
	}()
	wg.Wait()

	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Health server forced to shutdown")
	}
}

func setupHealthCheck(port int, registry *prometheus.Registry, h *health.Handler, log *zerolog.Logger) *http.Server {
	engine := gin.New()
	engine.Use(gin.Recovery())
	h.RegisterRoutes(engine)
	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: engine,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Health check server failed")
		}
	}()
	return srv
}
