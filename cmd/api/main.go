package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/time/rate"

	"github.com/shubhammalhotra1708/booking-app-sub000/internal/config"
	availabilityHandler "github.com/shubhammalhotra1708/booking-app-sub000/internal/handler/availability"
	bookingHandler "github.com/shubhammalhotra1708/booking-app-sub000/internal/handler/booking"
	"github.com/shubhammalhotra1708/booking-app-sub000/internal/handler/health"
	"github.com/shubhammalhotra1708/booking-app-sub000/internal/lock"
	"github.com/shubhammalhotra1708/booking-app-sub000/internal/middleware"
	"github.com/shubhammalhotra1708/booking-app-sub000/internal/repository/cached"
	"github.com/shubhammalhotra1708/booking-app-sub000/internal/repository/postgres"
	"github.com/shubhammalhotra1708/booking-app-sub000/internal/router"
	availabilityService "github.com/shubhammalhotra1708/booking-app-sub000/internal/service/availability"
	bookingService "github.com/shubhammalhotra1708/booking-app-sub000/internal/service/booking"
	"github.com/shubhammalhotra1708/booking-app-sub000/pkg/logger"
	"github.com/shubhammalhotra1708/booking-app-sub000/pkg/messaging/redis"
	"github.com/shubhammalhotra1708/booking-app-sub000/pkg/metrics"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})

	// Initialize database
	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	ctx := context.Background()

	// Initialize Redis, used for the schedule lock and readiness
	redisClient, err := redis.NewClient(ctx, cfg.ToBrokerConfig())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer redisClient.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.NewMetrics(registry, "booking")

	// Initialize repositories
	shopRepo := cached.NewShopRepository(postgres.NewShopRepository(db), cfg.Cache.TTL)
	serviceRepo := cached.NewServiceRepository(postgres.NewServiceRepository(db), cfg.Cache.TTL)
	staffRepo := postgres.NewStaffRepository(db)
	bookingRepo := postgres.NewBookingRepository(db)

	var locker lock.Locker = lock.NoopLocker{}
	if cfg.Lock.Enabled {
		locker = lock.NewRedisLocker(redisClient, cfg.Lock.TTL, cfg.Lock.Wait)
	}

	// Initialize services
	availabilitySvc := availabilityService.NewService(shopRepo, serviceRepo, staffRepo, bookingRepo, &log, m)
	bookingSvc := bookingService.NewService(shopRepo, serviceRepo, staffRepo, bookingRepo, locker, &log, m)

	// Initialize handlers
	healthH := health.NewHandler(map[string]health.Pinger{
		"database": db,
		"redis": health.PingFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}),
	})

	// Setup router
	r := router.NewRouter(
		availabilityHandler.NewHandler(availabilitySvc),
		bookingHandler.NewHandler(bookingSvc),
		healthH,
		router.RouterConfig{
			Mode:             cfg.Server.Mode,
			RateLimitEnabled: cfg.RateLimit.Enabled,
			RateLimit:        rate.Limit(cfg.RateLimit.RequestsPerSecond),
			RateBurst:        cfg.RateLimit.Burst,
			CORSConfig:       middleware.DefaultCORSConfig(cfg.CORS.AllowedOrigins),
			MaxBodyBytes:     cfg.Server.MaxBodyBytes,
			RequestTimeout:   cfg.Server.RequestTimeout,
			MetricsEnabled:   cfg.Metrics.Enabled,
			MetricsPath:      cfg.Metrics.Path,
			MetricsPrefix:    "booking_http",
			Registry:         registry,
		},
	)
	r.Setup()

	// Create server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server
	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited")
}
