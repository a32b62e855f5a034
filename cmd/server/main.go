package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dukerupert/presswork/internal"
	"github.com/dukerupert/presswork/internal/catalog"
	"github.com/dukerupert/presswork/internal/events"
	"github.com/dukerupert/presswork/internal/handler"
	"github.com/dukerupert/presswork/internal/handler/api"
	"github.com/dukerupert/presswork/internal/middleware"
	"github.com/dukerupert/presswork/internal/postgres"
	"github.com/dukerupert/presswork/internal/router"
	"github.com/dukerupert/presswork/internal/routes"
	"github.com/dukerupert/presswork/internal/service"
	"github.com/dukerupert/presswork/internal/storage"
	"github.com/dukerupert/presswork/internal/telemetry"
	"github.com/dukerupert/presswork/internal/worker"
)

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)
	slog.SetDefault(logger)

	// Error tracking
	flushSentry, err := telemetry.InitSentry(telemetry.SentryConfig{
		DSN:              cfg.Sentry.DSN,
		Enabled:          cfg.Sentry.Enabled,
		Environment:      cfg.Sentry.Environment,
		Release:          cfg.Sentry.Release,
		SampleRate:       cfg.Sentry.SampleRate,
		TracesSampleRate: cfg.Sentry.TracesSampleRate,
		Debug:            cfg.Sentry.Debug,
	}, logger)
	if err != nil {
		return err
	}
	defer flushSentry()

	// Initialize database/sql connection for migrations
	logger.Info("Connecting to database...")
	sqlDB, err := sql.Open("pgx", cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	logger.Info("Running database migrations...")
	if err := internal.RunMigrations(sqlDB); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logger.Info("Database migrations completed successfully")

	// Initialize pgx connection pool for application
	pool, err := pgxpool.New(ctx, cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}
	defer pool.Close()
	store := postgres.NewStore(pool)

	// Product profiles
	profiles, err := catalog.LoadProfiles(cfg.ProfilePath, cfg.Storage.FallbackAsset)
	if err != nil {
		return err
	}
	profiles.Watch(logger)

	// Object storage for designs and product images
	files, err := storage.NewStorage(cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	logger.Info("Storage initialized", "provider", cfg.Storage.Provider)

	// Prometheus registry
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	businessMetrics := telemetry.NewBusinessMetrics("presswork")
	if err := businessMetrics.Register(registry); err != nil {
		return fmt.Errorf("failed to register business metrics: %w", err)
	}
	httpMetrics, err := middleware.NewMetrics("presswork", registry)
	if err != nil {
		return fmt.Errorf("failed to register http metrics: %w", err)
	}

	// Services
	catalogService := service.NewCatalogService(store, profiles, files, logger, businessMetrics)
	stockResolver := service.NewStockResolver(store, profiles, logger, businessMetrics)
	quoteService := service.NewQuoteService(catalogService, stockResolver, profiles)
	uploadService := service.NewUploadService(store, files, cfg.MaxUploadSize, logger, businessMetrics)
	cartService := service.NewCartService(store, catalogService, profiles, uploadService, logger, businessMetrics)

	// Cart-line-ready broadcast and the worker that finishes pending links
	var msgs chan *nats.Msg
	if cfg.Nats.URL != "" {
		nc, err := events.Connect(cfg.Nats.URL, logger)
		if err != nil {
			return err
		}
		defer nc.Drain()

		uploadService.OnCartLineReady(events.NewCartLinePublisher(nc, cfg.Nats.Subject, logger))

		msgs = make(chan *nats.Msg, 64)
		sub, err := nc.ChanQueueSubscribe(cfg.Nats.Subject, "presswork-workers", msgs)
		if err != nil {
			return fmt.Errorf("failed to subscribe to %s: %w", cfg.Nats.Subject, err)
		}
		defer sub.Unsubscribe()
		logger.Info("NATS connected", "subject", cfg.Nats.Subject)
	}

	w := worker.NewWorker(uploadService, worker.Config{
		MaxConcurrency: cfg.Worker.MaxConcurrency,
		OrphanSweep:    cfg.Worker.OrphanSweep,
		OrphanAge:      cfg.Worker.OrphanAge,
	}, logger)
	workerDone := make(chan error, 1)
	go func() { workerDone <- w.Start(ctx, msgs) }()

	// ==========================================================================
	// Routes
	// ==========================================================================

	cartLimiter := middleware.NewRateLimiter(middleware.CartRateLimiterConfig())
	defer cartLimiter.Stop()

	r := router.New(
		router.Recovery(logger),
		middleware.RequestID,
		middleware.Identity,
		middleware.WithRequestLogger(logger),
		httpMetrics.Middleware,
		telemetry.SentryMiddleware(),
		middleware.Timeout(cfg.RequestTimeout),
		router.Logger(logger),
	)

	if cfg.Storage.Provider == "local" || cfg.Storage.Provider == "" {
		r.Static(cfg.Storage.LocalURL, cfg.Storage.LocalPath)
	}

	routes.RegisterOpsRoutes(r, routes.OpsDeps{
		Health:  healthHandler(store),
		Metrics: promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
	})
	routes.RegisterAPIRoutes(r, routes.APIDeps{
		ProductHandler: api.NewProductHandler(catalogService, quoteService, logger),
		CartHandler:    api.NewCartHandler(cartService, logger),
		UploadHandler:  api.NewUploadHandler(uploadService, 8*middleware.MB, logger),
		CartLimiter:    cartLimiter,
		MaxUploadBytes: cfg.MaxUploadSize,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router.CORS(cfg.CORSOrigins)(r),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Starting server", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err)
	}
	stop()
	if err := <-workerDone; err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker stopped with error", "error", err)
	}
	return nil
}

// healthHandler reports 503 while the database is unreachable.
func healthHandler(store *postgres.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			middleware.GetLogger(r.Context()).Warn("health check failed", "error", err)
			handler.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		handler.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
