package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/coop_ledger/internal/adapters/gateway"
	portsrepo "github.com/SscSPs/coop_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/coop_ledger/internal/core/services"
	"github.com/SscSPs/coop_ledger/internal/handlers"
	"github.com/SscSPs/coop_ledger/internal/middleware"
	"github.com/SscSPs/coop_ledger/internal/platform/config"
	"github.com/SscSPs/coop_ledger/internal/platform/metrics"
	"github.com/SscSPs/coop_ledger/internal/repositories/database/pgsql"
	"github.com/SscSPs/coop_ledger/internal/repositories/memory"
	"github.com/SscSPs/coop_ledger/internal/scheduler"
	"github.com/SscSPs/coop_ledger/pkg/database"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// @title Coop Ledger API
// @version 1.0
// @description Double-entry ledger, payment posting and financial reports for a cooperative.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize storage", slog.String("driver", cfg.StorageDriver), slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeStore()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.New(registry)

	container := services.NewServiceContainer(cfg, repos, gateway.NewProviderClient(nil), appMetrics)

	seedCtx := middleware.WithLogger(ctx, logger)
	if created, err := container.Account.EnsureCanonicalAccounts(seedCtx); err != nil {
		logger.Error("Failed to seed chart of accounts", slog.String("error", err.Error()))
		os.Exit(1)
	} else if created > 0 {
		logger.Info("Seeded chart of accounts", slog.Int("created", created))
	}

	jobs, err := scheduler.New(scheduler.Config{
		RebuildCron:   cfg.RebuildCron,
		Location:      cfg.RebuildTimezone,
		SweepInterval: cfg.SweepInterval,
		JobTimeout:    10 * time.Minute,
	}, container.Reporting, container.Sweeper, logger)
	if err != nil {
		logger.Error("Failed to configure scheduler", slog.String("error", err.Error()))
		os.Exit(1)
	}
	jobs.Start()

	webhookLimiter, err := middleware.NewRateLimiter(cfg.WebhookRateLimit)
	if err != nil {
		logger.Error("Invalid webhook rate limit", slog.String("rate", cfg.WebhookRateLimit), slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := handlers.RegisterValidators(); err != nil {
		logger.Error("Failed to register validators", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	metricsHandler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})
	handlers.RegisterRoutes(r, cfg, container, metricsHandler, webhookLimiter)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("storage", cfg.StorageDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", slog.String("error", err.Error()))
	}
	jobs.Stop(shutdownCtx)
}

// openStore returns the repositories for the configured driver plus a close func.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.RepositoryProvider, func(), error) {
	if cfg.StorageDriver == config.StorageMemory {
		logger.Warn("Using in-memory storage; data is lost on restart")
		return memory.New().Repositories(), func() {}, nil
	}

	if err := runMigrations(cfg, logger); err != nil {
		return portsrepo.RepositoryProvider{}, nil, err
	}

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		return portsrepo.RepositoryProvider{}, nil, err
	}
	logger.Info("Database connection pool established.")
	return pgsql.NewRepositoryProvider(dbPool), func() { database.ClosePgxPool(dbPool) }, nil
}

// runMigrations applies pending "up" migrations over a short-lived database/sql
// connection using the pgx stdlib driver.
func runMigrations(cfg *config.Config, logger *slog.Logger) error {
	logger.Info("Running database migrations...")
	migrationDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()
	if err := migrationDB.Ping(); err != nil {
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithDatabaseInstance(cfg.MigrationsPath, "postgres", driver)
	if err != nil {
		return err
	}

	upErr := m.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return upErr
	}
	if sourceErr, dbErr := m.Close(); sourceErr != nil || dbErr != nil {
		return errors.Join(sourceErr, dbErr)
	}

	if errors.Is(upErr, migrate.ErrNoChange) {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
