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

	"github.com/SscSPs/ledger_core/internal/ai"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_core/internal/core/services"
	"github.com/SscSPs/ledger_core/internal/events"
	"github.com/SscSPs/ledger_core/internal/handlers"
	"github.com/SscSPs/ledger_core/internal/middleware"
	"github.com/SscSPs/ledger_core/internal/platform/config"
	"github.com/SscSPs/ledger_core/internal/repositories/database/pgsql"
	"github.com/SscSPs/ledger_core/internal/repositories/memory"
	"github.com/SscSPs/ledger_core/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// @title Ledger Core API
// @version 1.0
// @description Multi-tenant double-entry bookkeeping ledger with an AI suggestion workflow.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	logLevel := new(slog.LevelVar)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logLevel.Set(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to open ledger store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeStore()

	publisher, closePublisher := openPublisher(ctx, cfg, logger)
	defer closePublisher()

	registry, err := ai.NewRegistry(ai.Config{
		DefaultProvider: cfg.AIProvider,
		Model:           cfg.AIModel,
		APIKey:          cfg.AIAPIKey,
		BaseURL:         cfg.AIBaseURL,
		Timeout:         cfg.AITimeout,
		Breaker: ai.BreakerConfig{
			MaxFailures: cfg.AIBreakerMaxFailures,
			OpenTimeout: cfg.AIBreakerOpenTimeout,
		},
	})
	if err != nil {
		logger.Error("Failed to configure AI providers", slog.String("error", err.Error()))
		os.Exit(1)
	}

	serviceContainer := services.NewServiceContainer(services.ContainerDeps{
		Store:          store,
		Providers:      registry,
		Publisher:      publisher,
		LedgerPageSize: cfg.LedgerPageSize,
	})

	limiter, err := middleware.NewRateLimiter(cfg.RateLimit)
	if err != nil {
		logger.Error("Invalid RATE_LIMIT", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(
		middleware.StructuredLoggingMiddleware(logger),
		gin.Recovery(),
		cors.New(cors.Config{
			AllowOrigins:     cfg.CORSAllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
			ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		middleware.RateLimit(limiter),
	)

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer, registry)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      cfg.AITimeout + 30*time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Info("Server starting",
			slog.String("port", cfg.Port),
			slog.String("store_driver", cfg.StoreDriver),
			slog.String("ai_provider", cfg.AIProvider))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", slog.String("error", err.Error()))
	}
}

// openStore builds the configured LedgerStore. The returned func releases it.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.LedgerStore, func(), error) {
	if cfg.StoreDriver == config.StoreDriverMemory {
		logger.Warn("Using in-memory ledger store; data is lost on restart")
		return memory.NewStore(), func() {}, nil
	}

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("Database connection pool established")

	if err := runMigrations(cfg, logger); err != nil {
		dbPool.Close()
		return nil, nil, err
	}
	return pgsql.NewLedgerStore(dbPool), func() { database.ClosePgxPool(dbPool) }, nil
}

// runMigrations applies every pending "up" migration from MIGRATIONS_PATH.
func runMigrations(cfg *config.Config, logger *slog.Logger) error {
	logger.Info("Running database migrations", slog.String("path", cfg.MigrationsPath))

	// pgx/v5/stdlib keeps migrations on the same driver as the pool
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
	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return sourceErr
	}
	if dbErr != nil {
		return dbErr
	}

	if errors.Is(upErr, migrate.ErrNoChange) {
		logger.Info("No new migrations to apply")
	} else {
		logger.Info("Database migrations applied successfully")
	}
	return nil
}

// openPublisher connects the Redis event publisher when REDIS_URL is set.
// Ledger events are dropped otherwise.
func openPublisher(ctx context.Context, cfg *config.Config, logger *slog.Logger) (events.Publisher, func()) {
	if cfg.RedisURL == "" {
		logger.Info("REDIS_URL not set, ledger events are not published")
		return events.NoopPublisher{}, func() {}
	}
	publisher, rdb, err := events.NewRedisPublisherFromURL(ctx, cfg.RedisURL, cfg.EventsChannel)
	if err != nil {
		logger.Warn("Redis unavailable, ledger events are not published", slog.String("error", err.Error()))
		return events.NoopPublisher{}, func() {}
	}
	logger.Info("Publishing ledger events to Redis", slog.String("channel", cfg.EventsChannel))
	return publisher, func() {
		if err := rdb.Close(); err != nil {
			logger.Error("Error closing redis client", slog.String("error", err.Error()))
		}
	}
}
