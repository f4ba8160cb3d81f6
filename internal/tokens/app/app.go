package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/aussiebroadwan/tokensmith/internal/tokens/http"
	"github.com/aussiebroadwan/tokensmith/internal/tokens/service"
	"github.com/aussiebroadwan/tokensmith/internal/tokens/store"
	"github.com/aussiebroadwan/tokensmith/internal/tokens/store/drivers/sqlite"
	"github.com/aussiebroadwan/tokensmith/internal/tokens/strategy"
	"github.com/aussiebroadwan/tokensmith/pkg/cryptox"
	"github.com/aussiebroadwan/tokensmith/pkg/httpx"
	"github.com/aussiebroadwan/tokensmith/pkg/metricx"
	"github.com/aussiebroadwan/tokensmith/pkg/slogx"
	"github.com/redis/go-redis/v9"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application encapsulates the token service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db              store.Store
	tokenEnvelope   *cryptox.Envelope
	storageEnvelope *cryptox.Envelope
	registry        *strategy.Registry
	redis           *redis.Client
	metrics         *metricx.Provider

	// Services
	clientService       *service.ClientService
	tokenService        *service.TokenService
	configCache         *service.ConfigCache
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized.
// It fails if the strategy registry cannot serve every token type.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "tokens-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := app.initEngine(); err != nil {
		return nil, err
	}
	if err := app.initDatabase(); err != nil {
		return nil, err
	}
	if err := app.initRedis(); err != nil {
		_ = app.db.Close()
		return nil, err
	}
	if err := app.initMetrics(); err != nil {
		app.closeBackends()
		return nil, err
	}
	if err := app.initServices(); err != nil {
		app.closeBackends()
		return nil, err
	}
	app.initHTTP()

	return app, nil
}

// Handler returns the root HTTP handler.
func (app *Application) Handler() http.Handler { return app.router }

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("tokens service starting", "port", app.cfg.Port, "version", BuildVersion)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down tokens service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()
	app.configCache.Clear()

	if err := app.metrics.Shutdown(ctx); err != nil {
		app.logger.Error("error flushing metrics", "error", err)
	}

	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("error closing redis", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("tokens service stopped")
	return nil
}

// initEngine derives both envelopes and builds the strategy registry.
func (app *Application) initEngine() error {
	tokenEnv, storageEnv, err := initEnvelopes(app.cfg, app.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize envelopes: %w", err)
	}
	app.tokenEnvelope = tokenEnv
	app.storageEnvelope = storageEnv

	registry, err := strategy.NewDefaultRegistry(app.tokenEnvelope, strategy.WithLeeway(app.cfg.ClockLeeway))
	if err != nil {
		return fmt.Errorf("failed to build strategy registry: %w", err)
	}
	app.registry = registry

	app.logger.Info("strategy registry ready", "token_types", registry.Types())
	return nil
}

// initDatabase initializes the database and applies migrations
func (app *Application) initDatabase() error {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(dsn)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initRedis connects to the shared rate limit store when one is configured.
func (app *Application) initRedis() error {
	if app.cfg.RedisAddr == "" {
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     app.cfg.RedisAddr,
		Password: app.cfg.RedisPassword,
		DB:       app.cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return fmt.Errorf("failed to connect to redis at %s: %w", app.cfg.RedisAddr, err)
	}

	app.redis = rdb
	app.logger.Info("rate limits shared through redis", "addr", app.cfg.RedisAddr, "db", app.cfg.RedisDB)
	return nil
}

// initMetrics builds the meter provider for the configured exporter.
func (app *Application) initMetrics() error {
	provider, err := metricx.New(context.Background(), metricx.Config{
		Service:  "tokens-service",
		Version:  BuildVersion,
		Exporter: app.cfg.MetricsExporter,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}
	app.metrics = provider

	app.logger.Info("metrics initialized", "exporter", app.cfg.MetricsExporter)
	return nil
}

// closeBackends releases whatever New opened before failing.
func (app *Application) closeBackends() {
	if app.metrics != nil {
		_ = app.metrics.Shutdown(context.Background())
	}
	if app.redis != nil {
		_ = app.redis.Close()
	}
	_ = app.db.Close()
}

// initServices initializes all business logic services
func (app *Application) initServices() error {
	app.clientService = &service.ClientService{
		Store:    app.db,
		Envelope: app.storageEnvelope,
		Registry: app.registry,
	}

	app.configCache = service.NewConfigCache(app.clientService, app.cfg.ClientCacheTTL)
	app.clientService.OnChange = app.configCache.Invalidate

	tokenMetrics, err := service.NewMetrics(app.metrics.Meter("github.com/aussiebroadwan/tokensmith/internal/tokens/service"))
	if err != nil {
		return fmt.Errorf("failed to create token metrics: %w", err)
	}

	app.tokenService = &service.TokenService{
		Registry:   app.registry,
		Configs:    app.configCache,
		DefaultTTL: app.cfg.DefaultTTL,
		MaxTTL:     app.cfg.MaxTTL,
		Metrics:    tokenMetrics,
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.configCache,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
	return nil
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	if app.cfg.APIKeyHash == "" {
		app.logger.Warn("TOKENS_API_KEY_HASH not set, /v1 endpoints are unauthenticated")
	}

	router := httpapi.NewRouter(
		app.cfg.APIKeyHash,
		BuildVersion,
		app.db,
		app.registry,
		app.logger,
	)

	// Wire services to router
	router.TokenService = app.tokenService
	router.ClientService = app.clientService
	router.Metrics = app.metrics.Handler()
	if app.redis != nil {
		router.Limiters = httpx.RedisLimiterFactory(app.redis, "tokensmith:ratelimit")
	}
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
