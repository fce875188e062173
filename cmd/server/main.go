package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	redislib "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	httpadapter "github.com/corebank/ledger/internal/adapter/http"
	"github.com/corebank/ledger/internal/adapter/http/handler"
	"github.com/corebank/ledger/internal/adapter/http/middleware"
	postgresrepo "github.com/corebank/ledger/internal/adapter/repository/postgres"
	redisrepo "github.com/corebank/ledger/internal/adapter/repository/redis"
	"github.com/corebank/ledger/internal/infrastructure/auth"
	"github.com/corebank/ledger/internal/infrastructure/config"
	"github.com/corebank/ledger/internal/infrastructure/logger"
	"github.com/corebank/ledger/internal/infrastructure/metrics"
	"github.com/corebank/ledger/internal/infrastructure/postgres"
	"github.com/corebank/ledger/internal/infrastructure/redis"
	"github.com/corebank/ledger/internal/usecase"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	migrateDown := flag.Bool("migrate-down", false, "roll back the most recent database migration and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	if *migrateDown {
		return postgres.RunMigrationsDown(cfg.DatabaseURL, cfg.MigrationsPath)
	}

	if cfg.JWTSecret == "" {
		return errors.New("JWT_SECRET must be set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	log.Info().Msg("connected to database")

	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	var redisClient *redislib.Client
	if cfg.RedisEnabled {
		redisClient, err = redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer redisClient.Close()

		log.Info().Msg("connected to redis")
	} else {
		log.Warn().Msg("redis disabled, idempotency keys and report caching are off")
	}

	router := buildRouter(cfg, log, pool, redisClient)

	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting HTTP server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down gracefully: %w", err)
	}

	log.Info().Msg("server stopped")
	return nil
}

func buildRouter(cfg *config.Config, log zerolog.Logger, pool *pgxpool.Pool, redisClient *redislib.Client) http.Handler {
	accountRepo := postgresrepo.NewAccountRepository(pool)
	entryRepo := postgresrepo.NewEntryRepository(pool)
	credentialRepo := postgresrepo.NewCredentialRepository(pool)
	reportRepo := postgresrepo.NewReportRepository(pool)
	txManager := postgresrepo.NewTxManager(pool)
	retrier := postgresrepo.NewRetrier(log)
	idGen := postgresrepo.NewULIDGenerator()

	var (
		cache            usecase.Cache
		idempotencyStore usecase.IdempotencyStore
	)
	if redisClient != nil {
		cache = redisrepo.NewCache(redisClient)
		idempotencyStore = redisrepo.NewIdempotencyStore(redisClient)
	}

	m := metrics.New()

	accountUC := usecase.NewAccountUseCase(txManager, accountRepo, entryRepo, credentialRepo)
	ledgerUC := usecase.NewLedgerUseCase(txManager, accountRepo, entryRepo, retrier, idGen)
	entryUC := usecase.NewEntryUseCase(accountRepo, entryRepo)
	credentialUC := usecase.NewCredentialUseCase(credentialRepo)
	reportUC := usecase.NewReportUseCase(reportRepo, cache)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)

	routerCfg := httpadapter.RouterConfig{
		AccountHandler:   handler.NewAccountHandler(metrics.NewInstrumentedAccounts(accountUC, m)),
		LedgerHandler:    handler.NewLedgerHandler(metrics.NewInstrumentedLedger(ledgerUC, m)),
		EntryHandler:     handler.NewEntryHandler(entryUC),
		AuthHandler:      handler.NewAuthHandler(credentialUC, jwtManager),
		AdminHandler:     handler.NewAdminHandler(reportUC),
		HealthHandler:    handler.NewHealthHandler(pool, redisClient),
		JWTManager:       jwtManager,
		IdempotencyStore: idempotencyStore,
		RateLimiter:      middleware.NewRateLimiter(cfg.RateLimitPerSecond, cfg.RateLimitBurst),
		Logger:           log,
	}

	return httpadapter.NewRouter(routerCfg)
}
