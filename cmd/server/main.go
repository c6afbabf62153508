package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/almori/tripledger/internal/adapter/http"
	"github.com/almori/tripledger/internal/adapter/http/handler"
	postgresRepo "github.com/almori/tripledger/internal/adapter/repository/postgres"
	redisRepo "github.com/almori/tripledger/internal/adapter/repository/redis"
	"github.com/almori/tripledger/internal/infrastructure/auth"
	"github.com/almori/tripledger/internal/infrastructure/config"
	"github.com/almori/tripledger/internal/infrastructure/logger"
	"github.com/almori/tripledger/internal/infrastructure/metrics"
	"github.com/almori/tripledger/internal/infrastructure/postgres"
	"github.com/almori/tripledger/internal/infrastructure/redis"
	"github.com/almori/tripledger/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	appLogger := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log.Logger = appLogger
	zerolog.SetGlobalLevel(appLogger.GetLevel())

	ctx := context.Background()

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, postgres.PoolConfig{
		URL:            cfg.DatabaseURL,
		MaxConns:       cfg.DatabaseMaxConns,
		MinConns:       cfg.DatabaseMinConns,
		ConnectTimeout: cfg.DatabaseTimeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Run migrations
	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Initialize metrics
	appMetrics := metrics.New()

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	tripRepo := postgresRepo.NewTripRepository(pool)
	memberRepo := postgresRepo.NewMembershipRepository(pool)
	userRepo := postgresRepo.NewUserRepository(pool)
	sharedRepo := postgresRepo.NewSharedExpenseRepository(pool)
	personalRepo := postgresRepo.NewPersonalExpenseRepository(pool)
	settlementRepo := postgresRepo.NewSettlementRepository(pool)
	idGen := postgresRepo.NewULIDGenerator()
	cache := redisRepo.NewCache(redisClient)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)

	// Initialize use cases
	expenseUC := usecase.NewExpenseUseCase(txManager, tripRepo, sharedRepo, personalRepo, memberRepo, idGen, cache, appMetrics)
	balanceUC := usecase.NewBalanceUseCase(tripRepo, memberRepo, userRepo, sharedRepo, personalRepo, settlementRepo, cache, cfg.BalanceCacheTTL, appMetrics)
	settlementUC := usecase.NewSettlementUseCase(settlementRepo, tripRepo, memberRepo, idGen, cache, appMetrics)

	// Initialize handlers
	expenseHandler := handler.NewExpenseHandler(expenseUC)
	balanceHandler := handler.NewBalanceHandler(balanceUC)
	settlementHandler := handler.NewSettlementHandler(settlementUC)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	// Optional JWT authentication
	var jwtManager *auth.JWTManager
	if cfg.AuthEnabled && cfg.JWTSecret != "" {
		jwtManager = auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
		log.Info().Msg("JWT authentication enabled")
	}

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		ExpenseHandler:    expenseHandler,
		BalanceHandler:    balanceHandler,
		SettlementHandler: settlementHandler,
		HealthHandler:     healthHandler,
		IdempotencyStore:  idempotencyStore,
		IdempotencyTTL:    cfg.IdempotencyTTL,
		JWTManager:        jwtManager,
		Logger:            appLogger,
	})

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
