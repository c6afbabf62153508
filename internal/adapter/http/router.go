package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/almori/tripledger/internal/adapter/http/handler"
	"github.com/almori/tripledger/internal/adapter/http/middleware"
	"github.com/almori/tripledger/internal/infrastructure/auth"
	"github.com/almori/tripledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	ExpenseHandler    *handler.ExpenseHandler
	BalanceHandler    *handler.BalanceHandler
	SettlementHandler *handler.SettlementHandler
	HealthHandler     *handler.HealthHandler
	IdempotencyStore  usecase.IdempotencyStore
	IdempotencyTTL    time.Duration
	JWTManager        *auth.JWTManager
	Logger            zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Metrics)
	r.Use(chimiddleware.Recoverer)

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.NewAuthenticator(cfg.JWTManager).Wrap)

		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL)
			r.Use(idempotencyMiddleware.Wrap)
		}

		r.Route("/trips/{tripID}", func(r chi.Router) {
			// Expenses
			r.Route("/expenses", func(r chi.Router) {
				r.Post("/", cfg.ExpenseHandler.CreateShared)
				r.Post("/personal", cfg.ExpenseHandler.CreatePersonal)
				r.Get("/", cfg.ExpenseHandler.List)
				r.Get("/{expenseID}", cfg.ExpenseHandler.Get)
				r.Patch("/{expenseID}", cfg.ExpenseHandler.Update)
				r.Delete("/{expenseID}", cfg.ExpenseHandler.Delete)
				r.Post("/personal/{expenseID}/paid", cfg.ExpenseHandler.MarkPersonalPaid)
			})

			// Splits
			r.Post("/splits/{splitID}/paid", cfg.ExpenseHandler.MarkSplitPaid)

			// Balance reports
			r.Get("/balance", cfg.BalanceHandler.Get)
			r.Get("/balance/optimized", cfg.BalanceHandler.GetOptimized)

			// Settlements
			r.Route("/settlements", func(r chi.Router) {
				r.Post("/", cfg.SettlementHandler.Create)
				r.Get("/", cfg.SettlementHandler.List)
				r.Post("/{settlementID}/complete", cfg.SettlementHandler.Complete)
				r.Post("/{settlementID}/cancel", cfg.SettlementHandler.Cancel)
				r.Delete("/{settlementID}", cfg.SettlementHandler.Delete)
			})
		})
	})

	return r
}
