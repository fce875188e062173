package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/corebank/ledger/internal/adapter/http/handler"
	"github.com/corebank/ledger/internal/adapter/http/middleware"
	"github.com/corebank/ledger/internal/infrastructure/auth"
	"github.com/corebank/ledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AccountHandler   *handler.AccountHandler
	LedgerHandler    *handler.LedgerHandler
	EntryHandler     *handler.EntryHandler
	AuthHandler      *handler.AuthHandler
	AdminHandler     *handler.AdminHandler
	HealthHandler    *handler.HealthHandler
	JWTManager       *auth.JWTManager
	IdempotencyStore usecase.IdempotencyStore
	RateLimiter      *middleware.RateLimiter
	Logger           zerolog.Logger
}

// NewRouter creates the HTTP router. Login and account opening are open;
// everything else under /api/v1 requires a token, and the admin routes the
// Admin role.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Metrics)
	r.Use(middleware.Recovery(cfg.Logger))

	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.IdempotencyStore != nil {
			r.Use(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore).Wrap)
		}

		r.Post("/auth/login", cfg.AuthHandler.Login)
		r.Post("/accounts", cfg.AccountHandler.Open)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWTManager))

			r.With(middleware.RequireAdmin).Get("/accounts", cfg.AccountHandler.List)
			r.Get("/accounts/{number}", cfg.AccountHandler.Get)
			r.Get("/accounts/{number}/balance", cfg.AccountHandler.GetBalance)
			r.Get("/accounts/{number}/entries", cfg.EntryHandler.ListByAccount)
			r.Put("/accounts/{number}/profile", cfg.AccountHandler.UpdateProfile)
			r.Post("/accounts/{number}/close", cfg.AccountHandler.Close)

			r.Post("/deposits", cfg.LedgerHandler.Deposit)
			r.Post("/withdrawals", cfg.LedgerHandler.Withdraw)
			r.Post("/transfers", cfg.LedgerHandler.Transfer)

			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Get("/overview", cfg.AdminHandler.Overview)
				r.Get("/conservation", cfg.AdminHandler.Conservation)
			})
		})
	})

	return r
}
