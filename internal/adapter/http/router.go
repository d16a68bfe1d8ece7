package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/iho/goaccount/internal/adapter/http/handler"
	"github.com/iho/goaccount/internal/adapter/http/middleware"
	"github.com/iho/goaccount/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AccountHandler     *handler.AccountHandler
	ConsistencyHandler *handler.ConsistencyHandler
	HealthHandler      *handler.HealthHandler
	Logger             zerolog.Logger

	// Optional
	TrustProxyHeaders bool
	IdempotencyStore  usecase.IdempotencyStore
	IdempotencyTTL    time.Duration
	RateLimiter       *middleware.RateLimiter
	HTTPMetrics       *middleware.HTTPMetrics
	MetricsHandler    http.Handler
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	// Forwarding headers come from the client unless a proxy rewrites them.
	if cfg.TrustProxyHeaders {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery(cfg.Logger))
	if cfg.HTTPMetrics != nil {
		r.Use(cfg.HTTPMetrics.Wrap)
	}
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL, cfg.Logger)
			r.Use(idempotencyMiddleware.Wrap)
		}

		r.Route("/account", func(r chi.Router) {
			r.Get("/", cfg.AccountHandler.Get)
			r.Get("/balance", cfg.AccountHandler.Balance)
			r.Get("/statement", cfg.AccountHandler.Statement)
			r.Post("/deposits", cfg.AccountHandler.Deposit)
			r.Post("/withdrawals", cfg.AccountHandler.Withdraw)
			if cfg.ConsistencyHandler != nil {
				r.Get("/consistency", cfg.ConsistencyHandler.CheckConsistency)
			}
		})
	})

	return r
}
