package router

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/GregMSThompson/verify-backend/internal/handlers"
	"github.com/GregMSThompson/verify-backend/internal/middleware"
)

func NewRouter(deps *handlers.Deps, rateLimiter *middleware.RateLimitMiddleware) chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewLoggerMiddleware(deps.Log).LoggerMiddleware)

	th := handlers.NewTransactionHandlers(deps)

	r.Route("/api", func(r chi.Router) {
		r.Use(rateLimiter.Handler)
		r.Mount("/", th.TransactionRoutes())
	})
	r.Handle("/metrics", promhttp.Handler())

	return r
}
