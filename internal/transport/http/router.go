// Package http wires the domain handlers, platform middleware and
// operational endpoints into a single chi router.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sportsreg/internal/platform/metrics"
	"sportsreg/internal/platform/middleware"
	"sportsreg/internal/ratelimit"
	reghandler "sportsreg/internal/registration/handler"
	taxhandler "sportsreg/internal/taxonomy/handler"
	verhandler "sportsreg/internal/verification/handler"
)

// Deps carries everything the router needs. Handlers are pre-built so the
// router stays a pure composition layer.
type Deps struct {
	Taxonomy     *taxhandler.Handler
	Verification *verhandler.Handler
	Registration *reghandler.Handler
	Sessions     middleware.SessionValidator
	CodeRequests *ratelimit.Limiter
	Metrics      *metrics.Metrics
	Logger       *slog.Logger
	Timeout      time.Duration
}

// New builds the full HTTP surface. Taxonomy and verification routes are
// public; registration routes require a verified session token.
func New(deps Deps) http.Handler {
	timeout := deps.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	r := chi.NewRouter()

	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.Timeout(timeout))
	r.Use(middleware.LatencyMiddleware(deps.Metrics))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.ContentTypeJSON)

		deps.Taxonomy.Register(api)

		api.Group(func(throttled chi.Router) {
			throttled.Use(ratelimit.Middleware(deps.CodeRequests, deps.Logger))
			deps.Verification.Register(throttled)
		})

		api.Group(func(authed chi.Router) {
			authed.Use(middleware.RequireSession(deps.Sessions, deps.Logger))
			deps.Registration.Register(authed)
		})
	})

	return r
}
