// Package server assembles the HTTP surface of the identity service: the
// auth endpoints, health, and the cross-cutting middleware stack.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"event-platform/identity/internal/auth/handler"
	"event-platform/identity/internal/auth/service"
)

// Options carries the dependencies the router needs.
type Options struct {
	Manager *service.SessionManager
	DB      Pinger
	// AuthRatePerMinute is the per-IP request budget on the auth endpoints.
	// Zero disables rate limiting.
	AuthRatePerMinute int
}

// Router holds the assembled handler and any background resources to stop.
type Router struct {
	Handler http.Handler
	limiter *RateLimiter
}

// New builds the service router.
func New(opts Options) *Router {
	r := chi.NewRouter()
	r.Use(RequestLog)
	r.Use(RequestMetrics)

	r.Get("/healthz", Health(opts.DB))

	var limiter *RateLimiter
	authHandler := handler.NewAuthHandler(opts.Manager)
	r.Route("/v1/auth", func(ar chi.Router) {
		if opts.AuthRatePerMinute > 0 {
			limiter = NewRateLimiter(opts.AuthRatePerMinute)
			ar.Use(limiter.Middleware)
		}
		authHandler.Mount(ar)
	})

	return &Router{Handler: r, limiter: limiter}
}

// Close stops background resources held by the router.
func (r *Router) Close() {
	if r.limiter != nil {
		r.limiter.Stop()
	}
}
