/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Wires URLs to handlers. Chi for routing, the usual middleware stack,
  CORS for kiosk frontends.

ROUTE GROUPS:
  /api/accounts/*   Account creation, balance, top-up, charge, tickets
  /api/tariffs      Tariff table and accepted top-up denominations
  /metrics          Prometheus exposition (when configured)

SECURITY NOTE:
  No authentication middleware. Validators are assumed to sit on a
  closed network.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a router with all routes configured. metricsHandler
// may be nil.
func NewRouter(h *Handler, metricsHandler http.Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Route("/api", func(r chi.Router) {
		r.Route("/accounts", func(r chi.Router) {
			r.Get("/", h.ListAccounts)
			r.Post("/", h.CreateAccount)
			r.Get("/{id}", h.GetAccount)
			r.Post("/{id}/topup", h.TopUp)
			r.Post("/{id}/charge", h.Charge)
			r.Get("/{id}/status", h.TripStatus)
			r.Get("/{id}/tickets", h.ListTickets)
		})

		r.Get("/tariffs", h.GetTariffs)
	})

	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	return r
}
