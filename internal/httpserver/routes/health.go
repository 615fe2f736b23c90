package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/inbox/internal/httpserver/deps"
	"github.com/MrSnakeDoc/inbox/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/inbox/internal/httpserver/mw"
)

func init() { Register(registerHealth) }

func registerHealth(r chi.Router, d deps.Deps) {
	r.Group(func(r chi.Router) {
		r.Use(mw.AllowOnlyCIDRS(d.HealthCIDRs, d.TrustProxy, d.Logger))
		r.Get("/health", handlers.Health(d))
		r.Get("/api/health", handlers.Health(d))
	})
}
