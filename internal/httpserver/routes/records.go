package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/inbox/internal/httpserver/deps"
	"github.com/MrSnakeDoc/inbox/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/inbox/internal/httpserver/mw"
)

func init() { Register(registerRecords) }

// Both families share handlers: /records is the native API, /api/shorthands
// the path older clients use.
func registerRecords(r chi.Router, d deps.Deps) {
	r.Group(func(r chi.Router) {
		r.Use(mw.RequireAuth(d.Authorizer, d.Logger))

		for _, base := range []string{"/records", "/api/shorthands"} {
			r.Get(base, handlers.ListRecords(d))
			r.Get(base+"/{id}", handlers.GetRecord(d))
			r.With(d.Write()).Post(base, handlers.CreateRecord(d))
			r.With(d.Write()).Delete(base, handlers.DeleteRecords(d))
		}

		r.Get("/search", handlers.SearchRecords(d))
		r.Get("/api/search", handlers.SearchRecords(d))
	})
}
