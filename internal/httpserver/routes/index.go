package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/inbox/internal/httpserver/deps"
	"github.com/MrSnakeDoc/inbox/internal/httpserver/handlers"
)

func init() { Register(registerIndex) }

func registerIndex(r chi.Router, d deps.Deps) {
	r.Get("/", handlers.Index(d))
}
