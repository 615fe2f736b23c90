package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/inbox/internal/httpserver/deps"
	"github.com/MrSnakeDoc/inbox/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/inbox/internal/httpserver/mw"
)

func init() { Register(registerLegacy) }

func registerLegacy(r chi.Router, d deps.Deps) {
	r.Route("/apis/siyuan/inbox", func(r chi.Router) {
		r.Use(mw.RequireAuth(d.Authorizer, d.Logger))
		r.Post("/getCloudShorthands", handlers.LegacyList(d))
		r.Post("/getCloudShorthand", handlers.LegacyGet(d))
		r.With(d.Write()).Post("/removeCloudShorthands", handlers.LegacyDelete(d))
	})
}
