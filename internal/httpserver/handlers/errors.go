package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/inbox/internal/httpserver/deps"
	"github.com/MrSnakeDoc/inbox/internal/httpserver/respond"
)

func writeErr(w http.ResponseWriter, r *http.Request, d deps.Deps, err error) {
	respond.Error(w, r, d.Logger, err)
}

// NotFound answers unknown routes and unsupported methods.
func NotFound() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respond.Fail(w, http.StatusNotFound, respond.CodeNotFound, "API endpoint not found")
	}
}
