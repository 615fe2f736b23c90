package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/inbox/internal/httpserver/deps"
)

type indexResponse struct {
	Name      string            `json:"name"`
	Version   string            `json:"version"`
	Commit    string            `json:"commit,omitempty"`
	BuildDate string            `json:"build_date,omitempty"`
	GoVersion string            `json:"go_version,omitempty"`
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Endpoints map[string]string `json:"endpoints"`
}

var endpoints = map[string]string{
	"GET /health":              "Health check",
	"GET /records":             "Get paginated shorthands",
	"GET /records/{id}":        "Get single shorthand",
	"POST /records":            "Create new shorthand",
	"DELETE /records":          "Delete multiple shorthands",
	"GET /search":              "Search shorthands",
	"GET /api/health":          "Health check",
	"GET /api/shorthands":      "Get paginated shorthands",
	"GET /api/shorthands/{id}": "Get single shorthand",
	"POST /api/shorthands":     "Create new shorthand",
	"DELETE /api/shorthands":   "Delete multiple shorthands",
	"GET /api/search":          "Search shorthands",

	"POST /apis/siyuan/inbox/getCloudShorthands":    "SiYuan compatible - Get shorthands",
	"POST /apis/siyuan/inbox/getCloudShorthand":     "SiYuan compatible - Get single shorthand",
	"POST /apis/siyuan/inbox/removeCloudShorthands": "SiYuan compatible - Delete shorthands",
}

// Index describes the service and lists its endpoints.
func Index(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		_ = json.NewEncoder(w).Encode(indexResponse{
			Name:      "inbox",
			Version:   d.Version,
			Commit:    d.Commit,
			BuildDate: d.BuildDate,
			GoVersion: d.GoVersion,
			Status:    "running",
			Timestamp: d.Now().UTC().Format(time.RFC3339),
			Endpoints: endpoints,
		})
	}
}
