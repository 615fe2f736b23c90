package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/inbox/internal/httpserver/deps"
	"github.com/MrSnakeDoc/inbox/internal/httpserver/respond"
	"github.com/MrSnakeDoc/inbox/internal/logger"
)

type databaseStatus struct {
	Connected       bool   `json:"connected"`
	ShorthandsCount *int64 `json:"shorthandsCount,omitempty"`
}

type healthResponse struct {
	Status        string         `json:"status"`
	Timestamp     string         `json:"timestamp"`
	Database      databaseStatus `json:"database"`
	UptimeSeconds float64        `json:"uptime_seconds"`
	Version       string         `json:"version,omitempty"`
}

// healthTimeout bounds the store probe independently of the request deadline.
const healthTimeout = 2 * time.Second

// Health reports whether the record store answers. It needs no credentials.
func Health(d deps.Deps) http.HandlerFunc {
	start := d.StartTime
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		resp := healthResponse{
			Status:        "healthy",
			Timestamp:     d.Now().UTC().Format(time.RFC3339Nano),
			UptimeSeconds: time.Since(start).Seconds(),
			Version:       d.Version,
		}

		count, err := d.Records.Count(ctx)
		if err != nil {
			d.Logger.Error("health check failed", logger.Error(err))
			resp.Status = "unhealthy"
			respond.JSON(w, http.StatusServiceUnavailable, respond.Envelope{
				Code: respond.CodeInternal,
				Msg:  "Service is unhealthy",
				Data: resp,
			})
			return
		}

		resp.Database = databaseStatus{Connected: true, ShorthandsCount: &count}
		respond.OK(w, "Service is healthy", resp)
	}
}
