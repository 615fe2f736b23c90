package mw

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/MrSnakeDoc/inbox/internal/auth"
	"github.com/MrSnakeDoc/inbox/internal/httpserver/respond"
	"github.com/MrSnakeDoc/inbox/internal/logger"
)

// RequireAuth rejects requests the Authorizer refuses with 401 and the
// channel-specific reason.
func RequireAuth(a *auth.Authorizer, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res := a.Authorize(r)
			if !res.OK {
				log.Warn("request rejected",
					logger.String("path", r.URL.Path),
					logger.String("channel", res.Channel),
					logger.String("reason", res.Reason),
					logger.String("request_id", middleware.GetReqID(r.Context())))
				respond.Fail(w, http.StatusUnauthorized, respond.CodeUnauthorized, res.Reason)
				return
			}

			if res.Channel == auth.ChannelOpen {
				log.Debug("open mode: request accepted without credentials",
					logger.String("path", r.URL.Path))
			}
			next.ServeHTTP(w, r)
		})
	}
}
