package mw

import (
	"net/http"

	"github.com/MrSnakeDoc/inbox/internal/httpserver/respond"
	"github.com/MrSnakeDoc/inbox/internal/logger"
	"github.com/MrSnakeDoc/inbox/internal/utils"
)

// AllowOnlyCIDRS allows only specific IPs/CIDRs. If the list is empty, it does NOT filter (passthrough).
// trustProxy should be true when running behind a trusted reverse proxy/tunnel.
func AllowOnlyCIDRS(allowed []string, trustProxy bool, log logger.Logger) func(http.Handler) http.Handler {
	m := utils.NewIPMatcher(allowed)
	if m.IsEmpty() {
		return func(next http.Handler) http.Handler { return next }
	}

	log.Debugf("AllowOnlyCIDRS: initialized with %d rules, trustProxy=%v", len(allowed), trustProxy)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := utils.ClientIP(r, trustProxy)
			if !m.Allow(ip) {
				log.Debugf("AllowOnlyCIDRS: IP %s rejected on %s", ip, r.URL.Path)
				respond.Fail(w, http.StatusForbidden, respond.CodeUnauthorized, "IP not allowed")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
