package deps

import (
	"net/http"
	"time"

	"github.com/MrSnakeDoc/inbox/internal/auth"
	"github.com/MrSnakeDoc/inbox/internal/logger"
	"github.com/MrSnakeDoc/inbox/internal/store"
)

type Deps struct {
	Logger          logger.Logger
	StartTime       time.Time
	Version         string
	Commit          string
	BuildDate       string
	GoVersion       string
	TimeNow         func() time.Time                // for testing, defaults to time.Now
	Records         *store.Records                  // record store (backend + optional cache)
	Authorizer      *auth.Authorizer                // origin + credential checks
	DefaultPageSize int                             // limit used when a list/search request omits it
	CORSOrigins     []string                        // allowed Origin values, "*" => any
	HealthCIDRs     []string                        // IPs/CIDRs allowed on the health probe, empty => everyone
	TrustProxy      bool                            // true if running behind a trusted reverse proxy
	RateLimitBurst  int                             // write requests allowed in a burst per client IP, 0 => disabled
	RateLimitPerMin int                             // sustained write requests per client IP per minute
	WriteLimit      func(http.Handler) http.Handler // shared limiter for write routes, set by httpserver.New
}

// Now returns TimeNow() when set, time.Now() otherwise.
func (d Deps) Now() time.Time {
	if d.TimeNow != nil {
		return d.TimeNow()
	}
	return time.Now()
}

// Write returns the write limiter, or a passthrough when none is set.
func (d Deps) Write() func(http.Handler) http.Handler {
	if d.WriteLimit != nil {
		return d.WriteLimit
	}
	return func(next http.Handler) http.Handler { return next }
}
