package mw

import (
	"net/http"

	"github.com/rs/cors"
)

// CORS answers preflight requests and decorates responses for browser
// clients. origins uses the same list as the Authorizer ("*" => any).
func CORS(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins:       origins,
		AllowedMethods:       []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:       []string{"Content-Type", "Authorization", "X-API-Key"},
		MaxAge:               86400,
		OptionsSuccessStatus: http.StatusOK,
	})
	return c.Handler
}

// Preflight short-circuits every OPTIONS request with 200 once the CORS
// middleware has set its headers, whatever the path.
func Preflight(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
