package mw

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/inbox/internal/auth"
	"github.com/MrSnakeDoc/inbox/internal/logger"
)

var ok = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
})

type envelope struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

func serve(h http.Handler, r *http.Request) (*httptest.ResponseRecorder, envelope) {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	var env envelope
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	return rec, env
}

func TestRecover(t *testing.T) {
	h := Recover(logger.Nop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec, env := serve(h, httptest.NewRequest(http.MethodGet, "/records", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, 4, env.Code)
	assert.Equal(t, "Internal server error", env.Msg)
}

func TestRateLimit(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	h := RateLimit(RateLimitConfig{
		Burst:             2,
		RefillPerIPPerMin: 60,
		Now:               func() time.Time { return now },
	})(ok)

	req := func(ip string) *http.Request {
		r := httptest.NewRequest(http.MethodPost, "/records", nil)
		r.RemoteAddr = ip + ":4242"
		return r
	}

	for i := 0; i < 2; i++ {
		rec, _ := serve(h, req("203.0.113.7"))
		require.Equal(t, http.StatusNoContent, rec.Code)
	}

	rec, env := serve(h, req("203.0.113.7"))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, 1, env.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))

	// Other clients have their own bucket.
	rec, _ = serve(h, req("203.0.113.8"))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	// One token per second comes back.
	now = now.Add(time.Second)
	rec, _ = serve(h, req("203.0.113.7"))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRateLimitDisabled(t *testing.T) {
	h := RateLimit(RateLimitConfig{})(ok)
	for i := 0; i < 50; i++ {
		rec, _ := serve(h, httptest.NewRequest(http.MethodPost, "/records", nil))
		require.Equal(t, http.StatusNoContent, rec.Code)
	}
}

func TestAllowOnlyCIDRS(t *testing.T) {
	h := AllowOnlyCIDRS([]string{"10.0.0.0/8", "192.0.2.9"}, true, logger.Nop())(ok)

	tests := []struct {
		name   string
		remote string
		xff    string
		status int
	}{
		{"cidr match", "10.1.2.3:1000", "", http.StatusNoContent},
		{"exact ip", "192.0.2.9:1000", "", http.StatusNoContent},
		{"outside", "198.51.100.1:1000", "", http.StatusForbidden},
		{"forwarded client wins behind proxy", "127.0.0.1:1000", "10.9.9.9, 127.0.0.1", http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/health", nil)
			r.RemoteAddr = tt.remote
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			rec, _ := serve(h, r)
			assert.Equal(t, tt.status, rec.Code)
		})
	}

	open := AllowOnlyCIDRS(nil, false, logger.Nop())(ok)
	rec, _ := serve(open, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRequireAuth(t *testing.T) {
	h := RequireAuth(auth.New("s3cret", nil), logger.Nop())(ok)

	rec, env := serve(h, httptest.NewRequest(http.MethodGet, "/records", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, 2, env.Code)
	assert.Equal(t, auth.ReasonNoCredentials, env.Msg)

	r := httptest.NewRequest(http.MethodGet, "/records", nil)
	r.Header.Set("X-API-Key", "s3cret")
	rec, _ = serve(h, r)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestLogKeepsStatus(t *testing.T) {
	h := Log(logger.Nop(), false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("hi"))
	}))
	rec, _ := serve(h, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hi", rec.Body.String())
}
