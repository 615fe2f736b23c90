// Package auth decides whether a request may reach the record endpoints.
//
// A request is authorized when its Origin is allowed and one credential
// channel (bearer header, X-API-Key header, token query parameter) carries
// the shared secret. Channels are tried in order and the first success wins.
// With no secret configured the service runs in open mode.
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"slices"
	"strings"
)

// Failure reasons, returned verbatim to clients.
const (
	ReasonMissingHeader    = "Missing Authorization header"
	ReasonMalformedHeader  = "Invalid Authorization header format. Expected: Bearer <token>"
	ReasonInvalidToken     = "Invalid or expired token"
	ReasonMissingAPIKey    = "Missing X-API-Key header"
	ReasonInvalidAPIKey    = "Invalid API key"
	ReasonMissingQuery     = "Missing token query parameter"
	ReasonOriginNotAllowed = "Origin not allowed"
	ReasonNoCredentials    = "Authentication required. Provide Bearer token, X-API-Key header, or token query parameter."
)

// Channel names reported in Result.
const (
	ChannelOpen   = "open"
	ChannelBearer = "bearer"
	ChannelAPIKey = "api-key"
	ChannelQuery  = "query"
)

// Result is the outcome of Authorize.
type Result struct {
	OK      bool
	Channel string // channel that succeeded, or the one that rejected the credential
	Reason  string // empty when OK
}

// Strategy checks one credential channel. present is false when the request
// does not use the channel at all.
type Strategy interface {
	Name() string
	Check(r *http.Request, secret string) (present bool, ok bool, reason string)
}

// Authorizer runs the origin check and then the strategies in order.
type Authorizer struct {
	secret     string
	origins    []string
	anyOrigin  bool
	strategies []Strategy
}

// New builds an Authorizer. An empty secret enables open mode; an origins
// list that is empty or contains "*" allows any Origin.
func New(secret string, origins []string, strategies ...Strategy) *Authorizer {
	if len(strategies) == 0 {
		strategies = DefaultStrategies()
	}
	a := &Authorizer{secret: secret, strategies: strategies}
	for _, o := range origins {
		o = strings.TrimSpace(o)
		if o == "*" {
			a.anyOrigin = true
			continue
		}
		if o != "" {
			a.origins = append(a.origins, o)
		}
	}
	if len(a.origins) == 0 {
		a.anyOrigin = true
	}
	return a
}

// DefaultStrategies is bearer, then X-API-Key, then ?token=.
func DefaultStrategies() []Strategy {
	return []Strategy{BearerStrategy{}, APIKeyStrategy{}, QueryStrategy{}}
}

// OpenMode reports whether every request is accepted without credentials.
func (a *Authorizer) OpenMode() bool { return a.secret == "" }

// OriginAllowed reports whether origin may call the API. The match is exact,
// as browsers send the serialized origin. Requests without an Origin header
// (non-browser clients) are allowed.
func (a *Authorizer) OriginAllowed(origin string) bool {
	if origin == "" || a.anyOrigin {
		return true
	}
	return slices.Contains(a.origins, origin)
}

// Authorize evaluates r. The first channel accepting the secret wins. When
// none does, the reason of the first channel that carried a wrong credential
// is reported.
func (a *Authorizer) Authorize(r *http.Request) Result {
	if !a.OriginAllowed(r.Header.Get("Origin")) {
		return Result{Reason: ReasonOriginNotAllowed}
	}
	if a.OpenMode() {
		return Result{OK: true, Channel: ChannelOpen}
	}

	var rejected *Result
	for _, s := range a.strategies {
		present, ok, reason := s.Check(r, a.secret)
		if ok {
			return Result{OK: true, Channel: s.Name()}
		}
		if present && rejected == nil {
			rejected = &Result{Channel: s.Name(), Reason: reason}
		}
	}
	if rejected != nil {
		return *rejected
	}
	return Result{Reason: ReasonNoCredentials}
}

// GenerateToken returns 32 random bytes, hex encoded, for use as a secret.
func GenerateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func equal(given, secret string) bool {
	return subtle.ConstantTimeCompare([]byte(given), []byte(secret)) == 1
}
