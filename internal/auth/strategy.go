package auth

import (
	"net/http"
	"strings"
)

const bearerPrefix = "Bearer "

// BearerStrategy reads "Authorization: Bearer <token>".
type BearerStrategy struct{}

func (BearerStrategy) Name() string { return ChannelBearer }

func (BearerStrategy) Check(r *http.Request, secret string) (bool, bool, string) {
	h := r.Header.Get("Authorization")
	if h == "" {
		return false, false, ReasonMissingHeader
	}
	if !strings.HasPrefix(h, bearerPrefix) {
		return true, false, ReasonMalformedHeader
	}
	if !equal(h[len(bearerPrefix):], secret) {
		return true, false, ReasonInvalidToken
	}
	return true, true, ""
}

// APIKeyStrategy reads the X-API-Key header.
type APIKeyStrategy struct{}

func (APIKeyStrategy) Name() string { return ChannelAPIKey }

func (APIKeyStrategy) Check(r *http.Request, secret string) (bool, bool, string) {
	key := r.Header.Get("X-API-Key")
	if key == "" {
		return false, false, ReasonMissingAPIKey
	}
	if !equal(key, secret) {
		return true, false, ReasonInvalidAPIKey
	}
	return true, true, ""
}

// QueryStrategy reads ?token=. Tokens sent this way end up in access logs and
// browser history, so prefer the header channels.
type QueryStrategy struct{}

func (QueryStrategy) Name() string { return ChannelQuery }

func (QueryStrategy) Check(r *http.Request, secret string) (bool, bool, string) {
	token := r.URL.Query().Get("token")
	if token == "" {
		return false, false, ReasonMissingQuery
	}
	if !equal(token, secret) {
		return true, false, ReasonInvalidToken
	}
	return true, true, ""
}
