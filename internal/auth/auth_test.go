package auth

import (
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "s3cret-token"

func request(target string, headers map[string]string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range headers {
		r.Header.Set(k, v)
	}
	return r
}

func TestAuthorize(t *testing.T) {
	a := New(secret, []string{"*"})

	tests := []struct {
		name    string
		target  string
		headers map[string]string
		ok      bool
		channel string
		reason  string
	}{
		{
			name:    "bearer",
			target:  "/records",
			headers: map[string]string{"Authorization": "Bearer " + secret},
			ok:      true,
			channel: ChannelBearer,
		},
		{
			name:    "api key",
			target:  "/records",
			headers: map[string]string{"X-API-Key": secret},
			ok:      true,
			channel: ChannelAPIKey,
		},
		{
			name:    "query token",
			target:  "/records?token=" + secret,
			ok:      true,
			channel: ChannelQuery,
		},
		{
			name:    "wrong bearer",
			target:  "/records",
			headers: map[string]string{"Authorization": "Bearer nope"},
			channel: ChannelBearer,
			reason:  ReasonInvalidToken,
		},
		{
			name:    "malformed header",
			target:  "/records",
			headers: map[string]string{"Authorization": "Basic " + secret},
			channel: ChannelBearer,
			reason:  ReasonMalformedHeader,
		},
		{
			name:    "lowercase scheme is malformed",
			target:  "/records",
			headers: map[string]string{"Authorization": "bearer " + secret},
			channel: ChannelBearer,
			reason:  ReasonMalformedHeader,
		},
		{
			name:    "extra spaces after scheme",
			target:  "/records",
			headers: map[string]string{"Authorization": "Bearer    " + secret},
			channel: ChannelBearer,
			reason:  ReasonInvalidToken,
		},
		{
			name:    "trailing space after token",
			target:  "/records",
			headers: map[string]string{"Authorization": "Bearer " + secret + " "},
			channel: ChannelBearer,
			reason:  ReasonInvalidToken,
		},
		{
			name:    "wrong api key",
			target:  "/records",
			headers: map[string]string{"X-API-Key": "nope"},
			channel: ChannelAPIKey,
			reason:  ReasonInvalidAPIKey,
		},
		{
			name:    "wrong query token",
			target:  "/records?token=nope",
			channel: ChannelQuery,
			reason:  ReasonInvalidToken,
		},
		{
			name:   "no credentials",
			target: "/records",
			reason: ReasonNoCredentials,
		},
		{
			name:    "valid api key after a wrong bearer",
			target:  "/records",
			headers: map[string]string{"Authorization": "Bearer nope", "X-API-Key": secret},
			ok:      true,
			channel: ChannelAPIKey,
		},
		{
			name:    "wrong on every channel reports the first rejection",
			target:  "/records?token=nope",
			headers: map[string]string{"Authorization": "Bearer nope", "X-API-Key": "nope"},
			channel: ChannelBearer,
			reason:  ReasonInvalidToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := a.Authorize(request(tt.target, tt.headers))
			assert.Equal(t, tt.ok, res.OK)
			assert.Equal(t, tt.channel, res.Channel)
			assert.Equal(t, tt.reason, res.Reason)
		})
	}
}

func TestOpenMode(t *testing.T) {
	a := New("", nil)
	require.True(t, a.OpenMode())

	res := a.Authorize(request("/records", nil))
	assert.True(t, res.OK)
	assert.Equal(t, ChannelOpen, res.Channel)

	// Even garbage credentials pass.
	res = a.Authorize(request("/records", map[string]string{"Authorization": "junk"}))
	assert.True(t, res.OK)
}

func TestOrigin(t *testing.T) {
	a := New(secret, []string{"https://app.example.com", " https://other.example "})

	tests := []struct {
		name   string
		origin string
		ok     bool
	}{
		{"allowed", "https://app.example.com", true},
		{"second entry trimmed from config", "https://other.example", true},
		{"case must match", "https://APP.example.com", false},
		{"trailing slash must match", "https://app.example.com/", false},
		{"absent origin", "", true},
		{"foreign", "https://evil.example", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := map[string]string{"Authorization": "Bearer " + secret}
			if tt.origin != "" {
				headers["Origin"] = tt.origin
			}
			res := a.Authorize(request("/records", headers))
			assert.Equal(t, tt.ok, res.OK)
			if !tt.ok {
				assert.Equal(t, ReasonOriginNotAllowed, res.Reason)
			}
		})
	}
}

func TestOriginCheckedInOpenMode(t *testing.T) {
	a := New("", []string{"https://app.example.com"})
	res := a.Authorize(request("/records", map[string]string{"Origin": "https://evil.example"}))
	assert.False(t, res.OK)
	assert.Equal(t, ReasonOriginNotAllowed, res.Reason)
}

func TestWildcardOrigin(t *testing.T) {
	a := New(secret, []string{"https://app.example.com", "*"})
	assert.True(t, a.OriginAllowed("https://anything.example"))
}

func TestCustomStrategyOrder(t *testing.T) {
	a := New(secret, nil, QueryStrategy{})
	res := a.Authorize(request("/records", map[string]string{"Authorization": "Bearer " + secret}))
	assert.False(t, res.OK, "bearer channel is disabled")
	assert.Equal(t, ReasonNoCredentials, res.Reason)
}

func TestGenerateToken(t *testing.T) {
	tok, err := GenerateToken()
	require.NoError(t, err)
	assert.Len(t, tok, 64)
	_, err = hex.DecodeString(tok)
	assert.NoError(t, err)

	other, err := GenerateToken()
	require.NoError(t, err)
	assert.NotEqual(t, tok, other)
}
