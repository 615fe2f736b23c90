package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/MrSnakeDoc/inbox/internal/domain"
	"github.com/MrSnakeDoc/inbox/internal/httpserver/deps"
)

// The legacy endpoints keep older inbox clients working. They only reshape
// the request (POST body or query string) and then call the same code paths
// as the native routes.

// LegacyList serves POST /apis/siyuan/inbox/getCloudShorthands with {"p": n}.
// The page falls back to ?page= when the body is not JSON and to 1 when absent.
func LegacyList(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		page := 0
		if body, ok := legacyBody(r); ok {
			page = legacyInt(body["p"])
			if page == 0 {
				page = legacyInt(body["page"])
			}
		} else if p, err := strconv.Atoi(q.Get("page")); err == nil {
			page = p
		}
		if page == 0 {
			page = 1
		}

		limit := d.DefaultPageSize
		if raw := q.Get("limit"); raw != "" {
			l, err := strconv.Atoi(raw)
			if err != nil {
				l = -1
			}
			limit = l
		}

		pr := domain.PageRequest{Page: page, Limit: limit}
		if err := pr.Validate(); err != nil {
			writeErr(w, r, d, err)
			return
		}
		listPage(w, r, d, pr)
	}
}

// LegacyGet serves POST /apis/siyuan/inbox/getCloudShorthand with {"id": "..."},
// falling back to ?id= when the body is not JSON.
func LegacyGet(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := ""
		if body, ok := legacyBody(r); ok {
			id, _ = body["id"].(string)
		} else {
			id = r.URL.Query().Get("id")
		}
		getByID(w, r, d, strings.TrimSpace(id))
	}
}

// LegacyDelete serves POST /apis/siyuan/inbox/removeCloudShorthands with {"ids": [...]}.
func LegacyDelete(d deps.Deps) http.HandlerFunc {
	return DeleteRecords(d)
}

// legacyBody decodes a JSON object body. ok is false when the body is empty
// or not a JSON object.
func legacyBody(r *http.Request) (map[string]any, bool) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil, false
	}
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil || body == nil {
		return nil, false
	}
	return body, true
}

// legacyInt reads a JSON number or numeric string, truncating fractions.
// Anything else is 0.
func legacyInt(v any) int {
	switch n := v.(type) {
	case float64:
		switch {
		case math.IsNaN(n):
			return 0
		case n >= math.MaxInt:
			return math.MaxInt
		case n <= math.MinInt:
			return math.MinInt
		}
		return int(n)
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0
		}
		return i
	}
	return 0
}
