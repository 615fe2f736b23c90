package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/MrSnakeDoc/inbox/internal/domain"
	"github.com/MrSnakeDoc/inbox/internal/httpserver/respond"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// fieldErrors maps a JSON field to the message returned when it has the wrong type.
var fieldErrors = map[string]string{
	"content_md":  "content_md is required and must be a string",
	"title":       "title is required and must be a string",
	"url":         "url must be a valid URL",
	"from_source": "from_source must be a number",
	"ids":         "ids array is required",
	"id":          "ID is required",
}

// decodeJSON reads the request body into v. Wrong field types become
// validation errors, anything else unreadable is respond.ErrInvalidRequest.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer body.Close()

	err := json.NewDecoder(body).Decode(v)
	if err == nil {
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		if msg, ok := fieldErrors[typeErr.Field]; ok {
			return domain.Invalid(msg)
		}
	}
	if errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: empty body", respond.ErrInvalidRequest)
	}
	return fmt.Errorf("%w: %v", respond.ErrInvalidRequest, err)
}

// pageFromQuery reads ?page= and ?limit=, defaulting to 1 and defLimit.
// Values that are present but not integers are rejected.
func pageFromQuery(q url.Values, defLimit int) (domain.PageRequest, error) {
	page, err := intParam(q, "page", 1)
	if err != nil {
		return domain.PageRequest{}, domain.Invalid("page must be a positive integer")
	}
	limit, err := intParam(q, "limit", defLimit)
	if err != nil {
		return domain.PageRequest{}, domain.Invalid("limit must be between 1 and 100")
	}

	pr := domain.PageRequest{Page: page, Limit: limit}
	return pr, pr.Validate()
}

func intParam(q url.Values, key string, def int) (int, error) {
	raw := q.Get(key)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
