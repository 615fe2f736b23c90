package domain

import (
	"errors"
	"math"
	"net/url"
	"strings"
)

const (
	// MaxPageSize is the largest accepted page limit.
	MaxPageSize = 100
	// DefaultPageSize is used when the caller does not send a limit.
	DefaultPageSize = 20
)

// ValidationError reports a request rejected before reaching the store.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Invalid builds a *ValidationError.
func Invalid(msg string) error { return &ValidationError{Msg: msg} }

// IsValidation reports whether err (or anything it wraps) is a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// PageRequest selects a 1-based page of at most Limit records.
type PageRequest struct {
	Page  int
	Limit int
}

// Offset is the number of records skipped before this page. It saturates at
// math.MaxInt, so a page far past the end is still an empty page.
func (p PageRequest) Offset() int {
	if p.Page < 1 || p.Limit < 1 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.Limit {
		return math.MaxInt
	}
	return (p.Page - 1) * p.Limit
}

// Validate enforces page >= 1 and limit in [1, MaxPageSize].
func (p PageRequest) Validate() error {
	if p.Page < 1 {
		return Invalid("page must be a positive integer")
	}
	if p.Limit < 1 || p.Limit > MaxPageSize {
		return Invalid("limit must be between 1 and 100")
	}
	return nil
}

// NewRecord carries the caller supplied fields of a create request.
type NewRecord struct {
	Markdown string
	Title    string
	URL      string
	Source   int
}

// Validate checks required fields and the URL shape.
func (n NewRecord) Validate() error {
	if n.Markdown == "" {
		return Invalid("content_md is required and must be a string")
	}
	if strings.TrimSpace(n.Title) == "" {
		return Invalid("title is required and must be a string")
	}
	if n.URL != "" && !IsValidURL(n.URL) {
		return Invalid("url must be a valid URL")
	}
	return nil
}

// IsValidURL accepts absolute URLs with a scheme and a host or opaque part.
func IsValidURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" {
		return false
	}
	return u.Host != "" || u.Opaque != ""
}

// SearchTerm trims term and rejects it when nothing is left.
func SearchTerm(term string) (string, error) {
	t := strings.TrimSpace(term)
	if t == "" {
		return "", Invalid("Search term (q) is required")
	}
	return t, nil
}
