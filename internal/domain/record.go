// Package domain holds the record model, paging and request validation.
package domain

import "time"

// CreatedLayout is the human readable timestamp format expected by inbox clients.
const CreatedLayout = "2006-01-02 15:04"

// Record is a single stored inbox item ("shorthand").
//
// Records are immutable once created: HTML and Description are derived
// from Markdown at creation time and never recomputed.
type Record struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is a time-ordered UUID (v7) assigned at creation.
	ID string

	// CreatedAt is the creation time in epoch milliseconds.
	CreatedAt int64

	// ─────────────────────────────
	// Content
	// ─────────────────────────────

	// Title is the required, non-empty title.
	Title string

	// Markdown is the raw source of truth.
	Markdown string

	// HTML is Markdown rendered and sanitized.
	HTML string

	// Description is a plain-text summary derived from HTML.
	Description string

	// ─────────────────────────────
	// Provenance
	// ─────────────────────────────

	// Source is a free-form origin tag (0 by default).
	Source int

	// URL is the optional original location of the content.
	URL string
}

// Created returns CreatedAt as a time.Time.
func (r *Record) Created() time.Time {
	return time.UnixMilli(r.CreatedAt)
}

// Page is one window of an ordered record listing.
type Page struct {
	Records      []*Record
	TotalRecords int64
	TotalPages   int64
}

// NewPage computes the page count for total records split by limit.
func NewPage(records []*Record, total int64, limit int) *Page {
	if records == nil {
		records = []*Record{}
	}
	pages := int64(0)
	if limit > 0 {
		pages = (total + int64(limit) - 1) / int64(limit)
	}
	return &Page{Records: records, TotalRecords: total, TotalPages: pages}
}
