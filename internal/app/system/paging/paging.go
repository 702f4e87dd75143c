// internal/app/system/paging/paging.go

// Package paging implements offset pagination for report listings.
package paging

import (
	"net/http"
	"strconv"
)

// DefaultLimit is the page size used when the caller supplies none.
const DefaultLimit = 20

// MaxLimit caps the page size a caller may request.
const MaxLimit = 100

// Meta describes one page of a listing.
type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// Clamp normalizes a requested page and limit: page is at least 1, limit
// falls back to DefaultLimit and never exceeds MaxLimit.
func Clamp(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}

// NewMeta computes page metadata for a total. TotalPages is the ceiling of
// total/limit; an empty result has zero pages.
func NewMeta(page, limit int, total int64) Meta {
	pages := int((total + int64(limit) - 1) / int64(limit))
	return Meta{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: pages,
	}
}

// Window returns the skip/limit pair for the page.
func Window(page, limit int) (skip, lim int64) {
	return int64(page-1) * int64(limit), int64(limit)
}

// Parse extracts page and limit query parameters from a request, clamped
// to valid values.
func Parse(r *http.Request) (page, limit int) {
	page = 1
	limit = DefaultLimit
	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			page = n
		}
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	return Clamp(page, limit)
}
