package http

import (
	"fmt"
	"net/http"
	"strconv"
)

// SearchRequest represents the query parameters of GET /api/search
//
// Fields:
//
//	q         – optional, defaults to "" (matches every message)
//	page      – optional, 1-based, defaults to 1
//	page_size – optional, defaults to the configured default
//
// Range checks beyond integer parsing live in the search service so the
// clamping policy has a single owner.
type SearchRequest struct {
	Query    string
	Page     int
	PageSize int
}

// parseSearchRequest extracts and parses search parameters from the URL.
// Non-integer page or page_size values are reported as errors; absent values
// take the documented defaults.
func parseSearchRequest(r *http.Request, defaultPageSize int) (*SearchRequest, error) {
	q := r.URL.Query()

	req := &SearchRequest{
		Query:    q.Get("q"),
		Page:     1,
		PageSize: defaultPageSize,
	}

	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("page must be an integer, got %q", v)
		}
		req.Page = n
	}
	if v := q.Get("page_size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("page_size must be an integer, got %q", v)
		}
		req.PageSize = n
	}
	return req, nil
}
