// Package search implements filtering and pagination over the message store.
package search

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/november7/message-search/internal/model"
	"github.com/november7/message-search/internal/store"
)

// Service answers search requests from the store's immutable snapshot.
// It never mutates the store; identical requests against an unchanged store
// yield identical results.
type Service struct {
	store       *store.Store
	maxPageSize int
	log         zerolog.Logger
}

// New creates a search service. maxPageSize bounds page_size; larger values
// are clamped, not rejected.
func New(st *store.Store, maxPageSize int, log zerolog.Logger) *Service {
	return &Service{store: st, maxPageSize: maxPageSize, log: log}
}

// Search filters the cached messages by case-insensitive substring match and
// returns the requested page. An empty query matches every message.
//
// page and pageSize must be >= 1; a page past the last match returns an empty
// result with accurate metadata rather than an error. The scan is linear over
// the whole snapshot on every request, the documented tradeoff of holding the
// collection as a flat cache instead of an index.
func (s *Service) Search(query string, page, pageSize int) (*model.SearchPage, error) {
	if page < 1 {
		return nil, fmt.Errorf("%w: page must be >= 1, got %d", model.ErrInvalidParameter, page)
	}
	if pageSize < 1 {
		return nil, fmt.Errorf("%w: page_size must be >= 1, got %d", model.ErrInvalidParameter, pageSize)
	}
	if pageSize > s.maxPageSize {
		pageSize = s.maxPageSize
	}

	msgs, err := s.store.All()
	if err != nil {
		return nil, err
	}

	folded := strings.ToLower(query)
	var matches []model.Message
	for _, m := range msgs {
		if matchesQuery(&m, folded) {
			matches = append(matches, m)
		}
	}

	total := len(matches)
	totalPages := 0
	if total > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}

	start := (page - 1) * pageSize
	results := []model.Message{}
	if start < total {
		end := start + pageSize
		if end > total {
			end = total
		}
		results = matches[start:end]
	}

	s.log.Debug().
		Str("query", query).
		Int("page", page).
		Int("page_size", pageSize).
		Int("total", total).
		Msg("search served")

	return &model.SearchPage{
		Query:      query,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		Results:    results,
	}, nil
}

// matchesQuery reports whether any field value of the message contains the
// already case-folded query. The message text is always among the scanned
// values; other fields (sender and the like) match too, mirroring the
// upstream collection's search behavior.
func matchesQuery(m *model.Message, folded string) bool {
	if folded == "" {
		return true
	}
	for _, raw := range m.FieldValues() {
		if strings.Contains(strings.ToLower(fieldText(raw)), folded) {
			return true
		}
	}
	return false
}

// fieldText renders one raw JSON value as searchable text. Strings are
// unquoted; numbers, booleans and composites are searched in their JSON form.
func fieldText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
