package http

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/november7/message-search/internal/api/respond"
	"github.com/november7/message-search/internal/metrics"
	"github.com/november7/message-search/internal/model"
)

// Searcher is the slice of the search service this handler needs.
type Searcher interface {
	Search(query string, page, pageSize int) (*model.SearchPage, error)
}

// SearchHandler handles GET /api/search
type SearchHandler struct {
	searcher        Searcher
	defaultPageSize int
}

// NewSearchHandler instantiates the handler with dependencies.
func NewSearchHandler(searcher Searcher, defaultPageSize int) *SearchHandler {
	return &SearchHandler{searcher: searcher, defaultPageSize: defaultPageSize}
}

// HandleSearch processes incoming search requests.
func (h *SearchHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	req, err := parseSearchRequest(r, h.defaultPageSize)
	if err != nil {
		metrics.SearchesTotal.WithLabelValues("invalid").Inc()
		respond.WriteBadRequest(w, err.Error())
		return
	}

	page, err := h.searcher.Search(req.Query, req.Page, req.PageSize)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrInvalidParameter):
			metrics.SearchesTotal.WithLabelValues("invalid").Inc()
			respond.WriteBadRequest(w, err.Error())
		case errors.Is(err, model.ErrNotReady):
			metrics.SearchesTotal.WithLabelValues("not_ready").Inc()
			respond.WriteServiceUnavailable(w, "message cache not loaded")
		default:
			metrics.SearchesTotal.WithLabelValues("error").Inc()
			log.Error().Err(err).Str("query", req.Query).Msg("search failed")
			respond.WriteInternalError(w, "search failed")
		}
		return
	}

	metrics.SearchesTotal.WithLabelValues("ok").Inc()
	respond.WriteJSON(w, http.StatusOK, page)
}
