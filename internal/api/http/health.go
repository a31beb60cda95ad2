package http

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/november7/message-search/internal/api/respond"
)

// CacheState is the slice of the store the health endpoints need.
type CacheState interface {
	Ready() bool
	Len() int
}

// HealthHandler handles health and readiness endpoints.
type HealthHandler struct {
	cache CacheState
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(cache CacheState) *HealthHandler {
	return &HealthHandler{cache: cache}
}

// lastLoadErr keeps the most recent startup load failure details.
var lastLoadErr atomic.Value // string

func init() {
	lastLoadErr.Store("")
}

// SetLoadError records why the startup load failed; shown on /api/health so
// operators can tell an unready cache from a healthy empty one.
func SetLoadError(err error) {
	if err == nil {
		lastLoadErr.Store("")
		return
	}
	lastLoadErr.Store(err.Error())
}

// CheckHealth reports process liveness plus cache state. Always 200 once the
// process accepts traffic; readiness is a field, not the status code.
func (h *HealthHandler) CheckHealth(w http.ResponseWriter, r *http.Request) {
	body := map[string]interface{}{
		"status":    "healthy",
		"ready":     h.cache.Ready(),
		"messages":  h.cache.Len(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	if msg, _ := lastLoadErr.Load().(string); msg != "" {
		body["load_error"] = msg
	}
	respond.WriteJSON(w, http.StatusOK, body)
}

// CheckReady answers 200 only after the cache load succeeded, so orchestrators
// hold traffic back from an unready instance.
func (h *HealthHandler) CheckReady(w http.ResponseWriter, r *http.Request) {
	if !h.cache.Ready() {
		respond.WriteServiceUnavailable(w, "message cache not loaded")
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ready",
		"messages": h.cache.Len(),
	})
}
