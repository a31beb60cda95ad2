package http

import (
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires HTTP routes to handlers.
func NewRouter(searcher Searcher, cache CacheState, defaultPageSize int) *mux.Router {
	root := mux.NewRouter()
	root.Use(RequestID, Recover)

	searchHandler := NewSearchHandler(searcher, defaultPageSize)
	root.HandleFunc("/api/search", searchHandler.HandleSearch).Methods("GET")

	healthHandler := NewHealthHandler(cache)
	root.HandleFunc("/api/health", healthHandler.CheckHealth).Methods("GET")
	root.HandleFunc("/api/ready", healthHandler.CheckReady).Methods("GET")

	root.Handle("/metrics", promhttp.Handler()).Methods("GET")

	return root
}
