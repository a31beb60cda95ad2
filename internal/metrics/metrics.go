// Package metrics defines the service's prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SearchesTotal counts search requests by outcome (ok, invalid, not_ready, error).
	SearchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "message_search",
			Name:      "searches_total",
			Help:      "Search requests served, labelled by outcome.",
		},
		[]string{"outcome"},
	)

	// MessagesLoaded reports the size of the in-memory cache after startup.
	MessagesLoaded = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "message_search",
			Name:      "messages_loaded",
			Help:      "Messages held in the in-memory cache.",
		},
	)

	// UpstreamFetchRetriesTotal counts retried upstream fetch attempts.
	UpstreamFetchRetriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "message_search",
			Name:      "upstream_fetch_retries_total",
			Help:      "Upstream fetch attempts that were retried after a transport failure.",
		},
	)
)
