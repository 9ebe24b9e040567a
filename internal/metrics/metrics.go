// Package metrics holds the Prometheus collectors shared by shelfscout components.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "shelfscout"

// Catalog lookup metrics.
var (
	CatalogRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_requests_total",
			Help:      "Total number of catalog lookups",
		},
		[]string{"provider", "scope", "status"},
	)

	CatalogRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "catalog_request_duration_seconds",
			Help:      "Catalog lookup duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"provider"},
	)

	CatalogResults = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "catalog_results",
			Help:      "Number of books returned per successful lookup",
			Buckets:   []float64{0, 1, 5, 10, 20, 40},
		},
		[]string{"provider"},
	)
)

// Orchestrator metrics.
var (
	SearchOutcomesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_outcomes_total",
			Help:      "Published search outcomes by kind",
		},
		[]string{"kind"}, // "success" / "empty" / "error"
	)

	SearchStaleTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_stale_results_total",
			Help:      "Lookup results discarded because a newer request superseded them",
		},
	)

	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Open search sessions",
		},
	)

	ActiveStreams = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_streams",
			Help:      "Connected state stream clients",
		},
	)
)

func init() {
	prometheus.MustRegister(CatalogRequestsTotal)
	prometheus.MustRegister(CatalogRequestDuration)
	prometheus.MustRegister(CatalogResults)
	prometheus.MustRegister(SearchOutcomesTotal)
	prometheus.MustRegister(SearchStaleTotal)
	prometheus.MustRegister(ActiveSessions)
	prometheus.MustRegister(ActiveStreams)
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
