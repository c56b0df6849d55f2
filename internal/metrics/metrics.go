package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// SearchesTotal counts search operations by op and outcome.
	SearchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ais",
			Name:      "searches_total",
			Help:      "Total number of search operations",
		},
		[]string{"op", "status"},
	)

	// SearchDuration observes search latency by op.
	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ais",
			Name:      "search_duration_seconds",
			Help:      "Search operation duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"op"},
	)

	// UnresolvedTermsTotal counts query terms that resolved to no vector.
	UnresolvedTermsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "ais",
			Name:      "unresolved_terms_total",
			Help:      "Total number of query terms that resolved to no vector",
		},
	)

	// ModelLoadsTotal counts model loads by variant and outcome.
	ModelLoadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ais",
			Name:      "model_loads_total",
			Help:      "Total number of embedding model loads",
		},
		[]string{"variant", "status"},
	)
)

var registerOnce sync.Once

// RegisterQueryMetrics registers the query engine metrics explicitly
// (no init()). Safe to call more than once.
func RegisterQueryMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(SearchesTotal)
		prometheus.MustRegister(SearchDuration)
		prometheus.MustRegister(UnresolvedTermsTotal)
		prometheus.MustRegister(ModelLoadsTotal)
	})
}
