package pow

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	searchPrometheusMetrics sync.Once

	searchHashes = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "verushash",
			Subsystem: "pow",
			Name:      "search_hashes_total",
			Help:      "Number of nonces hashed by searches",
		})
	searchResults = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "verushash",
			Subsystem: "pow",
			Name:      "search_results_total",
			Help:      "Number of finished searches, by outcome",
		},
		[]string{"outcome"})

	searchResultFound     = searchResults.WithLabelValues("found")
	searchResultCancelled = searchResults.WithLabelValues("cancelled")
	searchResultExhausted = searchResults.WithLabelValues("exhausted")
)

func registerMetrics() {
	searchPrometheusMetrics.Do(func() {
		prometheus.MustRegister(searchHashes)
		prometheus.MustRegister(searchResults)
	})
}
