package verifier

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	verifierPrometheusMetrics sync.Once

	checks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "verushash",
			Subsystem: "verifier",
			Name:      "checks_total",
			Help:      "Number of submitted solutions checked, by outcome",
		},
		[]string{"outcome"})
	cacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "verushash",
			Subsystem: "verifier",
			Name:      "cache_hits_total",
			Help:      "Number of digests served from the cache",
		})

	checkAccepted     = checks.WithLabelValues("accepted")
	checkTargetNotMet = checks.WithLabelValues("target_not_met")
	checkDuplicate    = checks.WithLabelValues("duplicate")
)

func registerMetrics() {
	verifierPrometheusMetrics.Do(func() {
		prometheus.MustRegister(checks)
		prometheus.MustRegister(cacheHits)
	})
}
