package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BalanceMetrics covers the rate refresh loop and balance mutations.
type BalanceMetrics struct {
	RefreshTotal    *prometheus.CounterVec
	RefreshDuration prometheus.Histogram
	MutationsTotal  *prometheus.CounterVec
}

// New registers the metrics on the given registerer. Tests pass a fresh
// prometheus.NewRegistry to avoid duplicate registration.
func New(reg prometheus.Registerer) *BalanceMetrics {
	factory := promauto.With(reg)

	return &BalanceMetrics{
		RefreshTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rate_refresh_total",
				Help: "Rate refresh outcomes (applied, degraded, empty)",
			},
			[]string{"result"},
		),

		RefreshDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "rate_refresh_duration_seconds",
				Help:    "Duration of rate refresh cycles",
				Buckets: prometheus.DefBuckets,
			},
		),

		MutationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "balance_mutations_total",
				Help: "Balance mutation requests by operation and result",
			},
			[]string{"op", "result"},
		),
	}
}
