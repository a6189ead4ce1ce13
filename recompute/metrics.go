package recompute

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the engine's prometheus instruments.
type Metrics struct {
	recomputeDuration *prometheus.HistogramVec
	recomputesTotal   prometheus.Counter
	recomputesSkipped prometheus.Counter
	repairWrites      prometheus.Counter
}

// NewMetrics creates and registers the engine's instruments.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		recomputeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "tradestate",
			Subsystem: "recompute",
			Name:      "duration_seconds",
			Help:      "Time spent rebuilding the market graph, liquidity aggregation, and repairing trade options.",
			Buckets:   prometheus.DefBuckets,
		}, nil),
		recomputesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tradestate",
			Subsystem: "recompute",
			Name:      "total",
			Help:      "Number of full recomputations performed.",
		}),
		recomputesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tradestate",
			Subsystem: "recompute",
			Name:      "skipped_total",
			Help:      "Number of snapshots skipped because their version was already applied.",
		}),
		repairWrites: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tradestate",
			Subsystem: "recompute",
			Name:      "repair_writes_total",
			Help:      "Number of recomputations whose repair pass changed the persisted trade options.",
		}),
	}

	reg.MustRegister(m.recomputeDuration, m.recomputesTotal, m.recomputesSkipped, m.repairWrites)
	return m
}
