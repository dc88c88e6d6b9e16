package server

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the Prometheus instruments the expansion service records.
type Metrics struct {
	Expansions    *prometheus.CounterVec
	ExpandSeconds prometheus.Histogram
	GridSize      prometheus.Histogram
}

// NewMetrics creates the service metrics and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Expansions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "searchgrid_expansions_total",
				Help: "Total number of grid expansions",
			},
			[]string{"outcome"},
		),
		ExpandSeconds: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name: "searchgrid_expand_duration_seconds",
				Help: "Duration of grid expansions",
			},
		),
		GridSize: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "searchgrid_expansion_candidates",
				Help:    "Candidate count per expansion",
				Buckets: prometheus.ExponentialBuckets(1, 4, 10),
			},
		),
	}
	reg.MustRegister(m.Expansions, m.ExpandSeconds, m.GridSize)
	return m
}
