package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initGrowthMetrics() {
	r.SeedsGrown = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "cl1_seeds_grown_total",
			Help: "Total number of seeds grown into candidate sets",
		},
	)

	r.GrowthSteps = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cl1_growth_steps",
			Help:    "Number of accepted add or remove moves per grown seed",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100, 500},
		},
	)

	r.Candidates = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "cl1_candidates_total",
			Help: "Total number of candidate sets handed to merging",
		},
	)
}
