package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initFilterMetrics() {
	r.MergeDiscards = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "cl1_merge_discards_total",
			Help: "Candidate sets dropped during merging",
		},
		[]string{"reason"},
	)

	r.FilterDiscards = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "cl1_filter_discards_total",
			Help: "Merged sets rejected by post-processing filters",
		},
		[]string{"reason"},
	)

	r.ClustersAccepted = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "cl1_clusters_accepted_total",
			Help: "Total number of clusters reported",
		},
	)

	r.ClusterSize = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cl1_cluster_size",
			Help:    "Member count of reported clusters",
			Buckets: []float64{2, 3, 5, 10, 20, 50, 100, 500},
		},
	)
}

func (r *Registry) initIngestMetrics() {
	r.IngestLines = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "cl1_ingest_lines_total",
			Help: "Input lines read, by outcome",
		},
		[]string{"result"},
	)
}
