package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all clustering metrics
type Registry struct {
	// Run metrics
	RunsTotal     *prometheus.CounterVec
	RunsInFlight  prometheus.Gauge
	StageDuration *prometheus.HistogramVec
	GraphNodes    prometheus.Gauge
	GraphEdges    prometheus.Gauge

	// Growth metrics
	SeedsGrown  prometheus.Counter
	GrowthSteps prometheus.Histogram
	Candidates  prometheus.Counter

	// Merge and filter metrics
	MergeDiscards    *prometheus.CounterVec
	FilterDiscards   *prometheus.CounterVec
	ClustersAccepted prometheus.Counter
	ClusterSize      prometheus.Histogram

	// Ingest metrics
	IngestLines *prometheus.CounterVec

	registry *prometheus.Registry
	mu       sync.RWMutex
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
	}

	r.initRunMetrics()
	r.initGrowthMetrics()
	r.initFilterMetrics()
	r.initIngestMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
