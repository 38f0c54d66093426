package metrics

import (
	"fmt"
	"io"
	"time"

	"github.com/prometheus/common/expfmt"
)

// Run status labels
const (
	StatusSuccess   = "success"
	StatusCancelled = "cancelled"
	StatusError     = "error"
)

// RunStarted marks a run as in flight. The returned function records its
// final status.
func (r *Registry) RunStarted() func(status string) {
	r.RunsInFlight.Inc()
	return func(status string) {
		r.RunsInFlight.Dec()
		r.RunsTotal.WithLabelValues(status).Inc()
	}
}

// RecordStage records how long one stage of a run took
func (r *Registry) RecordStage(stage string, duration time.Duration) {
	r.StageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// RecordGraph records the size of the graph being clustered
func (r *Registry) RecordGraph(nodes, edges int) {
	r.GraphNodes.Set(float64(nodes))
	r.GraphEdges.Set(float64(edges))
}

// RecordGrowth records one grown seed
func (r *Registry) RecordGrowth(steps int) {
	r.SeedsGrown.Inc()
	r.GrowthSteps.Observe(float64(steps))
}

// RecordMerge records the outcome of the merge stage
func (r *Registry) RecordMerge(candidates, empty, duplicates, overlapping int) {
	r.Candidates.Add(float64(candidates))
	r.MergeDiscards.WithLabelValues("empty").Add(float64(empty))
	r.MergeDiscards.WithLabelValues("duplicate").Add(float64(duplicates))
	r.MergeDiscards.WithLabelValues("overlap").Add(float64(overlapping))
}

// RecordFilterDiscard records a set rejected by a post-processing filter
func (r *Registry) RecordFilterDiscard(reason string) {
	r.FilterDiscards.WithLabelValues(reason).Inc()
}

// RecordCluster records one reported cluster
func (r *Registry) RecordCluster(size int) {
	r.ClustersAccepted.Inc()
	r.ClusterSize.Observe(float64(size))
}

// RecordIngest records the lines read from an input file
func (r *Registry) RecordIngest(parsed, skipped int) {
	r.IngestLines.WithLabelValues("parsed").Add(float64(parsed))
	r.IngestLines.WithLabelValues("skipped").Add(float64(skipped))
}

// WriteText writes every gathered metric family in the Prometheus text
// exposition format.
func (r *Registry) WriteText(w io.Writer) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	families, err := r.registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("encode %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
