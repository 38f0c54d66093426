// Package clusterone runs the full clustering pipeline: seeds are grown into
// locally optimal cohesive sets, overlapping sets are merged away, and the
// survivors are refined and screened by the post-processing filters.
package clusterone

import (
	"context"
	"errors"
	"runtime"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/dd0wney/cluso-cohesion/pkg/filters"
	"github.com/dd0wney/cluso-cohesion/pkg/graph"
	"github.com/dd0wney/cluso-cohesion/pkg/growth"
	"github.com/dd0wney/cluso-cohesion/pkg/logging"
	"github.com/dd0wney/cluso-cohesion/pkg/merging"
	"github.com/dd0wney/cluso-cohesion/pkg/metrics"
	"github.com/dd0wney/cluso-cohesion/pkg/nodeset"
	"github.com/dd0wney/cluso-cohesion/pkg/parallel"
	"github.com/dd0wney/cluso-cohesion/pkg/params"
	"github.com/dd0wney/cluso-cohesion/pkg/seeding"
)

// ErrNilGraph is returned by Run when no graph is given.
var ErrNilGraph = errors.New("clusterone: nil graph")

// Stage names used in logs and metrics
const (
	StageGrow   = "grow"
	StageMerge  = "merge"
	StageFilter = "filter"
)

// Stats summarises one run.
type Stats struct {
	Seeds       int // seeds grown
	GrowthSteps int // moves applied over all seeds
	Candidates  int // grown sets handed to merging
	Empty       int // empty candidates dropped
	Duplicates  int // exact duplicates dropped
	Overlapping int // candidates too similar to a better set
	Pruned      int // members removed by haircut
	Fluffed     int // members added by fluffing
	Discarded   map[filters.Reason]int
	Duration    time.Duration
}

// Result is the outcome of a run. Clusters are in merge order: best quality
// first.
type Result struct {
	RunID      string
	Parameters *params.Parameters
	Clusters   []*nodeset.Cluster
	Stats      Stats
}

// Algorithm is a configured clustering run. It may be reused for any number
// of graphs, sequentially or concurrently.
type Algorithm struct {
	params  *params.Parameters
	logger  logging.Logger
	metrics *metrics.Registry
}

// Option customises an Algorithm.
type Option func(*Algorithm)

// WithLogger sets the logger. The default discards output.
func WithLogger(l logging.Logger) Option {
	return func(a *Algorithm) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithMetrics sets the metrics registry. The default is the process-wide one.
func WithMetrics(r *metrics.Registry) Option {
	return func(a *Algorithm) {
		if r != nil {
			a.metrics = r
		}
	}
}

// New creates an Algorithm. Nil parameters mean the defaults.
func New(p *params.Parameters, opts ...Option) *Algorithm {
	if p == nil {
		p = params.Default()
	}
	a := &Algorithm{
		params:  p,
		logger:  logging.NewNopLogger(),
		metrics: metrics.DefaultRegistry(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Parameters returns the parameters the algorithm runs with.
func (a *Algorithm) Parameters() *params.Parameters {
	return a.params
}

// Run clusters g. It returns ctx.Err() if the context is cancelled while
// seeds are being grown.
func (a *Algorithm) Run(ctx context.Context, g *graph.Graph) (*Result, error) {
	if g == nil {
		return nil, ErrNilGraph
	}

	runID := uuid.NewString()
	log := a.logger.With(logging.RunID(runID), logging.Component("clusterone"))
	finish := a.metrics.RunStarted()
	start := time.Now()

	log.Info("run started",
		logging.Int("nodes", g.NodeCount()),
		logging.Int("edges", g.EdgeCount()),
		logging.String("seeds", a.params.SeedGenerator.String()),
		logging.String("merging", a.params.MergingMethod.String()),
		logging.Bool("fluff", a.params.FluffClusters))
	a.metrics.RecordGraph(g.NodeCount(), g.EdgeCount())

	res := &Result{
		RunID:      runID,
		Parameters: a.params,
		Stats:      Stats{Discarded: make(map[filters.Reason]int)},
	}

	candidates, err := a.grow(ctx, g, log, &res.Stats)
	if err != nil {
		status := metrics.StatusError
		if ctx.Err() != nil {
			status = metrics.StatusCancelled
		}
		finish(status)
		log.Warn("run aborted", logging.Error(err), logging.Latency(time.Since(start)))
		return nil, err
	}

	accepted := a.merge(candidates, log, &res.Stats)
	res.Clusters = a.filter(accepted, log, &res.Stats)

	res.Stats.Duration = time.Since(start)
	finish(metrics.StatusSuccess)
	log.Info("run finished",
		logging.Int("clusters", len(res.Clusters)),
		logging.Int("candidates", res.Stats.Candidates),
		logging.Latency(res.Stats.Duration))
	return res, nil
}

// grow turns every seed into a candidate set, in seed order.
func (a *Algorithm) grow(ctx context.Context, g *graph.Graph, log logging.Logger, stats *Stats) ([]*nodeset.NodeSet, error) {
	timer := logging.StartTimer(log, "seeds grown", logging.Stage(StageGrow))
	engine := growth.NewEngine(g, a.params.QualityFunction())

	var (
		outcomes []*growth.Outcome
		err      error
	)
	if a.params.SeedGenerator.NeedsClaims() {
		outcomes, err = a.growClaimed(ctx, g, engine, log)
	} else {
		outcomes, err = a.growParallel(ctx, g, engine, log)
	}
	if err != nil {
		timer.EndError(err)
		return nil, err
	}

	sets := make([]*nodeset.NodeSet, len(outcomes))
	for i, o := range outcomes {
		sets[i] = o.Set
		stats.GrowthSteps += o.Steps()
		a.metrics.RecordGrowth(o.Steps())
	}
	stats.Seeds = len(outcomes)
	a.metrics.RecordStage(StageGrow, timer.End(logging.Count(len(outcomes)), logging.Int("steps", stats.GrowthSteps)))
	return sets, nil
}

// growParallel grows independent seeds on a worker pool. Each task owns its
// node set; the graph is shared read-only.
func (a *Algorithm) growParallel(ctx context.Context, g *graph.Graph, engine *growth.Engine, log logging.Logger) ([]*growth.Outcome, error) {
	seeds := slices.Collect(a.params.SeedGenerator.Seeds(g, nil))

	pool, err := parallel.NewWorkerPool(poolSize(a.params.Workers, len(seeds)), log)
	if err != nil {
		return nil, err
	}
	defer pool.Close()

	return parallel.Map(ctx, pool, len(seeds), func(_ context.Context, i int) (*growth.Outcome, error) {
		o := engine.Grow(seeds[i])
		logGrown(log, seeds[i], o)
		return o, nil
	})
}

func logGrown(log logging.Logger, seed []int, o *growth.Outcome) {
	if log.GetLevel() > logging.DebugLevel {
		return
	}
	log.Debug("seed grown",
		logging.Seed(seed),
		logging.ClusterSize(o.Set.Size()),
		logging.Quality(o.Set.Quality()),
		logging.Int("steps", o.Steps()))
}

// poolSize never starts more workers than there are seeds. Zero means
// GOMAXPROCS.
func poolSize(workers, seeds int) int {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return max(1, min(workers, seeds))
}

// growClaimed grows seeds one at a time, claiming the members of each grown
// set so the generator can skip them.
func (a *Algorithm) growClaimed(ctx context.Context, g *graph.Graph, engine *growth.Engine, log logging.Logger) ([]*growth.Outcome, error) {
	claims := seeding.NewClaims(g.NodeCount())
	var outcomes []*growth.Outcome
	for seed := range a.params.SeedGenerator.Seeds(g, claims) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		o := engine.Grow(seed)
		logGrown(log, seed, o)
		claims.Claim(o.Set.Members())
		outcomes = append(outcomes, o)
	}
	return outcomes, ctx.Err()
}

func (a *Algorithm) merge(candidates []*nodeset.NodeSet, log logging.Logger, stats *Stats) []*nodeset.NodeSet {
	timer := logging.StartTimer(log, "candidates merged", logging.Stage(StageMerge))

	out := merging.New(a.params.MergingMethod, a.params.OverlapThreshold).Resolve(candidates)

	stats.Candidates = len(candidates)
	stats.Empty = out.Empty
	stats.Duplicates = out.Duplicates
	stats.Overlapping = out.Overlapping
	a.metrics.RecordMerge(len(candidates), out.Empty, out.Duplicates, out.Overlapping)
	a.metrics.RecordStage(StageMerge, timer.End(
		logging.Count(len(out.Accepted)),
		logging.Int("duplicates", out.Duplicates),
		logging.Int("overlapping", out.Overlapping)))
	return out.Accepted
}

func (a *Algorithm) filter(sets []*nodeset.NodeSet, log logging.Logger, stats *Stats) []*nodeset.Cluster {
	timer := logging.StartTimer(log, "clusters filtered", logging.Stage(StageFilter))
	pipeline := filters.NewPipeline(a.params.FilterOptions())

	clusters := make([]*nodeset.Cluster, 0, len(sets))
	for _, s := range sets {
		out, rep := pipeline.Apply(s)
		stats.Pruned += rep.Pruned
		stats.Fluffed += rep.Fluffed
		if out == nil {
			stats.Discarded[rep.Reason]++
			a.metrics.RecordFilterDiscard(string(rep.Reason))
			log.Debug("set discarded",
				logging.Reason(string(rep.Reason)),
				logging.ClusterSize(s.Size()),
				logging.Quality(s.Quality()))
			continue
		}
		c := out.Freeze()
		clusters = append(clusters, c)
		a.metrics.RecordCluster(c.Size)
	}

	a.metrics.RecordStage(StageFilter, timer.End(logging.Count(len(clusters))))
	return clusters
}
