package filters

import "github.com/dd0wney/cluso-cohesion/pkg/nodeset"

// Reason explains why a set was discarded.
type Reason string

const (
	Kept          Reason = ""
	ReasonKCore   Reason = "kcore"
	ReasonSize    Reason = "size"
	ReasonDensity Reason = "density"
)

// Options configures a Pipeline.
type Options struct {
	MinSize          int
	MinDensity       float64
	HaircutThreshold float64
	HaircutPolicy    HaircutPolicy
	KCoreThreshold   int
	Fluff            bool
}

// Pipeline applies the filters in a fixed order: haircut, fluff, k-core,
// then size and density.
type Pipeline struct {
	opts Options
}

// NewPipeline creates a filter pipeline.
func NewPipeline(opts Options) *Pipeline {
	return &Pipeline{opts: opts}
}

// Report summarises the effect of the pipeline on one set.
type Report struct {
	Pruned  int // members removed by haircut
	Fluffed int // members added by fluffing
	Reason  Reason
}

// Apply runs the filters on a copy of s. It returns the refined copy, or nil
// together with the reason the set was discarded.
func (p *Pipeline) Apply(s *nodeset.NodeSet) (*nodeset.NodeSet, Report) {
	var rep Report
	out := s.Clone()

	rep.Pruned = Haircut(out, p.opts.HaircutThreshold, p.opts.HaircutPolicy)
	if p.opts.Fluff {
		rep.Fluffed = Fluff(out)
	}
	if !HasKCore(out, p.opts.KCoreThreshold) {
		rep.Reason = ReasonKCore
		return nil, rep
	}
	if reason := p.screen(out); reason != Kept {
		rep.Reason = reason
		return nil, rep
	}
	return out, rep
}

// screen applies the size and density thresholds. Sets with fewer than two
// members never pass, whatever the configured minimum size.
func (p *Pipeline) screen(s *nodeset.NodeSet) Reason {
	if s.Size() < max(p.opts.MinSize, 2) {
		return ReasonSize
	}
	if s.Density() < p.opts.MinDensity {
		return ReasonDensity
	}
	return Kept
}
