package params

import (
	"fmt"
	"strings"

	"github.com/dd0wney/cluso-cohesion/pkg/filters"
	"github.com/dd0wney/cluso-cohesion/pkg/quality"
	"github.com/dd0wney/cluso-cohesion/pkg/seeding"
	"github.com/dd0wney/cluso-cohesion/pkg/similarity"
)

// Parameters is a validated, read-only parameter bundle. Obtain one from
// Config.Build or Default; derive variants with the With* methods.
type Parameters struct {
	MinSize          int
	MinDensity       float64
	OverlapThreshold float64
	HaircutThreshold float64
	HaircutPolicy    filters.HaircutPolicy
	KCoreThreshold   int
	NodePenalty      float64
	FluffClusters    bool
	MergingMethod    similarity.Method
	SeedGenerator    seeding.Generator
	Workers          int
}

// Default returns the default parameters.
func Default() *Parameters {
	p, err := DefaultConfig().Build()
	if err != nil {
		panic(fmt.Sprintf("params: default configuration rejected: %v", err))
	}
	return p
}

// WithSeedGenerator returns a copy of p that uses gen for seeding.
func (p *Parameters) WithSeedGenerator(gen seeding.Generator) *Parameters {
	cp := *p
	cp.SeedGenerator = gen
	return &cp
}

// WithWorkers returns a copy of p with the given worker count.
func (p *Parameters) WithWorkers(n int) *Parameters {
	cp := *p
	cp.Workers = n
	return &cp
}

// QualityFunction returns the cohesiveness function for the node penalty.
func (p *Parameters) QualityFunction() quality.Function {
	return quality.NewCohesiveness(p.NodePenalty)
}

// HaircutNeeded reports whether the haircut threshold enables pruning.
func (p *Parameters) HaircutNeeded() bool {
	return filters.HaircutActive(p.HaircutThreshold)
}

// FilterOptions returns the post-processing settings.
func (p *Parameters) FilterOptions() filters.Options {
	return filters.Options{
		MinSize:          p.MinSize,
		MinDensity:       p.MinDensity,
		HaircutThreshold: p.HaircutThreshold,
		HaircutPolicy:    p.HaircutPolicy,
		KCoreThreshold:   p.KCoreThreshold,
		Fluff:            p.FluffClusters,
	}
}

// String renders a one-line-per-setting summary for logs and reports.
func (p *Parameters) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Minimum size: %d\n", p.MinSize)
	fmt.Fprintf(&b, "Minimum density: %g\n", p.MinDensity)
	fmt.Fprintf(&b, "Node penalty: %g\n", p.NodePenalty)
	if p.HaircutNeeded() {
		fmt.Fprintf(&b, "Haircut threshold: %g (%s)\n", p.HaircutThreshold, p.HaircutPolicy)
	} else {
		b.WriteString("Haircut threshold: disabled\n")
	}
	if p.KCoreThreshold > 0 {
		fmt.Fprintf(&b, "K-core threshold: %d\n", p.KCoreThreshold)
	}
	fmt.Fprintf(&b, "Fluffing: %t\n", p.FluffClusters)
	fmt.Fprintf(&b, "Merging method: %s\n", p.MergingMethod)
	fmt.Fprintf(&b, "Overlap threshold: %g\n", p.OverlapThreshold)
	fmt.Fprintf(&b, "Seed generator: %s", p.SeedGenerator)
	return b.String()
}
