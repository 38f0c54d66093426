// Package growth implements the greedy hill-climbing procedure that turns a
// seed into a locally optimal cohesive node set.
package growth

import (
	"github.com/dd0wney/cluso-cohesion/pkg/graph"
	"github.com/dd0wney/cluso-cohesion/pkg/nodeset"
	"github.com/dd0wney/cluso-cohesion/pkg/quality"
)

// MinGain is the smallest quality improvement accepted as a move. Gains at or
// below it are treated as rounding noise.
const MinGain = 1e-12

// Engine grows seeds on a fixed graph with a fixed quality function.
// An Engine holds no per-seed state and may be shared between goroutines.
type Engine struct {
	graph   *graph.Graph
	quality quality.Function
}

// NewEngine creates a growth engine.
func NewEngine(g *graph.Graph, q quality.Function) *Engine {
	return &Engine{graph: g, quality: q}
}

// Outcome is the result of growing one seed.
type Outcome struct {
	Set       *nodeset.NodeSet
	Additions int
	Removals  int
}

// Steps returns the number of moves applied.
func (o *Outcome) Steps() int {
	return o.Additions + o.Removals
}

// move is a candidate addition or removal.
type move struct {
	node int
	add  bool
	gain float64
}

// better reports whether gain at node v beats m. Ties go to the lower index.
func (m *move) better(v int, gain float64) bool {
	if gain <= MinGain {
		return false
	}
	if m.node < 0 || gain > m.gain {
		return true
	}
	return gain == m.gain && v < m.node
}

// Grow builds a node set from seed and climbs to a local optimum.
func (e *Engine) Grow(seed []int) *Outcome {
	return e.Climb(nodeset.FromMembers(e.graph, e.quality, seed...))
}

// Climb improves s in place until no single addition or removal raises its
// quality by more than MinGain. Each accepted move strictly increases a
// quality bounded above by 1, so the loop terminates.
func (e *Engine) Climb(s *nodeset.NodeSet) *Outcome {
	out := &Outcome{Set: s}
	for {
		best := move{node: -1}
		for v := range s.Candidates() {
			if gain := s.AdditionGain(v); best.better(v, gain) {
				best = move{node: v, add: true, gain: gain}
			}
		}
		for v := range s.All() {
			if gain := s.RemovalGain(v); best.better(v, gain) {
				best = move{node: v, add: false, gain: gain}
			}
		}

		if best.node < 0 {
			return out
		}
		if best.add {
			s.Add(best.node)
			out.Additions++
		} else {
			s.Remove(best.node)
			out.Removals++
		}
	}
}
