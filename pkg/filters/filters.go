// Package filters refines and screens the node sets that survive merging:
// haircut pruning, boundary fluffing, the k-core requirement and the final
// size and density thresholds.
package filters

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dd0wney/cluso-cohesion/pkg/nodeset"
)

// ErrUnknownHaircutPolicy is returned by ParseHaircutPolicy.
var ErrUnknownHaircutPolicy = errors.New("unknown haircut policy")

// HaircutPolicy controls whether haircut pruning is repeated.
type HaircutPolicy int

const (
	// SinglePass computes the average once and removes every weak member in one step
	SinglePass HaircutPolicy = iota
	// FixedPoint repeats single passes until no member is removed
	FixedPoint
)

func (p HaircutPolicy) String() string {
	switch p {
	case SinglePass:
		return "single_pass"
	case FixedPoint:
		return "fixed_point"
	default:
		return fmt.Sprintf("HaircutPolicy(%d)", int(p))
	}
}

// ParseHaircutPolicy converts a configuration name into a HaircutPolicy.
func ParseHaircutPolicy(name string) (HaircutPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "single_pass", "single-pass":
		return SinglePass, nil
	case "fixed_point", "fixed-point":
		return FixedPoint, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownHaircutPolicy, name)
}

// HaircutActive reports whether threshold enables haircut pruning.
func HaircutActive(threshold float64) bool {
	return threshold > 0 && threshold <= 1
}

// Haircut removes members whose weight to the rest of the set is below
// threshold times the average such weight. It returns the number of members
// removed. Thresholds outside (0,1] disable it.
func Haircut(s *nodeset.NodeSet, threshold float64, policy HaircutPolicy) int {
	if !HaircutActive(threshold) {
		return 0
	}
	removed := 0
	for s.Size() > 0 {
		// Each internal edge is counted at both endpoints
		cutoff := threshold * 2 * s.InternalWeight() / float64(s.Size())

		var weak []int
		for v := range s.All() {
			if s.WeightToSet(v) < cutoff {
				weak = append(weak, v)
			}
		}
		if len(weak) == 0 {
			break
		}
		sort.Ints(weak)
		for _, v := range weak {
			s.Remove(v)
		}
		removed += len(weak)

		if policy != FixedPoint {
			break
		}
	}
	return removed
}

// Fluff adds every boundary node adjacent to more than two thirds of the
// members. All nodes are judged against the membership before fluffing.
// It returns the number of nodes added.
func Fluff(s *nodeset.NodeSet) int {
	n := s.Size()
	var extra []int
	for v := range s.Candidates() {
		if 3*s.LinksToSet(v) > 2*n {
			extra = append(extra, v)
		}
	}
	sort.Ints(extra)
	for _, v := range extra {
		s.Add(v)
	}
	return len(extra)
}

// HasKCore reports whether the subgraph induced by s has a non-empty k-core,
// i.e. survives repeatedly peeling nodes with fewer than k neighbors inside.
// Every set passes when k <= 0.
func HasKCore(s *nodeset.NodeSet, k int) bool {
	if k <= 0 {
		return true
	}
	degree := make(map[int]int, s.Size())
	var queue []int
	for v := range s.All() {
		d := s.LinksToSet(v)
		degree[v] = d
		if d < k {
			queue = append(queue, v)
		}
	}

	g := s.Graph()
	remaining := len(degree)
	peeled := make(map[int]bool, len(queue))
	for _, v := range queue {
		peeled[v] = true
	}
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		remaining--

		nbrs, _ := g.Neighbors(v)
		for _, u := range nbrs {
			d, member := degree[u]
			if !member || peeled[u] {
				continue
			}
			degree[u] = d - 1
			if d-1 < k {
				peeled[u] = true
				queue = append(queue, u)
			}
		}
	}
	return remaining > 0
}
