// Package merging resolves redundancy among grown node sets. Many seeds climb
// to the same local optimum, and distinct optima often overlap heavily; only
// the best of each group of near-identical sets survives.
package merging

import (
	"sort"
	"strconv"
	"strings"

	"github.com/dd0wney/cluso-cohesion/pkg/nodeset"
	"github.com/dd0wney/cluso-cohesion/pkg/similarity"
)

// Merger compares candidates with one similarity formula and threshold.
type Merger struct {
	formula   similarity.Formula
	threshold float64
}

// New creates a merger. Candidates whose similarity to an already accepted
// set exceeds threshold are discarded.
func New(method similarity.Method, threshold float64) *Merger {
	return &Merger{formula: method.Formula(), threshold: threshold}
}

// Outcome reports what happened to the candidates.
type Outcome struct {
	Accepted    []*nodeset.NodeSet
	Empty       int // candidates with no members
	Duplicates  int // candidates identical to an earlier one
	Overlapping int // candidates too similar to an accepted set
}

type entry struct {
	set     *nodeset.NodeSet
	members []int
	order   int
}

// Resolve orders candidates by descending quality (then larger size, then
// lower first member, then input order) and accepts each one that is not too
// similar to any set accepted before it. Exact duplicates of an earlier
// candidate are always dropped, even when the threshold is 1 or more and
// their similarity would not exceed it.
func (m *Merger) Resolve(candidates []*nodeset.NodeSet) *Outcome {
	out := &Outcome{}

	entries := make([]entry, 0, len(candidates))
	for i, c := range candidates {
		if c == nil || c.Size() == 0 {
			out.Empty++
			continue
		}
		entries = append(entries, entry{set: c, members: c.Members(), order: i})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if qa, qb := a.set.Quality(), b.set.Quality(); qa != qb {
			return qa > qb
		}
		if len(a.members) != len(b.members) {
			return len(a.members) > len(b.members)
		}
		if a.members[0] != b.members[0] {
			return a.members[0] < b.members[0]
		}
		return a.order < b.order
	})

	seen := make(map[string]struct{}, len(entries))
	var accepted [][]int
	for _, e := range entries {
		key := membersKey(e.members)
		if _, dup := seen[key]; dup {
			out.Duplicates++
			continue
		}
		seen[key] = struct{}{}

		if m.overlapsAny(e.members, accepted) {
			out.Overlapping++
			continue
		}
		accepted = append(accepted, e.members)
		out.Accepted = append(out.Accepted, e.set)
	}
	return out
}

func (m *Merger) overlapsAny(members []int, accepted [][]int) bool {
	for _, other := range accepted {
		if similarity.Between(m.formula, members, other) > m.threshold {
			return true
		}
	}
	return false
}

func membersKey(members []int) string {
	var sb strings.Builder
	for i, v := range members {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(v))
	}
	return sb.String()
}
