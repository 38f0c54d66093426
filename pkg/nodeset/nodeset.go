// Package nodeset implements the mutable node set grown by the clustering
// engine. Every mutation goes through Add or Remove, which keep the cached
// aggregates (internal weight, boundary weight, quality) consistent with the
// membership in O(degree) time.
package nodeset

import (
	"iter"
	"sort"

	"github.com/dd0wney/cluso-cohesion/pkg/graph"
	"github.com/dd0wney/cluso-cohesion/pkg/quality"
)

// attachment tracks how strongly a node is tied to the current members.
type attachment struct {
	weight float64 // total weight of edges to members
	links  int     // number of members adjacent to the node
}

// NodeSet is a set of nodes of a graph together with cached aggregates.
// A NodeSet is owned by a single goroutine; the graph it refers to is shared
// read-only.
type NodeSet struct {
	graph    *graph.Graph
	quality  quality.Function
	members  map[int]struct{}
	attach   map[int]*attachment
	internal float64
	boundary float64
	score    float64
}

// New returns an empty node set over g scored by q.
func New(g *graph.Graph, q quality.Function) *NodeSet {
	return &NodeSet{
		graph:   g,
		quality: q,
		members: make(map[int]struct{}),
		attach:  make(map[int]*attachment),
	}
}

// FromMembers returns a node set containing the given nodes.
func FromMembers(g *graph.Graph, q quality.Function, nodes ...int) *NodeSet {
	s := New(g, q)
	for _, v := range nodes {
		s.Add(v)
	}
	return s
}

// Graph returns the graph the set is defined on.
func (s *NodeSet) Graph() *graph.Graph {
	return s.graph
}

// QualityFunction returns the function used to score the set.
func (s *NodeSet) QualityFunction() quality.Function {
	return s.quality
}

// Add inserts v and updates the aggregates. It reports whether v was added.
func (s *NodeSet) Add(v int) bool {
	if _, ok := s.members[v]; ok {
		return false
	}
	in, out := s.split(v)
	s.internal += in
	s.boundary += out - in
	s.members[v] = struct{}{}

	nbrs, weights := s.graph.Neighbors(v)
	for i, u := range nbrs {
		a := s.attach[u]
		if a == nil {
			a = &attachment{}
			s.attach[u] = a
		}
		a.weight += weights[i]
		a.links++
	}
	s.settle()
	return true
}

// Remove deletes v and updates the aggregates. It reports whether v was removed.
func (s *NodeSet) Remove(v int) bool {
	if _, ok := s.members[v]; !ok {
		return false
	}
	in, out := s.split(v)
	s.internal -= in
	s.boundary += in - out
	delete(s.members, v)

	nbrs, weights := s.graph.Neighbors(v)
	for i, u := range nbrs {
		a := s.attach[u]
		a.links--
		if a.links == 0 {
			delete(s.attach, u)
			continue
		}
		a.weight -= weights[i]
	}
	s.settle()
	return true
}

// split returns the weight from v to the members and from v to everything else.
func (s *NodeSet) split(v int) (in, out float64) {
	if a := s.attach[v]; a != nil {
		in = a.weight
	}
	return in, s.graph.Strength(v) - in
}

// settle clamps rounding noise and refreshes the cached score.
func (s *NodeSet) settle() {
	if len(s.members) == 0 {
		s.internal, s.boundary = 0, 0
	}
	if s.internal < 0 {
		s.internal = 0
	}
	if s.boundary < 0 {
		s.boundary = 0
	}
	s.score = s.quality.Score(s.internal, s.boundary, len(s.members))
}

// AdditionGain returns the change in quality if v were added.
// v must not be a member.
func (s *NodeSet) AdditionGain(v int) float64 {
	in, out := s.split(v)
	return s.quality.Score(s.internal+in, s.boundary+out-in, len(s.members)+1) - s.score
}

// RemovalGain returns the change in quality if member v were removed.
func (s *NodeSet) RemovalGain(v int) float64 {
	if len(s.members) == 1 {
		return -s.score
	}
	in, out := s.split(v)
	return s.quality.Score(s.internal-in, s.boundary+in-out, len(s.members)-1) - s.score
}

// Contains reports whether v is a member.
func (s *NodeSet) Contains(v int) bool {
	_, ok := s.members[v]
	return ok
}

// Size returns the number of members.
func (s *NodeSet) Size() int {
	return len(s.members)
}

// InternalWeight returns the total weight of edges between members.
func (s *NodeSet) InternalWeight() float64 {
	return s.internal
}

// BoundaryWeight returns the total weight of edges leaving the set.
func (s *NodeSet) BoundaryWeight() float64 {
	return s.boundary
}

// Quality returns the cached quality score.
func (s *NodeSet) Quality() float64 {
	return s.score
}

// Density returns internal weight divided by the number of member pairs.
// Sets with fewer than two members have density 0.
func (s *NodeSet) Density() float64 {
	return density(s.internal, len(s.members))
}

func density(internal float64, n int) float64 {
	if n < 2 {
		return 0
	}
	return internal / (float64(n) * float64(n-1) / 2)
}

// WeightToSet returns the total weight of edges from v to the members.
func (s *NodeSet) WeightToSet(v int) float64 {
	if a := s.attach[v]; a != nil {
		return a.weight
	}
	return 0
}

// LinksToSet returns the number of members adjacent to v.
func (s *NodeSet) LinksToSet(v int) int {
	if a := s.attach[v]; a != nil {
		return a.links
	}
	return 0
}

// All yields the members in no particular order.
func (s *NodeSet) All() iter.Seq[int] {
	return func(yield func(int) bool) {
		for v := range s.members {
			if !yield(v) {
				return
			}
		}
	}
}

// Candidates yields the non-members adjacent to at least one member, in no
// particular order.
func (s *NodeSet) Candidates() iter.Seq[int] {
	return func(yield func(int) bool) {
		for v := range s.attach {
			if _, ok := s.members[v]; ok {
				continue
			}
			if !yield(v) {
				return
			}
		}
	}
}

// Members returns the members in ascending order.
func (s *NodeSet) Members() []int {
	out := make([]int, 0, len(s.members))
	for v := range s.members {
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}

// Clone returns an independent copy of the set.
func (s *NodeSet) Clone() *NodeSet {
	c := &NodeSet{
		graph:    s.graph,
		quality:  s.quality,
		members:  make(map[int]struct{}, len(s.members)),
		attach:   make(map[int]*attachment, len(s.attach)),
		internal: s.internal,
		boundary: s.boundary,
		score:    s.score,
	}
	for v := range s.members {
		c.members[v] = struct{}{}
	}
	for v, a := range s.attach {
		cp := *a
		c.attach[v] = &cp
	}
	return c
}

// Freeze returns a read-only snapshot of the set and its aggregates.
func (s *NodeSet) Freeze() *Cluster {
	return &Cluster{
		Members:        s.Members(),
		Size:           len(s.members),
		Density:        s.Density(),
		InternalWeight: s.internal,
		BoundaryWeight: s.boundary,
		Quality:        s.score,
	}
}
