package graph

import (
	"fmt"
	"math"
	"sort"
)

// Builder accumulates validated edges and produces an immutable Graph.
// Parallel edges are merged by summing their weights.
type Builder struct {
	nodeCount int
	adj       []map[int]float64
	built     bool
}

// NewBuilder creates a builder for a graph with nodeCount nodes.
func NewBuilder(nodeCount int) (*Builder, error) {
	if nodeCount < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeSize, nodeCount)
	}
	return &Builder{
		nodeCount: nodeCount,
		adj:       make([]map[int]float64, nodeCount),
	}, nil
}

// NodeCount returns the number of nodes the builder was created with.
func (b *Builder) NodeCount() int {
	return b.nodeCount
}

// AddEdge validates and records the undirected edge (u, v) with weight w.
func (b *Builder) AddEdge(u, v int, w float64) error {
	if b.built {
		return ErrBuilderConsumed
	}
	if err := b.validate(u, v, w); err != nil {
		return err
	}
	b.link(u, v, w)
	b.link(v, u, w)
	return nil
}

func (b *Builder) validate(u, v int, w float64) error {
	switch {
	case u < 0 || u >= b.nodeCount || v < 0 || v >= b.nodeCount:
		return &EdgeError{Op: "AddEdge", U: u, V: v, Weight: w, Err: ErrNodeOutOfRange}
	case u == v:
		return &EdgeError{Op: "AddEdge", U: u, V: v, Weight: w, Err: ErrSelfLoop}
	case math.IsNaN(w) || math.IsInf(w, 0):
		return &EdgeError{Op: "AddEdge", U: u, V: v, Weight: w, Err: ErrNonFiniteWeight}
	case w < 0:
		return &EdgeError{Op: "AddEdge", U: u, V: v, Weight: w, Err: ErrNegativeWeight}
	}
	return nil
}

func (b *Builder) link(u, v int, w float64) {
	if b.adj[u] == nil {
		b.adj[u] = make(map[int]float64)
	}
	b.adj[u][v] += w
}

// Build freezes the accumulated edges into a Graph. The builder cannot be
// reused afterwards.
func (b *Builder) Build() *Graph {
	b.built = true

	g := &Graph{
		nodeCount: b.nodeCount,
		offsets:   make([]int, b.nodeCount+1),
		degrees:   make([]float64, b.nodeCount),
	}

	total := 0
	for u, nbrs := range b.adj {
		g.offsets[u] = total
		total += len(nbrs)
	}
	g.offsets[b.nodeCount] = total
	g.targets = make([]int, total)
	g.weights = make([]float64, total)

	for u, nbrs := range b.adj {
		start := g.offsets[u]
		adj := g.targets[start : start+len(nbrs)]
		i := 0
		for v := range nbrs {
			adj[i] = v
			i++
		}
		sort.Ints(adj)
		for i, v := range adj {
			w := nbrs[v]
			g.weights[start+i] = w
			g.degrees[u] += w
			if u < v {
				g.edgeCount++
				g.totalWeight += w
			}
		}
	}

	b.adj = nil
	return g
}

// FromEdges builds a graph from an edge list, stopping at the first invalid edge.
func FromEdges(nodeCount int, edges []Edge) (*Graph, error) {
	b, err := NewBuilder(nodeCount)
	if err != nil {
		return nil, err
	}
	for _, e := range edges {
		if err := b.AddEdge(e.U, e.V, e.Weight); err != nil {
			return nil, err
		}
	}
	return b.Build(), nil
}
