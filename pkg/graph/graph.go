// Package graph holds the immutable weighted undirected graph the clustering
// engine runs on. Nodes are dense integer indices 0..N-1.
package graph

import (
	"iter"
	"sort"
)

// Edge is a weighted undirected edge between two distinct nodes.
type Edge struct {
	U      int
	V      int
	Weight float64
}

// Graph is a weighted undirected graph in compressed adjacency form.
// It is never modified after Build, so it is safe to share between goroutines.
type Graph struct {
	nodeCount   int
	offsets     []int     // offsets[u]..offsets[u+1] indexes targets/weights for u
	targets     []int     // neighbor indices, sorted per node
	weights     []float64 // weights parallel to targets
	degrees     []float64 // weighted degree per node
	edgeCount   int
	totalWeight float64
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	return g.nodeCount
}

// EdgeCount returns the number of undirected edges.
func (g *Graph) EdgeCount() int {
	return g.edgeCount
}

// TotalWeight returns the sum of all edge weights, each edge counted once.
func (g *Graph) TotalWeight() float64 {
	return g.totalWeight
}

// Neighbors returns the neighbors of u and the matching edge weights.
// The returned slices are shared with the graph and must not be modified.
func (g *Graph) Neighbors(u int) ([]int, []float64) {
	g.mustContain(u)
	lo, hi := g.offsets[u], g.offsets[u+1]
	return g.targets[lo:hi:hi], g.weights[lo:hi:hi]
}

// Degree returns the number of neighbors of u.
func (g *Graph) Degree(u int) int {
	g.mustContain(u)
	return g.offsets[u+1] - g.offsets[u]
}

// Strength returns the total weight of the edges incident on u.
func (g *Graph) Strength(u int) float64 {
	g.mustContain(u)
	return g.degrees[u]
}

// Weight returns the weight of the edge between u and v, or 0 if there is none.
func (g *Graph) Weight(u, v int) float64 {
	g.mustContain(u)
	g.mustContain(v)
	// Search the shorter adjacency list
	if g.offsets[v+1]-g.offsets[v] < g.offsets[u+1]-g.offsets[u] {
		u, v = v, u
	}
	lo, hi := g.offsets[u], g.offsets[u+1]
	adj := g.targets[lo:hi]
	i := sort.SearchInts(adj, v)
	if i < len(adj) && adj[i] == v {
		return g.weights[lo+i]
	}
	return 0
}

// HasEdge reports whether u and v are adjacent.
func (g *Graph) HasEdge(u, v int) bool {
	g.mustContain(u)
	g.mustContain(v)
	lo, hi := g.offsets[u], g.offsets[u+1]
	adj := g.targets[lo:hi]
	i := sort.SearchInts(adj, v)
	return i < len(adj) && adj[i] == v
}

// Edges yields every edge once with U < V, in lexicographic order.
func (g *Graph) Edges() iter.Seq[Edge] {
	return func(yield func(Edge) bool) {
		for u := 0; u < g.nodeCount; u++ {
			for i := g.offsets[u]; i < g.offsets[u+1]; i++ {
				v := g.targets[i]
				if v <= u {
					continue
				}
				if !yield(Edge{U: u, V: v, Weight: g.weights[i]}) {
					return
				}
			}
		}
	}
}

// mustContain panics on an index outside the graph. The engine only ever
// passes indices obtained from the graph itself, so this is a programming error.
func (g *Graph) mustContain(u int) {
	if u < 0 || u >= g.nodeCount {
		panic(&EdgeError{Op: "lookup", U: u, V: -1, Err: ErrNodeOutOfRange})
	}
}
