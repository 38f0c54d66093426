// Package seeding produces the initial node sets that greedy growth starts from.
package seeding

import (
	"errors"
	"fmt"
	"iter"
	"strings"
	"sync"

	"github.com/dd0wney/cluso-cohesion/pkg/graph"
)

// ErrUnknownStrategy is returned by Parse for unrecognised seed strategy names.
var ErrUnknownStrategy = errors.New("unknown seed strategy")

// Generator yields seeds for a graph in a deterministic order.
type Generator interface {
	// Seeds yields seeds lazily. claims is nil unless NeedsClaims is true.
	Seeds(g *graph.Graph, claims *Claims) iter.Seq[[]int]
	// NeedsClaims reports whether the sequence depends on clusters grown so
	// far. Such generators must be consumed one seed at a time.
	NeedsClaims() bool
	String() string
}

// Parse builds a generator from its textual name.
// Recognised names are "nodes", "edges" and "unused_nodes".
func Parse(name string) (Generator, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "nodes":
		return EveryNode{}, nil
	case "edges":
		return EveryEdge{}, nil
	case "unused_nodes", "unused-nodes":
		return UnusedNodes{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
}

// EveryNode yields one single-node seed per node in index order.
type EveryNode struct{}

func (EveryNode) Seeds(g *graph.Graph, _ *Claims) iter.Seq[[]int] {
	return func(yield func([]int) bool) {
		for v := 0; v < g.NodeCount(); v++ {
			if !yield([]int{v}) {
				return
			}
		}
	}
}

func (EveryNode) NeedsClaims() bool { return false }
func (EveryNode) String() string    { return "nodes" }

// EveryEdge yields one two-node seed per edge, in lexicographic edge order.
type EveryEdge struct{}

func (EveryEdge) Seeds(g *graph.Graph, _ *Claims) iter.Seq[[]int] {
	return func(yield func([]int) bool) {
		for e := range g.Edges() {
			if !yield([]int{e.U, e.V}) {
				return
			}
		}
	}
}

func (EveryEdge) NeedsClaims() bool { return false }
func (EveryEdge) String() string    { return "edges" }

// UnusedNodes yields single-node seeds in index order, skipping nodes that
// already belong to a grown cluster.
type UnusedNodes struct{}

func (UnusedNodes) Seeds(g *graph.Graph, claims *Claims) iter.Seq[[]int] {
	return func(yield func([]int) bool) {
		for v := 0; v < g.NodeCount(); v++ {
			if claims != nil && claims.Claimed(v) {
				continue
			}
			if !yield([]int{v}) {
				return
			}
		}
	}
}

func (UnusedNodes) NeedsClaims() bool { return true }
func (UnusedNodes) String() string    { return "unused_nodes" }

// List yields externally supplied seeds in the order given.
type List struct {
	seeds [][]int
}

// NewList validates the seeds against a node count and returns a generator
// for them. Empty seeds are kept; they grow into empty sets.
func NewList(nodeCount int, seeds [][]int) (*List, error) {
	copied := make([][]int, len(seeds))
	for i, seed := range seeds {
		for _, v := range seed {
			if v < 0 || v >= nodeCount {
				return nil, fmt.Errorf("seed %d: %w: %d", i, graph.ErrNodeOutOfRange, v)
			}
		}
		copied[i] = append([]int(nil), seed...)
	}
	return &List{seeds: copied}, nil
}

func (l *List) Seeds(g *graph.Graph, _ *Claims) iter.Seq[[]int] {
	return func(yield func([]int) bool) {
		for _, seed := range l.seeds {
			if !yield(append([]int(nil), seed...)) {
				return
			}
		}
	}
}

func (l *List) NeedsClaims() bool { return false }
func (l *List) String() string    { return fmt.Sprintf("list(%d seeds)", len(l.seeds)) }

// Len returns the number of seeds in the list.
func (l *List) Len() int {
	return len(l.seeds)
}

// Claims records which nodes already belong to a grown cluster.
type Claims struct {
	mu      sync.RWMutex
	claimed []bool
}

// NewClaims returns an empty claim table for nodeCount nodes.
func NewClaims(nodeCount int) *Claims {
	return &Claims{claimed: make([]bool, nodeCount)}
}

// Claim marks nodes as used.
func (c *Claims) Claim(nodes []int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, v := range nodes {
		c.claimed[v] = true
	}
}

// Claimed reports whether v has been claimed.
func (c *Claims) Claimed(v int) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.claimed[v]
}
