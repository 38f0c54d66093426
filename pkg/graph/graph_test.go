package graph

import (
	"errors"
	"math"
	"testing"
)

func TestBuilder_RejectsInvalidEdges(t *testing.T) {
	tests := []struct {
		name string
		u, v int
		w    float64
		want error
	}{
		{"self loop", 1, 1, 1.0, ErrSelfLoop},
		{"negative index", -1, 2, 1.0, ErrNodeOutOfRange},
		{"index past end", 0, 3, 1.0, ErrNodeOutOfRange},
		{"negative weight", 0, 1, -0.5, ErrNegativeWeight},
		{"NaN weight", 0, 1, math.NaN(), ErrNonFiniteWeight},
		{"infinite weight", 0, 1, math.Inf(1), ErrNonFiniteWeight},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := NewBuilder(3)
			if err != nil {
				t.Fatalf("NewBuilder failed: %v", err)
			}
			err = b.AddEdge(tt.u, tt.v, tt.w)
			if !errors.Is(err, tt.want) {
				t.Fatalf("AddEdge(%d, %d, %v) error = %v, want %v", tt.u, tt.v, tt.w, err, tt.want)
			}
			var edgeErr *EdgeError
			if !errors.As(err, &edgeErr) {
				t.Fatalf("Expected *EdgeError, got %T", err)
			}
		})
	}
}

func TestNewBuilder_NegativeSize(t *testing.T) {
	if _, err := NewBuilder(-1); !errors.Is(err, ErrNegativeSize) {
		t.Errorf("Expected ErrNegativeSize, got %v", err)
	}
}

func TestBuild_SumsParallelEdges(t *testing.T) {
	g, err := FromEdges(3, []Edge{
		{U: 0, V: 1, Weight: 0.5},
		{U: 1, V: 0, Weight: 0.25},
		{U: 1, V: 2, Weight: 1.0},
	})
	if err != nil {
		t.Fatalf("FromEdges failed: %v", err)
	}

	if g.EdgeCount() != 2 {
		t.Errorf("Expected 2 edges, got %d", g.EdgeCount())
	}
	if got := g.Weight(0, 1); got != 0.75 {
		t.Errorf("Weight(0,1) = %v, want 0.75", got)
	}
	if g.Weight(0, 1) != g.Weight(1, 0) {
		t.Error("Weight must be symmetric")
	}
	if got := g.TotalWeight(); got != 1.75 {
		t.Errorf("TotalWeight() = %v, want 1.75", got)
	}
	if got := g.Strength(1); got != 1.75 {
		t.Errorf("Strength(1) = %v, want 1.75", got)
	}
	if got := g.Weight(0, 2); got != 0 {
		t.Errorf("Weight(0,2) = %v, want 0", got)
	}
}

func TestNeighbors_SortedWithWeights(t *testing.T) {
	g, err := FromEdges(5, []Edge{
		{U: 2, V: 4, Weight: 4},
		{U: 2, V: 0, Weight: 1},
		{U: 3, V: 2, Weight: 3},
	})
	if err != nil {
		t.Fatalf("FromEdges failed: %v", err)
	}

	nbrs, weights := g.Neighbors(2)
	wantNbrs := []int{0, 3, 4}
	wantWeights := []float64{1, 3, 4}
	if len(nbrs) != len(wantNbrs) {
		t.Fatalf("Expected %d neighbors, got %d", len(wantNbrs), len(nbrs))
	}
	for i := range wantNbrs {
		if nbrs[i] != wantNbrs[i] || weights[i] != wantWeights[i] {
			t.Errorf("Neighbor %d = (%d, %v), want (%d, %v)", i, nbrs[i], weights[i], wantNbrs[i], wantWeights[i])
		}
	}
	if g.Degree(1) != 0 {
		t.Errorf("Isolated node should have degree 0, got %d", g.Degree(1))
	}
	if !g.HasEdge(4, 2) || g.HasEdge(0, 4) {
		t.Error("HasEdge returned wrong adjacency")
	}
}

func TestEdges_LexicographicOnce(t *testing.T) {
	g, err := FromEdges(4, []Edge{
		{U: 3, V: 1, Weight: 1},
		{U: 0, V: 2, Weight: 1},
		{U: 1, V: 0, Weight: 1},
	})
	if err != nil {
		t.Fatalf("FromEdges failed: %v", err)
	}

	var got [][2]int
	for e := range g.Edges() {
		got = append(got, [2]int{e.U, e.V})
	}
	want := [][2]int{{0, 1}, {0, 2}, {1, 3}}
	if len(got) != len(want) {
		t.Fatalf("Expected %d edges, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Edge %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestEmptyGraph(t *testing.T) {
	g, err := FromEdges(0, nil)
	if err != nil {
		t.Fatalf("FromEdges failed: %v", err)
	}
	if g.NodeCount() != 0 || g.EdgeCount() != 0 {
		t.Errorf("Expected empty graph, got %d nodes %d edges", g.NodeCount(), g.EdgeCount())
	}
	for range g.Edges() {
		t.Error("Empty graph should yield no edges")
	}
}

func TestBuilder_ConsumedAfterBuild(t *testing.T) {
	b, _ := NewBuilder(2)
	b.Build()
	if err := b.AddEdge(0, 1, 1); !errors.Is(err, ErrBuilderConsumed) {
		t.Errorf("Expected ErrBuilderConsumed, got %v", err)
	}
}

func TestLookupOutOfRangePanics(t *testing.T) {
	g, _ := FromEdges(2, nil)
	defer func() {
		if recover() == nil {
			t.Error("Expected panic for out-of-range node")
		}
	}()
	g.Neighbors(5)
}
