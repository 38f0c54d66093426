package filters

import (
	"errors"
	"reflect"
	"testing"

	"github.com/dd0wney/cluso-cohesion/pkg/graph"
	"github.com/dd0wney/cluso-cohesion/pkg/nodeset"
	"github.com/dd0wney/cluso-cohesion/pkg/quality"
)

var penalty = quality.NewCohesiveness(2)

func buildGraph(t *testing.T, n int, pairs ...[2]int) *graph.Graph {
	t.Helper()
	edges := make([]graph.Edge, len(pairs))
	for i, p := range pairs {
		edges[i] = graph.Edge{U: p[0], V: p[1], Weight: 1}
	}
	g, err := graph.FromEdges(n, edges)
	if err != nil {
		t.Fatalf("Failed to build graph: %v", err)
	}
	return g
}

// cliqueWithTail is K4 on {0,1,2,3} plus the pendant edge 0-4.
func cliqueWithTail(t *testing.T) *graph.Graph {
	return buildGraph(t, 5, [2]int{0, 1}, [2]int{0, 2}, [2]int{0, 3}, [2]int{1, 2}, [2]int{1, 3}, [2]int{2, 3}, [2]int{0, 4})
}

func TestHaircut_RemovesWeakMembers(t *testing.T) {
	g := cliqueWithTail(t)
	s := nodeset.FromMembers(g, penalty, 0, 1, 2, 3, 4)

	if removed := Haircut(s, 0.5, SinglePass); removed != 1 {
		t.Errorf("Expected 1 removal, got %d", removed)
	}
	if got := s.Members(); !reflect.DeepEqual(got, []int{0, 1, 2, 3}) {
		t.Errorf("Members after haircut = %v, want [0 1 2 3]", got)
	}
	if s.InternalWeight() != 6 || s.BoundaryWeight() != 1 {
		t.Errorf("Aggregates not refreshed: in=%v out=%v", s.InternalWeight(), s.BoundaryWeight())
	}
}

func TestHaircut_InactiveThresholds(t *testing.T) {
	g := cliqueWithTail(t)
	for _, threshold := range []float64{0, -0.5, 1.5} {
		s := nodeset.FromMembers(g, penalty, 0, 1, 2, 3, 4)
		if removed := Haircut(s, threshold, FixedPoint); removed != 0 || s.Size() != 5 {
			t.Errorf("Haircut(%v) removed %d members, want none", threshold, removed)
		}
	}
}

func TestHaircut_Policies(t *testing.T) {
	// Triangle {0,1,2} with the chain 2-3-4 hanging off it
	g := buildGraph(t, 5, [2]int{0, 1}, [2]int{0, 2}, [2]int{1, 2}, [2]int{2, 3}, [2]int{3, 4})

	single := nodeset.FromMembers(g, penalty, 0, 1, 2, 3, 4)
	Haircut(single, 0.6, SinglePass)
	if got := single.Members(); !reflect.DeepEqual(got, []int{0, 1, 2, 3}) {
		t.Errorf("Single pass left %v, want [0 1 2 3]", got)
	}

	fixed := nodeset.FromMembers(g, penalty, 0, 1, 2, 3, 4)
	if removed := Haircut(fixed, 0.6, FixedPoint); removed != 2 {
		t.Errorf("Fixed point removed %d, want 2", removed)
	}
	if got := fixed.Members(); !reflect.DeepEqual(got, []int{0, 1, 2}) {
		t.Errorf("Fixed point left %v, want [0 1 2]", got)
	}
}

func TestFluff(t *testing.T) {
	// K4 plus node 4 linked to three members and node 5 linked to two
	g := buildGraph(t, 6,
		[2]int{0, 1}, [2]int{0, 2}, [2]int{0, 3}, [2]int{1, 2}, [2]int{1, 3}, [2]int{2, 3},
		[2]int{4, 0}, [2]int{4, 1}, [2]int{4, 2},
		[2]int{5, 0}, [2]int{5, 1},
	)
	s := nodeset.FromMembers(g, penalty, 0, 1, 2, 3)

	if added := Fluff(s); added != 1 {
		t.Errorf("Expected 1 node added, got %d", added)
	}
	if got := s.Members(); !reflect.DeepEqual(got, []int{0, 1, 2, 3, 4}) {
		t.Errorf("Members after fluff = %v, want [0 1 2 3 4]", got)
	}
}

func TestHasKCore(t *testing.T) {
	star := buildGraph(t, 4, [2]int{0, 1}, [2]int{0, 2}, [2]int{0, 3})
	trianglePendant := buildGraph(t, 4, [2]int{0, 1}, [2]int{1, 2}, [2]int{0, 2}, [2]int{2, 3})
	k4 := buildGraph(t, 4, [2]int{0, 1}, [2]int{0, 2}, [2]int{0, 3}, [2]int{1, 2}, [2]int{1, 3}, [2]int{2, 3})

	tests := []struct {
		name string
		g    *graph.Graph
		k    int
		want bool
	}{
		{"star k=0", star, 0, true},
		{"star k=-3", star, -3, true},
		{"star k=1", star, 1, true},
		{"star k=2", star, 2, false},
		{"triangle with pendant k=2", trianglePendant, 2, true},
		{"triangle with pendant k=3", trianglePendant, 3, false},
		{"K4 k=3", k4, 3, true},
		{"K4 k=4", k4, 4, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := nodeset.FromMembers(tt.g, penalty, 0, 1, 2, 3)
			if got := HasKCore(s, tt.k); got != tt.want {
				t.Errorf("HasKCore(k=%d) = %v, want %v", tt.k, got, tt.want)
			}
			if s.Size() != 4 {
				t.Error("HasKCore must not modify the set")
			}
		})
	}
}

func TestPipeline_SizeAndDensity(t *testing.T) {
	g := buildGraph(t, 6, [2]int{0, 1}, [2]int{1, 2}, [2]int{4, 5})
	defaults := NewPipeline(Options{MinSize: 3, MinDensity: 0.3})

	tests := []struct {
		name    string
		members []int
		want    Reason
	}{
		{"pair below min size", []int{4, 5}, ReasonSize},
		{"path of three", []int{0, 1, 2}, Kept},
		{"sparse four", []int{0, 1, 2, 3}, Kept},
		{"sparse four without path", []int{0, 1, 3, 4}, ReasonDensity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, rep := defaults.Apply(nodeset.FromMembers(g, penalty, tt.members...))
			if rep.Reason != tt.want {
				t.Errorf("Reason = %q, want %q", rep.Reason, tt.want)
			}
			if (out == nil) != (tt.want != Kept) {
				t.Errorf("Returned set presence does not match reason %q", rep.Reason)
			}
		})
	}
}

func TestPipeline_SingletonsAlwaysDiscarded(t *testing.T) {
	g := buildGraph(t, 2, [2]int{0, 1})
	p := NewPipeline(Options{MinSize: 1})

	if _, rep := p.Apply(nodeset.FromMembers(g, penalty, 0)); rep.Reason != ReasonSize {
		t.Errorf("Singleton should fail the size filter, got %q", rep.Reason)
	}
	if out, rep := p.Apply(nodeset.FromMembers(g, penalty, 0, 1)); out == nil {
		t.Errorf("Pair should pass with MinSize 1, got %q", rep.Reason)
	}
}

func TestPipeline_KCoreAndHaircut(t *testing.T) {
	g := cliqueWithTail(t)
	input := nodeset.FromMembers(g, penalty, 0, 1, 2, 3, 4)

	p := NewPipeline(Options{MinSize: 3, HaircutThreshold: 0.5, KCoreThreshold: 3})
	out, rep := p.Apply(input)
	if out == nil {
		t.Fatalf("Expected the clique to survive, got %q", rep.Reason)
	}
	if rep.Pruned != 1 || out.Size() != 4 {
		t.Errorf("Expected the tail pruned, got pruned=%d size=%d", rep.Pruned, out.Size())
	}
	if input.Size() != 5 {
		t.Error("Apply must not modify its input")
	}

	p = NewPipeline(Options{MinSize: 3, KCoreThreshold: 4})
	if _, rep := p.Apply(input); rep.Reason != ReasonKCore {
		t.Errorf("Expected k-core discard, got %q", rep.Reason)
	}

	p = NewPipeline(Options{MinSize: 3})
	if out, _ := p.Apply(input); out == nil || out.Size() != 5 {
		t.Error("Disabled haircut and k-core must leave the set untouched")
	}
}

func TestParseHaircutPolicy(t *testing.T) {
	for _, tt := range []struct {
		in   string
		want HaircutPolicy
	}{
		{"single_pass", SinglePass},
		{"fixed-point", FixedPoint},
		{"FIXED_POINT", FixedPoint},
	} {
		got, err := ParseHaircutPolicy(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseHaircutPolicy(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
	if _, err := ParseHaircutPolicy("cascade"); !errors.Is(err, ErrUnknownHaircutPolicy) {
		t.Errorf("Expected ErrUnknownHaircutPolicy, got %v", err)
	}
}
