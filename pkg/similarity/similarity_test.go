package similarity

import (
	"errors"
	"math"
	"sort"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

var (
	set1 = []int{1, 2, 3, 4, 5, 6, 7, 8}
	set2 = []int{2, 4, 6, 9, 10}
	set3 = []int{9, 10, 11, 12}
)

var allMethods = []Method{Match, Jaccard, Dice, Simpson}

func TestDiceSimilarity(t *testing.T) {
	f := Dice.Formula()

	tests := []struct {
		name string
		a, b []int
		want float64
	}{
		{"self", set1, set1, 1.0},
		{"set1-set2", set1, set2, 6 / 13.0},
		{"set1-set3", set1, set3, 0.0},
		{"set2-set3", set2, set3, 4 / 9.0},
		{"set3-set2", set3, set2, 4 / 9.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Between(f, tt.a, tt.b); math.Abs(got-tt.want) > 1e-6 {
				t.Errorf("Dice(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestFormulas(t *testing.T) {
	tests := []struct {
		method Method
		want   float64 // set1 vs set2: common 3, sizes 8 and 5
	}{
		{Match, 3 / 8.0},
		{Jaccard, 3 / 10.0},
		{Dice, 6 / 13.0},
		{Simpson, 3 / 5.0},
	}

	for _, tt := range tests {
		t.Run(tt.method.String(), func(t *testing.T) {
			if got := Between(tt.method.Formula(), set1, set2); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("%s(set1, set2) = %v, want %v", tt.method, got, tt.want)
			}
		})
	}
}

func TestBetween_EmptySets(t *testing.T) {
	for _, m := range allMethods {
		f := m.Formula()
		if got := Between(f, nil, nil); got != 1 {
			t.Errorf("%s(empty, empty) = %v, want 1", m, got)
		}
		if got := Between(f, nil, set3); got != 0 {
			t.Errorf("%s(empty, set3) = %v, want 0", m, got)
		}
	}
}

func TestParseMethod(t *testing.T) {
	tests := []struct {
		input string
		want  Method
	}{
		{"match", Match},
		{"MATCH", Match},
		{"jaccard", Jaccard},
		{"Dice", Dice},
		{"simpson", Simpson},
		{"meet/min", Simpson},
		{" dice ", Dice},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMethod(tt.input)
			if err != nil {
				t.Fatalf("ParseMethod(%q) failed: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseMethod(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}

	if _, err := ParseMethod("cosine"); !errors.Is(err, ErrUnknownMethod) {
		t.Errorf("Expected ErrUnknownMethod for cosine, got %v", err)
	}
}

func TestMethodString_RoundTrip(t *testing.T) {
	for _, m := range allMethods {
		parsed, err := ParseMethod(m.String())
		if err != nil || parsed != m {
			t.Errorf("ParseMethod(%q) = %v, %v; want %v", m.String(), parsed, err, m)
		}
	}
}

func TestIntersection(t *testing.T) {
	if got := Intersection(set1, set2); got != 3 {
		t.Errorf("Intersection(set1, set2) = %d, want 3", got)
	}
	if got := Intersection(set2, set3); got != 2 {
		t.Errorf("Intersection(set2, set3) = %d, want 2", got)
	}
}

// sortedSet turns a generated slice into an ascending list without duplicates.
func sortedSet(xs []int) []int {
	seen := make(map[int]bool, len(xs))
	out := make([]int, 0, len(xs))
	for _, x := range xs {
		if !seen[x] {
			seen[x] = true
			out = append(out, x)
		}
	}
	sort.Ints(out)
	return out
}

func TestSimilarity_Properties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	for _, m := range allMethods {
		f := m.Formula()

		properties.Property(m.String()+" is symmetric and bounded", prop.ForAll(
			func(xs, ys []int) bool {
				a, b := sortedSet(xs), sortedSet(ys)
				ab, ba := Between(f, a, b), Between(f, b, a)
				return ab == ba && ab >= 0 && ab <= 1
			},
			gen.SliceOf(gen.IntRange(0, 30)),
			gen.SliceOf(gen.IntRange(0, 30)),
		))

		properties.Property(m.String()+" of a set with itself is 1", prop.ForAll(
			func(xs []int) bool {
				a := sortedSet(xs)
				return Between(f, a, a) == 1
			},
			gen.SliceOf(gen.IntRange(0, 30)),
		))
	}

	properties.TestingRun(t)
}
