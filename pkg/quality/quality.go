// Package quality scores candidate node sets by how cohesive they are.
package quality

// Function scores a node set from its aggregates alone. Implementations must
// be O(1) so that the growth engine can evaluate hypothetical moves cheaply.
type Function interface {
	Score(internal, boundary float64, size int) float64
}

// Cohesiveness is the ClusterONE cohesiveness function:
//
//	in / (in + boundary + penalty*size)
//
// Penalty acts as extra boundary weight charged to every member, which
// discounts small sets held together by a single heavy edge.
type Cohesiveness struct {
	Penalty float64
}

// NewCohesiveness returns a cohesiveness function with the given node penalty.
func NewCohesiveness(penalty float64) Cohesiveness {
	return Cohesiveness{Penalty: penalty}
}

// Score implements Function. The empty set and sets with a zero denominator
// score 0.
func (c Cohesiveness) Score(internal, boundary float64, size int) float64 {
	if size <= 0 {
		return 0
	}
	denom := internal + boundary + c.Penalty*float64(size)
	if denom <= 0 {
		return 0
	}
	return internal / denom
}
