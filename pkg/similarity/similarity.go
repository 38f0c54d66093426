// Package similarity measures the overlap between two node sets.
package similarity

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownMethod is returned by ParseMethod for names it does not recognise.
var ErrUnknownMethod = errors.New("unknown merging method")

// Method selects which similarity formula to use.
type Method int

const (
	Match   Method = iota // |A∩B| / max(|A|,|B|)
	Jaccard               // |A∩B| / |A∪B|
	Dice                  // 2|A∩B| / (|A|+|B|)
	Simpson               // |A∩B| / min(|A|,|B|), also called meet/min
)

// String returns the canonical configuration name of the method.
func (m Method) String() string {
	switch m {
	case Match:
		return "match"
	case Jaccard:
		return "jaccard"
	case Dice:
		return "dice"
	case Simpson:
		return "simpson"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// ParseMethod converts a configuration name into a Method. Matching is
// case-insensitive and "meet/min" is accepted for Simpson.
func ParseMethod(name string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "match":
		return Match, nil
	case "jaccard":
		return Jaccard, nil
	case "dice":
		return Dice, nil
	case "simpson", "meet/min":
		return Simpson, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMethod, name)
}

// Formula computes a similarity from the intersection size and the two set
// sizes. Both sizes are positive when a Formula is called.
type Formula func(common, sizeA, sizeB int) float64

// Formula returns the formula for m. Resolve it once per run and reuse it.
// It panics on a Method value that ParseMethod can never produce.
func (m Method) Formula() Formula {
	switch m {
	case Match:
		return match
	case Jaccard:
		return jaccard
	case Dice:
		return dice
	case Simpson:
		return simpson
	}
	panic(fmt.Sprintf("similarity: invalid method %d", int(m)))
}

func match(common, a, b int) float64 {
	return float64(common) / float64(max(a, b))
}

func jaccard(common, a, b int) float64 {
	return float64(common) / float64(a+b-common)
}

func dice(common, a, b int) float64 {
	return 2 * float64(common) / float64(a+b)
}

func simpson(common, a, b int) float64 {
	return float64(common) / float64(min(a, b))
}

// Between applies f to two ascending member lists. Two empty sets are
// identical and score 1; an empty set against a non-empty one scores 0.
func Between(f Formula, a, b []int) float64 {
	switch {
	case len(a) == 0 && len(b) == 0:
		return 1
	case len(a) == 0 || len(b) == 0:
		return 0
	}
	common := Intersection(a, b)
	if common == 0 {
		return 0
	}
	return f(common, len(a), len(b))
}

// Intersection counts the elements shared by two ascending lists.
func Intersection(a, b []int) int {
	common := 0
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			i++
		case a[i] > b[j]:
			j++
		default:
			common++
			i++
			j++
		}
	}
	return common
}
