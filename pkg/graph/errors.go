package graph

import (
	"errors"
	"fmt"
)

// Sentinel errors for rejected input
var (
	ErrNodeOutOfRange  = errors.New("node index out of range")
	ErrSelfLoop        = errors.New("self-loop not allowed")
	ErrNegativeWeight  = errors.New("negative edge weight")
	ErrNonFiniteWeight = errors.New("edge weight is not finite")
	ErrNegativeSize    = errors.New("negative node count")
	ErrBuilderConsumed = errors.New("builder already built")
)

// EdgeError describes an edge that was rejected at the ingestion boundary.
type EdgeError struct {
	Op     string // Operation that failed (e.g., "AddEdge")
	U      int
	V      int
	Weight float64
	Err    error
}

// Error implements the error interface.
func (e *EdgeError) Error() string {
	if e.V < 0 {
		return fmt.Sprintf("%s node %d: %v", e.Op, e.U, e.Err)
	}
	return fmt.Sprintf("%s edge (%d, %d, %g): %v", e.Op, e.U, e.V, e.Weight, e.Err)
}

// Unwrap returns the underlying cause for error chain support.
func (e *EdgeError) Unwrap() error {
	return e.Err
}
