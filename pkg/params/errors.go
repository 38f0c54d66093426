package params

import (
	"errors"
	"fmt"

	"github.com/dd0wney/cluso-cohesion/pkg/filters"
	"github.com/dd0wney/cluso-cohesion/pkg/seeding"
	"github.com/dd0wney/cluso-cohesion/pkg/similarity"
)

// Sentinel errors wrapped by ConfigurationError
var (
	ErrInvalidValue         = errors.New("invalid value")
	ErrMalformedConfig      = errors.New("malformed configuration")
	ErrUnknownMergingMethod = similarity.ErrUnknownMethod
	ErrUnknownSeedStrategy  = seeding.ErrUnknownStrategy
	ErrUnknownHaircutPolicy = filters.ErrUnknownHaircutPolicy
)

// ConfigurationError reports a parameter that was rejected while building
// Parameters. It is always returned before any clustering starts.
type ConfigurationError struct {
	Field string // configuration key, e.g. "merging_method"
	Value any    // offending value, if any
	Err   error  // underlying cause
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("configuration: %v", e.Err)
	}
	return fmt.Sprintf("configuration %s=%v: %v", e.Field, e.Value, e.Err)
}

// Unwrap returns the underlying cause for error chain support.
func (e *ConfigurationError) Unwrap() error {
	return e.Err
}
