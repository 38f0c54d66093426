// Package params holds the clustering parameters. A Config is the raw,
// user-editable form (YAML, flags); Build validates it into immutable
// Parameters or fails with a *ConfigurationError.
package params

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-cohesion/pkg/filters"
	"github.com/dd0wney/cluso-cohesion/pkg/seeding"
	"github.com/dd0wney/cluso-cohesion/pkg/similarity"
	"github.com/dd0wney/cluso-cohesion/pkg/validation"
)

// Config is the user-facing parameter bundle.
type Config struct {
	MinSize          int     `yaml:"min_size" validate:"min=1"`
	MinDensity       float64 `yaml:"min_density" validate:"finite,min=0"`
	OverlapThreshold float64 `yaml:"overlap_threshold" validate:"finite,min=0"`
	HaircutThreshold float64 `yaml:"haircut_threshold" validate:"finite"`
	HaircutPolicy    string  `yaml:"haircut_policy" validate:"required"`
	KCoreThreshold   int     `yaml:"kcore_threshold"`
	NodePenalty      float64 `yaml:"node_penalty" validate:"finite"`
	FluffClusters    bool    `yaml:"fluff_clusters"`
	MergingMethod    string  `yaml:"merging_method" validate:"required"`
	SeedStrategy     string  `yaml:"seed_strategy" validate:"required"`
	Workers          int     `yaml:"workers" validate:"min=0,max=4096"`
}

// DefaultConfig returns the defaults, which suit PPI networks with
// confidence-weighted edges.
func DefaultConfig() Config {
	return Config{
		MinSize:          3,
		MinDensity:       0.3,
		OverlapThreshold: 0.8,
		HaircutThreshold: 0,
		HaircutPolicy:    filters.SinglePass.String(),
		KCoreThreshold:   0,
		NodePenalty:      2.0,
		FluffClusters:    false,
		MergingMethod:    similarity.Match.String(),
		SeedStrategy:     seeding.EveryNode{}.String(),
		Workers:          0,
	}
}

// Parse reads YAML over the defaults. Keys that are absent keep their default;
// unknown keys are rejected.
func Parse(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, &ConfigurationError{Err: fmt.Errorf("%w: %v", ErrMalformedConfig, err)}
	}
	return cfg, nil
}

// LoadFile reads a YAML configuration file.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(bytes.NewReader(data))
}

// Marshal renders the configuration as YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Build validates the configuration and resolves every named strategy.
func (c Config) Build() (*Parameters, error) {
	if err := validation.Struct(c); err != nil {
		return nil, formatValidationError(err)
	}

	method, err := similarity.ParseMethod(c.MergingMethod)
	if err != nil {
		return nil, &ConfigurationError{Field: "merging_method", Value: c.MergingMethod, Err: err}
	}
	seeds, err := seeding.Parse(c.SeedStrategy)
	if err != nil {
		return nil, &ConfigurationError{Field: "seed_strategy", Value: c.SeedStrategy, Err: err}
	}
	policy, err := filters.ParseHaircutPolicy(c.HaircutPolicy)
	if err != nil {
		return nil, &ConfigurationError{Field: "haircut_policy", Value: c.HaircutPolicy, Err: err}
	}

	return &Parameters{
		MinSize:          c.MinSize,
		MinDensity:       c.MinDensity,
		OverlapThreshold: c.OverlapThreshold,
		HaircutThreshold: c.HaircutThreshold,
		HaircutPolicy:    policy,
		KCoreThreshold:   c.KCoreThreshold,
		NodePenalty:      c.NodePenalty,
		FluffClusters:    c.FluffClusters,
		MergingMethod:    method,
		SeedGenerator:    seeds,
		Workers:          c.Workers,
	}, nil
}

// formatValidationError converts the first validation failure into a
// ConfigurationError.
func formatValidationError(err error) error {
	var fe *validation.FieldError
	if !errors.As(err, &fe) {
		return &ConfigurationError{Err: fmt.Errorf("%w: %v", ErrInvalidValue, err)}
	}
	return &ConfigurationError{
		Field: fe.Field,
		Value: fe.Value,
		Err:   fmt.Errorf("%w: %s", ErrInvalidValue, fe.Reason()),
	}
}
