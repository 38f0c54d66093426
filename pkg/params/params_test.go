package params

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-cohesion/pkg/filters"
	"github.com/dd0wney/cluso-cohesion/pkg/parallel"
	"github.com/dd0wney/cluso-cohesion/pkg/seeding"
	"github.com/dd0wney/cluso-cohesion/pkg/similarity"
)

func TestDefault(t *testing.T) {
	p := Default()

	assert.Equal(t, 3, p.MinSize)
	assert.Equal(t, 0.3, p.MinDensity)
	assert.Equal(t, 0.8, p.OverlapThreshold)
	assert.Equal(t, 0.0, p.HaircutThreshold)
	assert.Equal(t, filters.SinglePass, p.HaircutPolicy)
	assert.Equal(t, 0, p.KCoreThreshold)
	assert.Equal(t, 2.0, p.NodePenalty)
	assert.False(t, p.FluffClusters)
	assert.Equal(t, similarity.Match, p.MergingMethod)
	assert.IsType(t, seeding.EveryNode{}, p.SeedGenerator)
	assert.False(t, p.HaircutNeeded())
}

func TestBuild_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
		cause  error
	}{
		{"unknown merging method", func(c *Config) { c.MergingMethod = "cosine" }, "merging_method", ErrUnknownMergingMethod},
		{"empty merging method", func(c *Config) { c.MergingMethod = "" }, "merging_method", ErrInvalidValue},
		{"unknown seed strategy", func(c *Config) { c.SeedStrategy = "cliques" }, "seed_strategy", ErrUnknownSeedStrategy},
		{"unknown haircut policy", func(c *Config) { c.HaircutPolicy = "cascade" }, "haircut_policy", ErrUnknownHaircutPolicy},
		{"zero min size", func(c *Config) { c.MinSize = 0 }, "min_size", ErrInvalidValue},
		{"negative density", func(c *Config) { c.MinDensity = -0.1 }, "min_density", ErrInvalidValue},
		{"NaN penalty", func(c *Config) { c.NodePenalty = math.NaN() }, "node_penalty", ErrInvalidValue},
		{"infinite overlap", func(c *Config) { c.OverlapThreshold = math.Inf(1) }, "overlap_threshold", ErrInvalidValue},
		{"negative workers", func(c *Config) { c.Workers = -1 }, "workers", ErrInvalidValue},
		{"too many workers", func(c *Config) { c.Workers = parallel.MaxWorkers + 1 }, "workers", ErrInvalidValue},
		{"absurd workers", func(c *Config) { c.Workers = math.MaxInt / 2 }, "workers", ErrInvalidValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			p, err := cfg.Build()
			require.Error(t, err)
			assert.Nil(t, p)

			var cerr *ConfigurationError
			require.True(t, errors.As(err, &cerr), "expected *ConfigurationError, got %T", err)
			assert.Equal(t, tt.field, cerr.Field)
			assert.ErrorIs(t, err, tt.cause)
		})
	}
}

func TestBuild_Aliases(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MergingMethod = "meet/min"
	cfg.SeedStrategy = "unused-nodes"
	cfg.HaircutPolicy = "fixed-point"
	cfg.HaircutThreshold = 0.5

	p, err := cfg.Build()
	require.NoError(t, err)
	assert.Equal(t, similarity.Simpson, p.MergingMethod)
	assert.True(t, p.SeedGenerator.NeedsClaims())
	assert.Equal(t, filters.FixedPoint, p.HaircutPolicy)
	assert.True(t, p.HaircutNeeded())
}

func TestHaircutNeeded(t *testing.T) {
	for threshold, want := range map[float64]bool{0: false, -1: false, 0.3: true, 1: true, 1.01: false} {
		cfg := DefaultConfig()
		cfg.HaircutThreshold = threshold
		p, err := cfg.Build()
		require.NoError(t, err)
		assert.Equal(t, want, p.HaircutNeeded(), "threshold %v", threshold)
	}
}

func TestParse(t *testing.T) {
	cfg, err := Parse(strings.NewReader("min_size: 5\nmerging_method: jaccard\nfluff_clusters: true\n"))
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.MinSize)
	assert.Equal(t, "jaccard", cfg.MergingMethod)
	assert.True(t, cfg.FluffClusters)
	// Untouched keys keep their defaults
	assert.Equal(t, 2.0, cfg.NodePenalty)
	assert.Equal(t, "nodes", cfg.SeedStrategy)
}

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestParse_UnknownKey(t *testing.T) {
	_, err := Parse(strings.NewReader("min_sise: 5\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedConfig)
}

func TestLoadFile_RoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.KCoreThreshold = 2
	cfg.MergingMethod = "dice"

	data, err := cfg.Marshal()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "cl1.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestWithSeedGenerator_Copies(t *testing.T) {
	p := Default()
	list, err := seeding.NewList(3, [][]int{{0, 1}})
	require.NoError(t, err)

	q := p.WithSeedGenerator(list)
	assert.Same(t, list, q.SeedGenerator)
	assert.IsType(t, seeding.EveryNode{}, p.SeedGenerator)

	w := p.WithWorkers(4)
	assert.Equal(t, 4, w.Workers)
	assert.Equal(t, 0, p.Workers)
}

func TestString(t *testing.T) {
	s := Default().String()
	assert.Contains(t, s, "Minimum size: 3")
	assert.Contains(t, s, "Haircut threshold: disabled")
	assert.Contains(t, s, "Merging method: match")
	assert.Contains(t, s, "Seed generator: nodes")
	assert.NotContains(t, s, "K-core")
}

func TestFilterOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.KCoreThreshold = 3
	cfg.FluffClusters = true
	p, err := cfg.Build()
	require.NoError(t, err)

	opts := p.FilterOptions()
	assert.Equal(t, 3, opts.KCoreThreshold)
	assert.True(t, opts.Fluff)
	assert.Equal(t, 0.3, opts.MinDensity)
	assert.Equal(t, 3, opts.MinSize)
}
