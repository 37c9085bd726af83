// Package config holds the tolerances and tunables shared by the kerf
// geometry kernel. Values are loaded from YAML over a set of defaults.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full set of kernel tunables. All distances are in working
// units unless noted otherwise.
type Config struct {
	// MergeEpsilon is the distance under which mesh vertices are merged.
	MergeEpsilon float64 `yaml:"merge_epsilon"`
	// SliceEpsilon offsets the two auxiliary test planes used by the slicer.
	SliceEpsilon float64 `yaml:"slice_epsilon"`
	// SnapDistance groups segment endpoints during loop stitching, in fixed units.
	SnapDistance int64 `yaml:"snap_distance"`
	// EarClipRetryFactor bounds failed ear attempts at factor * remaining vertices.
	EarClipRetryFactor int `yaml:"ear_clip_retry_factor"`
	// ArcTolerance is the maximum deviation of round joins produced by offsets.
	ArcTolerance float64 `yaml:"arc_tolerance"`
	// MeshCells is the marching cubes resolution used when meshing solids.
	MeshCells int `yaml:"mesh_cells"`
	// EvalTimeout is the hard limit for a single script evaluation.
	EvalTimeout time.Duration `yaml:"eval_timeout"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		MergeEpsilon:       1e-6,
		SliceEpsilon:       1e-5,
		SnapDistance:       2,
		EarClipRetryFactor: 2,
		ArcTolerance:       1e-3,
		MeshCells:          64,
		EvalTimeout:        5 * time.Second,
	}
}

// Load reads a YAML file and applies it over Default.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML data over Default and validates the result.
// Keys missing from data keep their default values.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first out-of-range value.
func (c Config) Validate() error {
	switch {
	case c.MergeEpsilon < 0:
		return fmt.Errorf("config: merge_epsilon is %g, must not be negative", c.MergeEpsilon)
	case c.SliceEpsilon < 0:
		return fmt.Errorf("config: slice_epsilon is %g, must not be negative", c.SliceEpsilon)
	case c.SnapDistance < 0:
		return fmt.Errorf("config: snap_distance is %d, must not be negative", c.SnapDistance)
	case c.EarClipRetryFactor < 1:
		return fmt.Errorf("config: ear_clip_retry_factor is %d, must be at least 1", c.EarClipRetryFactor)
	case c.ArcTolerance <= 0:
		return fmt.Errorf("config: arc_tolerance is %g, must be positive", c.ArcTolerance)
	case c.MeshCells < 8:
		return fmt.Errorf("config: mesh_cells is %d, must be at least 8", c.MeshCells)
	case c.EvalTimeout <= 0:
		return fmt.Errorf("config: eval_timeout is %s, must be positive", c.EvalTimeout)
	}
	return nil
}
