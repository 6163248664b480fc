// Package config handles planetgrid configuration loading and management.
package config

import (
	"fmt"

	"github.com/Faultbox/planetgrid/pkg/cubesphere"
	"github.com/Faultbox/planetgrid/pkg/math"
)

// Config holds all settings.
type Config struct {
	Planet  PlanetConfig  `yaml:"planet"`
	LOD     LODConfig     `yaml:"lod"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// PlanetConfig describes the planet being gridded.
type PlanetConfig struct {
	Radius     float64           `yaml:"radius"`     // Metres
	Center     math.WorldPos     `yaml:"center"`     // Absolute world units
	Projection cubesphere.Method `yaml:"projection"` // tangent or everitt
}

// LODConfig holds refinement settings for the LOD manager.
type LODConfig struct {
	MinLevel         uint8   `yaml:"min_level"`           // Finest level the manager may split to
	SplitFactor      float64 `yaml:"split_factor"`        // Split when distance < factor * edge length
	MergeFactor      float64 `yaml:"merge_factor"`        // Merge when distance > factor * edge length
	MaxSplitsPerTick int     `yaml:"max_splits_per_tick"` // 0 = unlimited
	Balance          bool    `yaml:"balance"`             // Keep neighbors within one level
	MinHeight        float64 `yaml:"min_height"`          // Default terrain height range
	MaxHeight        float64 `yaml:"max_height"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
	Format  string `yaml:"format"` // console or json
}

// MetricsConfig holds the Prometheus endpoint settings.
type MetricsConfig struct {
	Listen string `yaml:"listen"` // Empty disables the endpoint
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Planet: PlanetConfig{
			Radius:     6_371_000,
			Projection: cubesphere.MethodEveritt,
		},
		LOD: LODConfig{
			MinLevel:         4,
			SplitFactor:      2.0,
			MergeFactor:      2.5,
			MaxSplitsPerTick: 256,
			Balance:          true,
			MinHeight:        -11_000,
			MaxHeight:        9_000,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
			Format:  "console",
		},
	}
}

// Validate reports the first setting that cannot work.
func (c *Config) Validate() error {
	if c.Planet.Radius <= 0 {
		return fmt.Errorf("planet.radius must be positive, got %v", c.Planet.Radius)
	}
	if c.LOD.MinLevel > cubesphere.MaxLevel {
		return fmt.Errorf("lod.min_level must be at most %d, got %d", cubesphere.MaxLevel, c.LOD.MinLevel)
	}
	if c.LOD.SplitFactor <= 0 {
		return fmt.Errorf("lod.split_factor must be positive, got %v", c.LOD.SplitFactor)
	}
	if c.LOD.MergeFactor < c.LOD.SplitFactor {
		return fmt.Errorf("lod.merge_factor (%v) must not be below lod.split_factor (%v)", c.LOD.MergeFactor, c.LOD.SplitFactor)
	}
	if c.LOD.MaxSplitsPerTick < 0 {
		return fmt.Errorf("lod.max_splits_per_tick must not be negative, got %d", c.LOD.MaxSplitsPerTick)
	}
	if c.LOD.MaxHeight < c.LOD.MinHeight {
		return fmt.Errorf("lod.max_height (%v) is below lod.min_height (%v)", c.LOD.MaxHeight, c.LOD.MinHeight)
	}
	if -c.LOD.MinHeight >= c.Planet.Radius {
		return fmt.Errorf("lod.min_height (%v) reaches the planet centre", c.LOD.MinHeight)
	}
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}
