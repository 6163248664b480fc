package config

import (
	"flag"

	"github.com/Faultbox/planetgrid/pkg/cubesphere"
)

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagRadius     = flag.Float64("radius", 0, "Planet radius in metres")
	flagProjection = flag.String("projection", "", "Projection method: tangent or everitt")
	flagMinLevel   = flag.Int("min-level", -1, "Finest LOD level the manager may split to")
	flagLogFile    = flag.String("log-file", "", "Write logs to this file as well")
	flagMetrics    = flag.String("metrics", "", "Serve Prometheus metrics on this address")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
// An unknown projection name is ignored and the earlier value kept.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagRadius > 0 {
		cfg.Planet.Radius = *flagRadius
	}
	if *flagProjection != "" {
		if m, err := cubesphere.ParseMethod(*flagProjection); err == nil {
			cfg.Planet.Projection = m
		}
	}
	if *flagMinLevel >= 0 && *flagMinLevel <= cubesphere.MaxLevel {
		cfg.LOD.MinLevel = uint8(*flagMinLevel)
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
	if *flagMetrics != "" {
		cfg.Metrics.Listen = *flagMetrics
	}
}
