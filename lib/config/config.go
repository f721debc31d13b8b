// Copyright 2026 The Streetsim Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for a
// simulation run. Configuration comes from a single file passed
// explicitly, with no fallbacks and no home-directory discovery, so
// a run is reproducible from its config file and network file alone.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the full configuration of one simulation run.
type Config struct {
	// NetworkPath is the JSONC road-network file.
	NetworkPath string `yaml:"network_path"`

	// EventDB is the SQLite file parking events are appended to.
	// Empty disables event persistence.
	EventDB string `yaml:"event_db"`

	// Snapshot configures save/resume.
	Snapshot SnapshotConfig `yaml:"snapshot"`

	// Run configures the stepping loop.
	Run RunConfig `yaml:"run"`
}

// SnapshotConfig configures state persistence.
type SnapshotConfig struct {
	// Path is where the final snapshot is written, and where
	// --resume reads from. Empty disables snapshotting.
	Path string `yaml:"path"`

	// Compression is the save-file compression: none, lz4, or
	// zstd. Default zstd.
	Compression string `yaml:"compression"`
}

// RunConfig configures the scenario driver.
type RunConfig struct {
	// Steps is how many simulation steps to run.
	Steps int `yaml:"steps"`

	// Seed feeds the deterministic RNG. Two runs with the same
	// seed, config, and network are identical.
	Seed int64 `yaml:"seed"`

	// SeedFraction is the share of spots filled with parked cars
	// before the first step, in [0, 1].
	SeedFraction float64 `yaml:"seed_fraction"`

	// ChurnFraction is the share of parked cars that depart and
	// repark each step, in [0, 1].
	ChurnFraction float64 `yaml:"churn_fraction"`
}

// Default returns a configuration with working defaults for
// everything except NetworkPath, which has no sensible default.
func Default() *Config {
	return &Config{
		Snapshot: SnapshotConfig{Compression: "zstd"},
		Run: RunConfig{
			Steps:         100,
			Seed:          1,
			SeedFraction:  0.5,
			ChurnFraction: 0.05,
		},
	}
}

// LoadFile reads path into a Config on top of the defaults and
// validates the result.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks field ranges. It does not touch the filesystem;
// missing network files surface when they are opened.
func (c *Config) Validate() error {
	if c.NetworkPath == "" {
		return fmt.Errorf("network_path is required")
	}
	if c.Run.Steps < 0 {
		return fmt.Errorf("run.steps must not be negative")
	}
	if c.Run.SeedFraction < 0 || c.Run.SeedFraction > 1 {
		return fmt.Errorf("run.seed_fraction %v outside [0, 1]", c.Run.SeedFraction)
	}
	if c.Run.ChurnFraction < 0 || c.Run.ChurnFraction > 1 {
		return fmt.Errorf("run.churn_fraction %v outside [0, 1]", c.Run.ChurnFraction)
	}
	switch c.Snapshot.Compression {
	case "", "none", "lz4", "zstd":
	default:
		return fmt.Errorf("snapshot.compression %q is not none, lz4, or zstd", c.Snapshot.Compression)
	}
	return nil
}
