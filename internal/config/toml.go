// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Practice PracticeConfig `toml:"practice"`
	Metric   MetricConfig   `toml:"metric"`
}

// PracticeConfig maps practice-related settings.
type PracticeConfig struct {
	Lang            *string  `toml:"lang"`
	LineWidth       *int     `toml:"line-width"`
	MaxErrors       *int     `toml:"max-errors"`
	NextLines       *int     `toml:"next-lines"`
	RefillThreshold *int     `toml:"refill-threshold"`
	RefillBatch     *int     `toml:"refill-batch"`
	WeakFactor      *float64 `toml:"weak-factor"`
	MinCleanPct     *float64 `toml:"min-clean"`
}

// MetricConfig maps the severity metric breakpoints.
type MetricConfig struct {
	Lo  *float64 `toml:"lo"`
	Mid *float64 `toml:"mid"`
	Hi  *float64 `toml:"hi"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
