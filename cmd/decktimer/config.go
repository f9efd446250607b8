package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/decktimer/decktimer-go/pkg/engine"
)

// fileConfig is the optional YAML configuration file. All fields are
// optional; zero values leave the engine defaults untouched.
type fileConfig struct {
	// TickIntervalMs is the per-group render/advance period.
	TickIntervalMs int `yaml:"tickIntervalMs"`

	// HoldDelayMs is the tap/hold classification threshold.
	HoldDelayMs int `yaml:"holdDelayMs"`

	// HoldRepeatMs is the repeat period for held incremental actions.
	HoldRepeatMs int `yaml:"holdRepeatMs"`

	// DefaultDurationSeconds is the countdown for new groups.
	DefaultDurationSeconds int `yaml:"defaultDurationSeconds"`

	// LogLevel and LogFile apply when the matching flags are unset.
	LogLevel string `yaml:"logLevel"`
	LogFile  string `yaml:"logFile"`
}

// loadConfigFile reads and parses the YAML configuration. An empty path
// yields the zero config.
func loadConfigFile(path string) (fileConfig, error) {
	var cfg fileConfig
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config file: %w", err)
	}
	return cfg, nil
}

// apply copies the set fields onto an engine configuration.
func (c fileConfig) apply(engCfg *engine.Config) {
	if c.TickIntervalMs > 0 {
		engCfg.TickInterval = time.Duration(c.TickIntervalMs) * time.Millisecond
	}
	if c.HoldDelayMs > 0 {
		engCfg.HoldDelay = time.Duration(c.HoldDelayMs) * time.Millisecond
	}
	if c.HoldRepeatMs > 0 {
		engCfg.HoldRepeat = time.Duration(c.HoldRepeatMs) * time.Millisecond
	}
	if c.DefaultDurationSeconds > 0 {
		engCfg.DefaultDuration = time.Duration(c.DefaultDurationSeconds) * time.Second
	}
}
