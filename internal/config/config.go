// Package config loads the replyforge configuration file. Every field is
// optional: a missing file, a missing section, or a zero value falls back to
// the shipped defaults, so a bare install works with no config at all.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/replyforge/replyforge/internal/reply"
	"github.com/replyforge/replyforge/internal/scorer"
)

// Config is the replyforge configuration.
type Config struct {
	// StorePath is the SQLite store location (empty = default path).
	StorePath string `yaml:"store_path"`

	// LogLevel is debug, info, warn, or error.
	LogLevel string `yaml:"log_level"`

	// FlushIntervalMs is the usage-ledger write-behind cadence.
	FlushIntervalMs int `yaml:"flush_interval_ms"`

	// Scoring tunes the feature scorer.
	Scoring Scoring `yaml:"scoring"`
}

// Scoring mirrors scorer.Config in YAML form. The weight table and policy
// knobs live here so they are tuned in one place, never re-derived inline.
type Scoring struct {
	Weights          scorer.Weights `yaml:"weights"`
	UsageSaturation  int            `yaml:"usage_saturation"`
	ColdStartMinUses int            `yaml:"cold_start_min_uses"`
	WorkStartHour    int            `yaml:"work_start_hour"`
	WorkEndHour      int            `yaml:"work_end_hour"`
	LongThreadLen    int            `yaml:"long_thread_len"`
	Taxonomy         reply.Taxonomy `yaml:"taxonomy"`
}

// Default returns the shipped configuration.
func Default() Config {
	sc := scorer.DefaultConfig()
	return Config{
		StorePath:       DefaultStorePath(),
		LogLevel:        "info",
		FlushIntervalMs: 2000,
		Scoring: Scoring{
			Weights:          sc.Weights,
			UsageSaturation:  sc.UsageSaturation,
			ColdStartMinUses: sc.ColdStartMinUses,
			WorkStartHour:    sc.WorkStartHour,
			WorkEndHour:      sc.WorkEndHour,
			LongThreadLen:    sc.LongThreadLen,
			Taxonomy:         sc.Taxonomy,
		},
	}
}

// Load reads the config at path, layering it over the defaults. A missing
// file is not an error; a malformed one is.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg.normalized(), nil
}

// normalized backfills zero values with defaults after a partial file.
func (c Config) normalized() Config {
	d := Default()
	if c.StorePath == "" {
		c.StorePath = d.StorePath
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	if c.FlushIntervalMs <= 0 {
		c.FlushIntervalMs = d.FlushIntervalMs
	}
	if c.Scoring.UsageSaturation <= 0 {
		c.Scoring.UsageSaturation = d.Scoring.UsageSaturation
	}
	if c.Scoring.ColdStartMinUses <= 0 {
		c.Scoring.ColdStartMinUses = d.Scoring.ColdStartMinUses
	}
	if c.Scoring.WorkStartHour == 0 && c.Scoring.WorkEndHour == 0 {
		c.Scoring.WorkStartHour = d.Scoring.WorkStartHour
		c.Scoring.WorkEndHour = d.Scoring.WorkEndHour
	}
	if c.Scoring.LongThreadLen <= 0 {
		c.Scoring.LongThreadLen = d.Scoring.LongThreadLen
	}
	if c.Scoring.Taxonomy == nil {
		c.Scoring.Taxonomy = d.Scoring.Taxonomy
	}
	return c
}

// ScorerConfig converts the YAML form into the scorer's config.
func (c Config) ScorerConfig() scorer.Config {
	return scorer.Config{
		Weights:          c.Scoring.Weights,
		UsageSaturation:  c.Scoring.UsageSaturation,
		ColdStartMinUses: c.Scoring.ColdStartMinUses,
		WorkStartHour:    c.Scoring.WorkStartHour,
		WorkEndHour:      c.Scoring.WorkEndHour,
		LongThreadLen:    c.Scoring.LongThreadLen,
		Taxonomy:         c.Scoring.Taxonomy,
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	if dir := os.Getenv("REPLYFORGE_CONFIG_DIR"); dir != "" {
		return filepath.Join(dir, "config.yaml")
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(base, "replyforge", "config.yaml")
}

// DefaultStorePath returns the default SQLite store location.
func DefaultStorePath() string {
	if dir := os.Getenv("REPLYFORGE_DATA_DIR"); dir != "" {
		return filepath.Join(dir, "replyforge.db")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "replyforge.db"
	}
	return filepath.Join(home, ".local", "share", "replyforge", "replyforge.db")
}
