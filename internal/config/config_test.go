package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/replyforge/replyforge/internal/scorer"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_MissingFileFallsBackToDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_PartialFileLayersOverDefaults(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
log_level: debug
scoring:
  usage_saturation: 25
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 25, cfg.Scoring.UsageSaturation)

	// Untouched fields keep their defaults.
	d := Default()
	assert.Equal(t, d.FlushIntervalMs, cfg.FlushIntervalMs)
	assert.Equal(t, d.Scoring.ColdStartMinUses, cfg.Scoring.ColdStartMinUses)
	assert.Equal(t, d.Scoring.Weights, cfg.Scoring.Weights)
	assert.NotEmpty(t, cfg.Scoring.Taxonomy)
}

func TestLoad_MalformedFileIsAnError(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "scoring: [this is not\n  a mapping")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_CustomWeightsAndTaxonomy(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
scoring:
  weights:
    context_match: 0.5
    usage: 0.5
  taxonomy:
    - category: sports
      keywords: [goal, match]
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 0.5, cfg.Scoring.Weights.ContextMatch)
	assert.Equal(t, 0.5, cfg.Scoring.Weights.Usage)
	require.Len(t, cfg.Scoring.Taxonomy, 1)
	assert.Equal(t, "sports", cfg.Scoring.Taxonomy[0].Category)
	assert.Equal(t, []string{"goal", "match"}, cfg.Scoring.Taxonomy[0].Keywords)
}

func TestScorerConfig_MirrorsScoringSection(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Scoring.WorkStartHour = 8
	cfg.Scoring.WorkEndHour = 18

	sc := cfg.ScorerConfig()
	assert.Equal(t, 8, sc.WorkStartHour)
	assert.Equal(t, 18, sc.WorkEndHour)
	assert.Equal(t, scorer.DefaultWeights(), sc.Weights)
}

func TestDefaultPaths_HonorEnvOverrides(t *testing.T) {
	t.Setenv("REPLYFORGE_CONFIG_DIR", "/tmp/rf-conf")
	t.Setenv("REPLYFORGE_DATA_DIR", "/tmp/rf-data")

	assert.Equal(t, filepath.Join("/tmp/rf-conf", "config.yaml"), DefaultPath())
	assert.Equal(t, filepath.Join("/tmp/rf-data", "replyforge.db"), DefaultStorePath())
}
