package predict

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultConfig_IsValid(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
}

func TestConfig_Validate_RejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative horizon", func(c *Config) { c.PredictionHorizon = -time.Minute }},
		{"zero trailing window", func(c *Config) { c.TrailingWindow = 0 }},
		{"zero burst window", func(c *Config) { c.BurstWindow = 0 }},
		{"burst min runs below 2", func(c *Config) { c.BurstMinRuns = 1 }},
		{"zero variation threshold", func(c *Config) { c.CronVariationThreshold = 0 }},
		{"prewarm threshold above 1", func(c *Config) { c.PrewarmThreshold = 1.5 }},
		{"negative burst confidence", func(c *Config) { c.BurstConfidence = -0.1 }},
		{"cron confidence bounds inverted", func(c *Config) { c.CronConfidenceMin = 0.96 }},
		{"on-demand bounds inverted", func(c *Config) { c.OnDemandConfidenceMin = 0.6 }},
		{"hour share above 1", func(c *Config) { c.HourShareThreshold = 1.1 }},
		{"hour min runs zero", func(c *Config) { c.HourMinRuns = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadConfig_PartialOverlayKeepsDefaults(t *testing.T) {
	// GIVEN an overlay that only changes two knobs
	path := writeConfig(t, "prediction_horizon_minutes: 10\nprewarm_confidence_threshold: 0.8\n")

	// WHEN loaded
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	// THEN named fields change, everything else keeps its default
	assert.Equal(t, 10*time.Minute, cfg.PredictionHorizon)
	assert.Equal(t, 0.8, cfg.PrewarmThreshold)
	assert.Equal(t, 24*time.Hour, cfg.TrailingWindow)
	assert.Equal(t, 3, cfg.BurstMinRuns)
	assert.Equal(t, 0.7, cfg.BurstConfidence)
}

func TestLoadConfig_UnknownKeyRejected(t *testing.T) {
	path := writeConfig(t, "predicton_horizon_minutes: 10\n") // typo

	_, err := LoadConfig(path)

	assert.Error(t, err)
}

func TestLoadConfig_InvalidMergedValueFailsAtLoadTime(t *testing.T) {
	// A bad deployment file must fail before the engine ever runs
	path := writeConfig(t, "prediction_horizon_minutes: -5\n")

	_, err := LoadConfig(path)

	assert.Error(t, err)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
