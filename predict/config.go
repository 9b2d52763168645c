package predict

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds every tunable of the engine. All numeric thresholds are
// deployment choices, not fixed behavior; DefaultConfig gives the stock
// values. An invalid Config is rejected by NewEngine before any prediction
// runs.
type Config struct {
	PredictionHorizon time.Duration // how far ahead a run must fall to be predicted (default 5m)
	TrailingWindow    time.Duration // recency window for RecentRunCount (default 24h)
	BurstWindow       time.Duration // sub-window for burst detection (default 10m)
	BurstMinRuns      int           // runs inside BurstWindow that constitute a burst (default 3)

	CronVariationThreshold float64 // coefficient-of-variation cutoff for the cron label (default 0.15)
	PrewarmThreshold       float64 // confidence at or above which action is prewarm (default 0.6)

	CronConfidenceMax float64 // cron confidence at zero interval variance (default 0.95)
	CronConfidenceMin float64 // cron confidence as variance approaches the cutoff (default 0.5)
	BurstConfidence   float64 // fixed confidence for an active burst (default 0.7)

	HourShareThreshold    float64 // min fraction of all runs in the current hour bucket (default 0.3)
	HourMinRuns           int     // min absolute runs in the current hour bucket (default 3)
	OnDemandConfidenceMin float64 // hour-of-day heuristic confidence floor (default 0.3)
	OnDemandConfidenceMax float64 // hour-of-day heuristic confidence ceiling (default 0.55)
}

// DefaultConfig returns the stock engine configuration.
func DefaultConfig() Config {
	return Config{
		PredictionHorizon:      5 * time.Minute,
		TrailingWindow:         24 * time.Hour,
		BurstWindow:            10 * time.Minute,
		BurstMinRuns:           3,
		CronVariationThreshold: 0.15,
		PrewarmThreshold:       0.6,
		CronConfidenceMax:      0.95,
		CronConfidenceMin:      0.5,
		BurstConfidence:        0.7,
		HourShareThreshold:     0.3,
		HourMinRuns:            3,
		OnDemandConfidenceMin:  0.3,
		OnDemandConfidenceMax:  0.55,
	}
}

// Validate rejects configurations that would make scoring meaningless.
// Called by NewEngine; a failure here is fatal to engine construction.
func (c Config) Validate() error {
	if c.PredictionHorizon <= 0 {
		return fmt.Errorf("prediction horizon must be positive, got %s", c.PredictionHorizon)
	}
	if c.TrailingWindow <= 0 {
		return fmt.Errorf("trailing window must be positive, got %s", c.TrailingWindow)
	}
	if c.BurstWindow <= 0 {
		return fmt.Errorf("burst window must be positive, got %s", c.BurstWindow)
	}
	if c.BurstMinRuns < 2 {
		return fmt.Errorf("burst min runs must be at least 2, got %d", c.BurstMinRuns)
	}
	if c.CronVariationThreshold <= 0 {
		return fmt.Errorf("cron variation threshold must be positive, got %v", c.CronVariationThreshold)
	}
	for name, v := range map[string]float64{
		"prewarm_confidence_threshold": c.PrewarmThreshold,
		"cron_confidence_max":          c.CronConfidenceMax,
		"cron_confidence_min":          c.CronConfidenceMin,
		"burst_confidence":             c.BurstConfidence,
		"on_demand_confidence_min":     c.OnDemandConfidenceMin,
		"on_demand_confidence_max":     c.OnDemandConfidenceMax,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%s must be in [0, 1], got %v", name, v)
		}
	}
	if c.CronConfidenceMin > c.CronConfidenceMax {
		return fmt.Errorf("cron_confidence_min %v exceeds cron_confidence_max %v", c.CronConfidenceMin, c.CronConfidenceMax)
	}
	if c.OnDemandConfidenceMin > c.OnDemandConfidenceMax {
		return fmt.Errorf("on_demand_confidence_min %v exceeds on_demand_confidence_max %v", c.OnDemandConfidenceMin, c.OnDemandConfidenceMax)
	}
	if c.HourShareThreshold <= 0 || c.HourShareThreshold > 1 {
		return fmt.Errorf("hour_share_threshold must be in (0, 1], got %v", c.HourShareThreshold)
	}
	if c.HourMinRuns < 1 {
		return fmt.Errorf("hour_min_runs must be at least 1, got %d", c.HourMinRuns)
	}
	return nil
}

// fileConfig is the YAML overlay schema. Every field is optional; absent
// fields keep their defaults. Window sizes use the unit named in the key.
type fileConfig struct {
	PredictionHorizonMinutes   *int     `yaml:"prediction_horizon_minutes"`
	TrailingWindowHours        *int     `yaml:"trailing_window_hours"`
	BurstWindowMinutes         *int     `yaml:"burst_window_minutes"`
	BurstMinRuns               *int     `yaml:"burst_min_runs"`
	CronVariationThreshold     *float64 `yaml:"cron_variation_threshold"`
	PrewarmConfidenceThreshold *float64 `yaml:"prewarm_confidence_threshold"`
	CronConfidenceMax          *float64 `yaml:"cron_confidence_max"`
	CronConfidenceMin          *float64 `yaml:"cron_confidence_min"`
	BurstConfidence            *float64 `yaml:"burst_confidence"`
	HourShareThreshold         *float64 `yaml:"hour_share_threshold"`
	HourMinRuns                *int     `yaml:"hour_min_runs"`
	OnDemandConfidenceMin      *float64 `yaml:"on_demand_confidence_min"`
	OnDemandConfidenceMax      *float64 `yaml:"on_demand_confidence_max"`
}

// LoadConfig reads a YAML overlay and applies it on top of DefaultConfig.
// Uses strict parsing: unrecognized keys (typos) are rejected. The merged
// result is validated so a bad deployment file fails at load time.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	var fc fileConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&fc); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}

	cfg := DefaultConfig()
	if fc.PredictionHorizonMinutes != nil {
		cfg.PredictionHorizon = time.Duration(*fc.PredictionHorizonMinutes) * time.Minute
	}
	if fc.TrailingWindowHours != nil {
		cfg.TrailingWindow = time.Duration(*fc.TrailingWindowHours) * time.Hour
	}
	if fc.BurstWindowMinutes != nil {
		cfg.BurstWindow = time.Duration(*fc.BurstWindowMinutes) * time.Minute
	}
	if fc.BurstMinRuns != nil {
		cfg.BurstMinRuns = *fc.BurstMinRuns
	}
	if fc.CronVariationThreshold != nil {
		cfg.CronVariationThreshold = *fc.CronVariationThreshold
	}
	if fc.PrewarmConfidenceThreshold != nil {
		cfg.PrewarmThreshold = *fc.PrewarmConfidenceThreshold
	}
	if fc.CronConfidenceMax != nil {
		cfg.CronConfidenceMax = *fc.CronConfidenceMax
	}
	if fc.CronConfidenceMin != nil {
		cfg.CronConfidenceMin = *fc.CronConfidenceMin
	}
	if fc.BurstConfidence != nil {
		cfg.BurstConfidence = *fc.BurstConfidence
	}
	if fc.HourShareThreshold != nil {
		cfg.HourShareThreshold = *fc.HourShareThreshold
	}
	if fc.HourMinRuns != nil {
		cfg.HourMinRuns = *fc.HourMinRuns
	}
	if fc.OnDemandConfidenceMin != nil {
		cfg.OnDemandConfidenceMin = *fc.OnDemandConfidenceMin
	}
	if fc.OnDemandConfidenceMax != nil {
		cfg.OnDemandConfidenceMax = *fc.OnDemandConfidenceMax
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}
