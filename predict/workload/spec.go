// Package workload generates synthetic execution histories: realistic
// cron / on-demand / bursty record mixes for seeding demos and exercising
// the engine in tests. Generation is seeded and deterministic.
package workload

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/coldstart/prewarm/predict"
)

// Spec is the top-level scenario description, loadable from YAML via
// LoadSpec(path).
type Spec struct {
	Seed         int64     `yaml:"seed"`
	LookbackDays int       `yaml:"lookback_days"` // history length ending at the reference time
	Jobs         []JobSpec `yaml:"jobs"`
}

// JobSpec describes one recurring job's synthetic behavior. Which fields
// apply depends on the trigger kind.
type JobSpec struct {
	JobID   string              `yaml:"job_id"`
	Trigger predict.TriggerKind `yaml:"trigger"`

	IntervalMinutes int    `yaml:"interval_minutes,omitempty"` // cron: fixed gap between runs
	Schedule        string `yaml:"schedule,omitempty"`         // cron: standard cron expression; overrides interval_minutes

	RunsPerDay float64 `yaml:"runs_per_day,omitempty"` // on_demand: average daily run count
	BurstSize  int     `yaml:"burst_size,omitempty"`   // bursty: runs per burst

	SuccessRate float64 `yaml:"success_rate"`
}

// DefaultSpec is a week of the stock demo mix: three cron jobs at different
// cadences, two on-demand jobs, and three bursty compute jobs.
func DefaultSpec() *Spec {
	return &Spec{
		Seed:         42,
		LookbackDays: 7,
		Jobs: []JobSpec{
			{JobID: "backup_daily", Trigger: predict.TriggerCron, IntervalMinutes: 1440, SuccessRate: 0.95},
			{JobID: "cleanup_logs", Trigger: predict.TriggerCron, IntervalMinutes: 360, SuccessRate: 0.98},
			{JobID: "health_check", Trigger: predict.TriggerCron, IntervalMinutes: 15, SuccessRate: 0.99},
			{JobID: "user_report", Trigger: predict.TriggerOnDemand, RunsPerDay: 5, SuccessRate: 0.90},
			{JobID: "data_export", Trigger: predict.TriggerOnDemand, RunsPerDay: 3, SuccessRate: 0.85},
			{JobID: "ai_video_process", Trigger: predict.TriggerBursty, BurstSize: 8, SuccessRate: 0.80},
			{JobID: "ml_training", Trigger: predict.TriggerBursty, BurstSize: 12, SuccessRate: 0.75},
			{JobID: "image_analysis", Trigger: predict.TriggerBursty, BurstSize: 15, SuccessRate: 0.82},
		},
	}
}

// Validate rejects specs that cannot generate a coherent history.
func (s *Spec) Validate() error {
	if s.LookbackDays <= 0 {
		return fmt.Errorf("lookback_days must be positive, got %d", s.LookbackDays)
	}
	if len(s.Jobs) == 0 {
		return fmt.Errorf("spec has no jobs")
	}
	seen := make(map[string]bool)
	for i, job := range s.Jobs {
		if job.JobID == "" {
			return fmt.Errorf("jobs[%d]: empty job_id", i)
		}
		if seen[job.JobID] {
			return fmt.Errorf("duplicate job_id %q", job.JobID)
		}
		seen[job.JobID] = true
		if job.SuccessRate < 0 || job.SuccessRate > 1 {
			return fmt.Errorf("job %q: success_rate must be in [0, 1], got %v", job.JobID, job.SuccessRate)
		}
		switch job.Trigger {
		case predict.TriggerCron:
			if job.Schedule == "" && job.IntervalMinutes <= 0 {
				return fmt.Errorf("job %q: cron trigger needs a schedule or a positive interval_minutes", job.JobID)
			}
		case predict.TriggerOnDemand:
			if job.RunsPerDay <= 0 {
				return fmt.Errorf("job %q: on_demand trigger needs a positive runs_per_day", job.JobID)
			}
		case predict.TriggerBursty:
			if job.BurstSize <= 0 {
				return fmt.Errorf("job %q: bursty trigger needs a positive burst_size", job.JobID)
			}
		default:
			return fmt.Errorf("job %q: unknown trigger %q", job.JobID, job.Trigger)
		}
	}
	return nil
}

// LoadSpec reads and parses a YAML scenario file. Uses strict parsing:
// unrecognized keys (typos) are rejected.
func LoadSpec(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario spec: %w", err)
	}
	var spec Spec
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&spec); err != nil {
		return nil, fmt.Errorf("parsing scenario spec: %w", err)
	}
	return &spec, nil
}

// lookback is the spec's history length as a duration.
func (s *Spec) lookback() time.Duration {
	return time.Duration(s.LookbackDays) * 24 * time.Hour
}
