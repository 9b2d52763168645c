package workload

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coldstart/prewarm/predict"
)

var now = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

func TestDefaultSpec_IsValid(t *testing.T) {
	assert.NoError(t, DefaultSpec().Validate())
}

func TestSpec_Validate_RejectsIncoherentSpecs(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Spec)
	}{
		{"no lookback", func(s *Spec) { s.LookbackDays = 0 }},
		{"no jobs", func(s *Spec) { s.Jobs = nil }},
		{"empty job id", func(s *Spec) { s.Jobs[0].JobID = "" }},
		{"duplicate job id", func(s *Spec) { s.Jobs[1].JobID = s.Jobs[0].JobID }},
		{"success rate above 1", func(s *Spec) { s.Jobs[0].SuccessRate = 1.2 }},
		{"cron without cadence", func(s *Spec) { s.Jobs[0].IntervalMinutes = 0; s.Jobs[0].Schedule = "" }},
		{"on_demand without rate", func(s *Spec) { s.Jobs[3].RunsPerDay = 0 }},
		{"bursty without size", func(s *Spec) { s.Jobs[5].BurstSize = 0 }},
		{"unknown trigger", func(s *Spec) { s.Jobs[0].Trigger = "manual" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			spec := DefaultSpec()
			tc.mutate(spec)
			assert.Error(t, spec.Validate())
		})
	}
}

func TestGenerate_TimingDeterministicForSameSeed(t *testing.T) {
	// GIVEN the same spec generated twice
	first, err := Generate(DefaultSpec(), now)
	require.NoError(t, err)
	second, err := Generate(DefaultSpec(), now)
	require.NoError(t, err)

	// THEN run timing and outcomes match pairwise (IDs are always fresh)
	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].JobID, second[i].JobID)
		assert.True(t, first[i].StartedAt.Equal(second[i].StartedAt))
		assert.Equal(t, first[i].Status, second[i].Status)
		assert.Equal(t, first[i].Trigger, second[i].Trigger)
	}
}

func TestGenerate_RecordsAreSortedAndValid(t *testing.T) {
	records, err := Generate(DefaultSpec(), now)
	require.NoError(t, err)
	require.NotEmpty(t, records)

	for i, r := range records {
		assert.NoError(t, r.Validate())
		if i > 0 {
			assert.False(t, r.StartedAt.Before(records[i-1].StartedAt), "records must be sorted ascending")
		}
		assert.False(t, r.StartedAt.After(now))
	}
}

func TestGenerate_IntervalCronJob_NearConstantGaps(t *testing.T) {
	// GIVEN a lone 15-minute cron job over one day
	spec := &Spec{
		Seed:         7,
		LookbackDays: 1,
		Jobs:         []JobSpec{{JobID: "health_check", Trigger: predict.TriggerCron, IntervalMinutes: 15, SuccessRate: 1}},
	}

	// WHEN generated
	records, err := Generate(spec, now)
	require.NoError(t, err)

	// THEN roughly a day's worth of runs arrive exactly 15 minutes apart
	require.Equal(t, 96, len(records))
	for i := 1; i < len(records); i++ {
		assert.Equal(t, 15*time.Minute, records[i].StartedAt.Sub(records[i-1].StartedAt))
	}
}

func TestGenerate_ScheduleExpression_DrivesRunTimes(t *testing.T) {
	// GIVEN a job on a standard cron expression: hourly on the hour
	spec := &Spec{
		Seed:         7,
		LookbackDays: 1,
		Jobs:         []JobSpec{{JobID: "rollup", Trigger: predict.TriggerCron, Schedule: "0 * * * *", SuccessRate: 1}},
	}

	// WHEN generated
	records, err := Generate(spec, now)
	require.NoError(t, err)

	// THEN every run lands on a whole hour
	require.Equal(t, 24, len(records))
	for _, r := range records {
		assert.Zero(t, r.StartedAt.Minute())
		assert.Zero(t, r.StartedAt.Second())
	}
}

func TestGenerate_BadScheduleExpression_Errors(t *testing.T) {
	spec := &Spec{
		Seed:         7,
		LookbackDays: 1,
		Jobs:         []JobSpec{{JobID: "rollup", Trigger: predict.TriggerCron, Schedule: "not a schedule", SuccessRate: 1}},
	}

	_, err := Generate(spec, now)

	assert.Error(t, err)
}

func TestGenerate_BurstyRunsClusterTightly(t *testing.T) {
	spec := &Spec{
		Seed:         7,
		LookbackDays: 14,
		Jobs:         []JobSpec{{JobID: "ml_training", Trigger: predict.TriggerBursty, BurstSize: 10, SuccessRate: 1}},
	}

	records, err := Generate(spec, now)
	require.NoError(t, err)
	require.NotEmpty(t, records)

	// Burst runs land inside a half-hour window per firing day, so every
	// record sits within 31 minutes of another run.
	assert.Zero(t, len(records)%10, "bursts fire whole or not at all")
	for i := 1; i < len(records); i++ {
		gap := records[i].StartedAt.Sub(records[i-1].StartedAt)
		if gap > 31*time.Minute {
			// gap between distinct burst days; must be hours, not minutes
			assert.Greater(t, gap, time.Hour)
		}
	}
}

func TestGenerate_OnDemandRunsStayInWorkingHours(t *testing.T) {
	spec := &Spec{
		Seed:         7,
		LookbackDays: 7,
		Jobs:         []JobSpec{{JobID: "user_report", Trigger: predict.TriggerOnDemand, RunsPerDay: 5, SuccessRate: 1}},
	}

	records, err := Generate(spec, now)
	require.NoError(t, err)
	require.NotEmpty(t, records)

	for _, r := range records {
		hour := r.StartedAt.UTC().Hour()
		assert.GreaterOrEqual(t, hour, 8)
		assert.Less(t, hour, 18)
	}
}

func TestLoadSpec_RoundTripAndStrictness(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.yaml")
	content := "seed: 11\nlookback_days: 3\njobs:\n" +
		"  - job_id: nightly\n    trigger: cron\n    schedule: \"30 2 * * *\"\n    success_rate: 0.9\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	spec, err := LoadSpec(path)
	require.NoError(t, err)
	assert.Equal(t, int64(11), spec.Seed)
	assert.Equal(t, 3, spec.LookbackDays)
	require.Len(t, spec.Jobs, 1)
	assert.Equal(t, "30 2 * * *", spec.Jobs[0].Schedule)
	assert.NoError(t, spec.Validate())

	badPath := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(badPath, []byte("seed: 11\nlookback_dayz: 3\n"), 0o644))
	_, err = LoadSpec(badPath)
	assert.Error(t, err)
}
