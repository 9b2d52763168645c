package predict

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func featuresFor(t *testing.T, starts []time.Time, now time.Time) FeatureSet {
	t.Helper()
	history := make([]ExecutionRecord, 0, len(starts))
	for _, s := range starts {
		history = append(history, runAt("j1", s))
	}
	return ExtractFeatures("j1", history, now, DefaultConfig())
}

func TestClassify_EmptyHistory_OnDemand(t *testing.T) {
	now := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	f := ExtractFeatures("job_C", nil, now, DefaultConfig())
	assert.Equal(t, PatternOnDemand, Classify(f, DefaultConfig()))
}

func TestClassify_SingleRecord_OnDemand(t *testing.T) {
	// One record cannot establish periodicity or burstiness; on_demand is
	// the deliberate default, not an error.
	now := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	f := featuresFor(t, []time.Time{now.Add(-time.Hour)}, now)
	assert.Equal(t, PatternOnDemand, Classify(f, DefaultConfig()))
}

func TestClassify_TwoRecords_OnDemand(t *testing.T) {
	// A single interval is not enough to call a job periodic
	now := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	f := featuresFor(t, []time.Time{now.Add(-2 * time.Hour), now.Add(-time.Hour)}, now)
	assert.Equal(t, PatternOnDemand, Classify(f, DefaultConfig()))
}

func TestClassify_ConstantIntervals_Cron(t *testing.T) {
	// GIVEN three runs exactly 60 minutes apart
	base := time.Date(2025, 3, 14, 6, 0, 0, 0, time.UTC)
	f := featuresFor(t, []time.Time{base, base.Add(time.Hour), base.Add(2 * time.Hour)}, base.Add(3*time.Hour))

	// THEN zero variance classifies as cron
	assert.Equal(t, PatternCron, Classify(f, DefaultConfig()))
}

func TestClassify_IrregularIntervals_OnDemand(t *testing.T) {
	// Gaps of 10m, 4h, and 30m: coefficient of variation far above the cutoff
	base := time.Date(2025, 3, 14, 6, 0, 0, 0, time.UTC)
	f := featuresFor(t, []time.Time{
		base,
		base.Add(10 * time.Minute),
		base.Add(4*time.Hour + 10*time.Minute),
		base.Add(4*time.Hour + 40*time.Minute),
	}, base.Add(6*time.Hour))

	assert.Equal(t, PatternOnDemand, Classify(f, DefaultConfig()))
}

func TestClassify_BurstWinsOverCron(t *testing.T) {
	// GIVEN runs 2 minutes apart: intervals are perfectly constant AND the
	// cluster sits inside one burst window
	base := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	f := featuresFor(t, []time.Time{
		base,
		base.Add(2 * time.Minute),
		base.Add(4 * time.Minute),
		base.Add(6 * time.Minute),
	}, base.Add(8*time.Minute))

	// THEN the burst signature takes precedence
	assert.True(t, f.BurstFlag)
	assert.Equal(t, PatternBursty, Classify(f, DefaultConfig()))
}

func TestClassify_TightnessThresholdIsConfigurable(t *testing.T) {
	// Gaps of 55m, 60m, 65m: cv ≈ 0.083
	base := time.Date(2025, 3, 14, 6, 0, 0, 0, time.UTC)
	f := featuresFor(t, []time.Time{
		base,
		base.Add(55 * time.Minute),
		base.Add(115 * time.Minute),
		base.Add(180 * time.Minute),
	}, base.Add(4*time.Hour))

	loose := DefaultConfig()
	assert.Equal(t, PatternCron, Classify(f, loose))

	strict := DefaultConfig()
	strict.CronVariationThreshold = 0.01
	assert.Equal(t, PatternOnDemand, Classify(f, strict))
}
