package workload

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/coldstart/prewarm/predict"
)

// burstChancePerDay is the probability a bursty job fires at all on a given
// day, matching the demo mix the default spec models.
const burstChancePerDay = 0.7

// Generate produces a record history covering the spec's lookback period
// ending at now. Timing and status are deterministic given the same spec
// and now (record IDs are always fresh): each job draws from its own RNG
// derived from the spec seed, so adding a job never reshuffles the others.
// Records are sorted by start time ascending.
func Generate(spec *Spec, now time.Time) ([]predict.ExecutionRecord, error) {
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario spec: %w", err)
	}

	master := rand.New(rand.NewSource(spec.Seed))
	windowStart := now.Add(-spec.lookback())

	var records []predict.ExecutionRecord
	for _, job := range spec.Jobs {
		jobRNG := rand.New(rand.NewSource(master.Int63()))

		var starts []time.Time
		var err error
		switch job.Trigger {
		case predict.TriggerCron:
			starts, err = cronStarts(job, windowStart, now)
		case predict.TriggerOnDemand:
			starts = onDemandStarts(job, windowStart, spec.LookbackDays, jobRNG)
		case predict.TriggerBursty:
			starts = burstyStarts(job, windowStart, spec.LookbackDays, jobRNG)
		}
		if err != nil {
			return nil, fmt.Errorf("job %q: %w", job.JobID, err)
		}

		for _, start := range starts {
			status := predict.StatusSuccess
			if jobRNG.Float64() >= job.SuccessRate {
				status = predict.StatusFailure
			}
			finished := start.Add(time.Duration(1+jobRNG.Intn(20)) * time.Second)
			records = append(records, predict.NewExecutionRecord(job.JobID, start, finished, status, job.Trigger))
		}
	}

	sort.SliceStable(records, func(i, j int) bool { return records[i].StartedAt.Before(records[j].StartedAt) })
	return records, nil
}

// cronStarts walks either a standard cron expression or a fixed interval
// across the lookback window.
func cronStarts(job JobSpec, windowStart, now time.Time) ([]time.Time, error) {
	var starts []time.Time
	if job.Schedule != "" {
		sched, err := cron.ParseStandard(job.Schedule)
		if err != nil {
			return nil, fmt.Errorf("parsing schedule %q: %w", job.Schedule, err)
		}
		for t := sched.Next(windowStart); !t.After(now); t = sched.Next(t) {
			starts = append(starts, t)
		}
		return starts, nil
	}

	interval := time.Duration(job.IntervalMinutes) * time.Minute
	for t := windowStart.Truncate(interval).Add(interval); !t.After(now); t = t.Add(interval) {
		starts = append(starts, t)
	}
	return starts, nil
}

// onDemandStarts scatters runs at random times within working hours (08-18
// UTC), with a per-day count drawn around the configured average.
func onDemandStarts(job JobSpec, windowStart time.Time, days int, rng *rand.Rand) []time.Time {
	var starts []time.Time
	for day := 0; day < days; day++ {
		dayStart := windowStart.Add(time.Duration(day) * 24 * time.Hour).Truncate(24 * time.Hour)
		n := int(rng.NormFloat64()*2 + job.RunsPerDay)
		for i := 0; i < n; i++ {
			starts = append(starts, dayStart.Add(
				time.Duration(8+rng.Intn(10))*time.Hour+
					time.Duration(rng.Intn(60))*time.Minute))
		}
	}
	return starts
}

// burstyStarts clusters a day's runs inside one tight half-hour window,
// when the day fires at all.
func burstyStarts(job JobSpec, windowStart time.Time, days int, rng *rand.Rand) []time.Time {
	var starts []time.Time
	for day := 0; day < days; day++ {
		if rng.Float64() >= burstChancePerDay {
			continue
		}
		dayStart := windowStart.Add(time.Duration(day) * 24 * time.Hour).Truncate(24 * time.Hour)
		burstStart := dayStart.Add(
			time.Duration(9+rng.Intn(8))*time.Hour +
				time.Duration(rng.Intn(60))*time.Minute)
		for i := 0; i < job.BurstSize; i++ {
			starts = append(starts, burstStart.Add(
				time.Duration(rng.Intn(30))*time.Minute+
					time.Duration(rng.Intn(60))*time.Second))
		}
	}
	return starts
}
