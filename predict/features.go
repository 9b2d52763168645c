package predict

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// FeatureSet is the per-job temporal profile derived from a job's run
// history at a reference time. It is recomputed for every evaluation, never
// persisted, and owned solely by the computation that built it.
//
// An empty history yields zero counts, an empty histogram, and a false
// BurstFlag: that is a valid "insufficient data" result, not an error.
type FeatureSet struct {
	JobID string

	// InterArrival holds the gaps between consecutive run starts, oldest
	// first. Failed runs still count: a failure is still a run.
	InterArrival []time.Duration

	RecentRunCount  int     // runs started within the trailing window ending at now
	ActiveBurstRuns int     // runs started within the burst sub-window ending at now
	HourOfDay       [24]int // run starts per UTC hour bucket
	BurstFlag       bool    // true when BurstMinRuns or more starts cluster inside one BurstWindow

	TotalRuns int
	LastRun   time.Time // start of the most recent run; zero when the history is empty
}

// ExtractFeatures derives a FeatureSet from a job's history. The history may
// arrive unsorted; malformed records are expected to have been filtered by
// the caller. No side effects, deterministic given identical inputs and now.
func ExtractFeatures(jobID string, history []ExecutionRecord, now time.Time, cfg Config) FeatureSet {
	f := FeatureSet{JobID: jobID}
	if len(history) == 0 {
		return f
	}

	starts := make([]time.Time, 0, len(history))
	for _, r := range history {
		starts = append(starts, r.StartedAt)
	}
	sort.Slice(starts, func(i, j int) bool { return starts[i].Before(starts[j]) })

	f.TotalRuns = len(starts)
	f.LastRun = starts[len(starts)-1]

	for i := 1; i < len(starts); i++ {
		f.InterArrival = append(f.InterArrival, starts[i].Sub(starts[i-1]))
	}

	recentCutoff := now.Add(-cfg.TrailingWindow)
	burstCutoff := now.Add(-cfg.BurstWindow)
	for _, s := range starts {
		if !s.Before(recentCutoff) {
			f.RecentRunCount++
		}
		if !s.Before(burstCutoff) {
			f.ActiveBurstRuns++
		}
		f.HourOfDay[s.UTC().Hour()]++
	}

	f.BurstFlag = hasBurst(starts, cfg.BurstWindow, cfg.BurstMinRuns)
	return f
}

// hasBurst reports whether minRuns or more starts fall within one window of
// each other anywhere in the (sorted) history.
func hasBurst(starts []time.Time, window time.Duration, minRuns int) bool {
	if len(starts) < minRuns {
		return false
	}
	j := 0
	for i := range starts {
		for starts[i].Sub(starts[j]) > window {
			j++
		}
		if i-j+1 >= minRuns {
			return true
		}
	}
	return false
}

// IntervalStats summarizes the inter-arrival gaps of a history.
type IntervalStats struct {
	Mean   time.Duration
	StdDev time.Duration
	CV     float64 // coefficient of variation: stddev / mean
}

// Intervals returns interval statistics and whether enough gaps exist to
// estimate periodicity. Fewer than two gaps (three runs) cannot establish a
// frequency, and a non-positive mean means the starts collapse onto a point;
// both report ok=false.
func (f FeatureSet) Intervals() (IntervalStats, bool) {
	if len(f.InterArrival) < 2 {
		return IntervalStats{}, false
	}
	secs := make([]float64, len(f.InterArrival))
	for i, d := range f.InterArrival {
		secs[i] = d.Seconds()
	}
	mean := stat.Mean(secs, nil)
	if mean <= 0 {
		return IntervalStats{}, false
	}
	sd := stat.StdDev(secs, nil)
	return IntervalStats{
		Mean:   time.Duration(mean * float64(time.Second)),
		StdDev: time.Duration(sd * float64(time.Second)),
		CV:     sd / mean,
	}, true
}
