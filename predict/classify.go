package predict

// PatternLabel is the behavioral category inferred from run timing, as
// opposed to the declared TriggerKind. The set is closed: exactly one label
// per job per evaluation, and the label may change as new records arrive.
type PatternLabel string

const (
	PatternCron     PatternLabel = "cron"      // near-constant inter-arrival interval, low variance
	PatternBursty   PatternLabel = "bursty"    // runs cluster in tight succession
	PatternOnDemand PatternLabel = "on_demand" // irregular, no dominant frequency
)

// Classify assigns exactly one PatternLabel to a feature set. Precedence is
// fixed and exhaustive: a burst signature wins over periodicity, periodicity
// over the on-demand fallback. Jobs with too little history to establish
// either land on on_demand.
//
// Classification is stateless and order-independent across jobs.
func Classify(f FeatureSet, cfg Config) PatternLabel {
	if f.BurstFlag {
		return PatternBursty
	}
	if st, ok := f.Intervals(); ok && st.CV < cfg.CronVariationThreshold {
		return PatternCron
	}
	return PatternOnDemand
}
