// Package predict is the pattern-classification and prediction core for
// cold-start avoidance: it looks at historical job-execution telemetry and
// recommends whether to pre-warm an execution container for each recurring
// job likely to run within a short upcoming horizon.
//
// # Reading Guide
//
// Start with these files to understand the pipeline:
//   - record.go: ExecutionRecord, the immutable historical fact everything
//     else is derived from
//   - features.go: per-job temporal features (inter-arrival gaps, trailing
//     run counts, hour-of-day histogram, burst detection)
//   - classify.go: the fixed-precedence mapping from features to a
//     PatternLabel (bursty > cron > on_demand)
//   - engine.go: per-pattern scoring, the prediction horizon filter, and the
//     prewarm/wait action derivation
//   - analytics.go: retrospective aggregation over the full record set
//
// The engine is stateless and pure with respect to a snapshot of input data:
// given a fixed record set, a fixed reference time, and a Config, every
// entry point returns identical output. Mutable state (the record store)
// lives behind the narrow read contract in the predict/store sub-package.
// All scores are heuristic and advisory; nothing here trains a model.
package predict
