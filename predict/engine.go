package predict

import (
	"fmt"
	"sort"
	"time"

	"github.com/kushsharma/parallel"
	"github.com/sirupsen/logrus"
)

// evalConcurrency bounds the parallel per-job evaluation fan-out.
const evalConcurrency = 8

// Action is the engine's recommendation to the hosting infrastructure.
// Advisory only: it must never be read as authoritative for allocation.
type Action string

const (
	ActionPrewarm Action = "prewarm"
	ActionWait    Action = "wait"
)

// Window is a predicted run window with absolute bounds derived from the
// reference time of the evaluation.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Offset renders the window relative to a reference time, e.g. "+0s..+2m0s".
func (w Window) Offset(now time.Time) string {
	return fmt.Sprintf("+%s..+%s", w.Start.Sub(now).Round(time.Second), w.End.Sub(now).Round(time.Second))
}

// Prediction is one forward-looking run prediction. Reasoning is derived
// deterministically from the same inputs that produced the score.
type Prediction struct {
	JobID      string       `json:"job_id"`
	Pattern    PatternLabel `json:"pattern"`
	Window     Window       `json:"predicted_run_time_window"`
	Confidence float64      `json:"confidence_score"`
	Action     Action       `json:"action"`
	Reasoning  string       `json:"reasoning"`
}

// Engine scores jobs for near-term run likelihood. It holds no long-lived
// mutable state: Predict and Evaluate are pure functions of
// (records, now, config), safe for concurrent use.
type Engine struct {
	cfg Config
}

// NewEngine validates cfg and returns an engine. Configuration errors are
// fatal here, before any prediction runs.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("engine config: %w", err)
	}
	return &Engine{cfg: cfg}, nil
}

// Config returns the engine's validated configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Predict returns one Prediction per job judged likely to run within the
// configured horizon. Jobs with no near-term likelihood are simply absent.
// Jobs are evaluated in parallel; a failing job is logged and dropped
// without affecting the rest of the batch. Malformed records are skipped
// the same way. Output is ordered by confidence descending with job ID as
// tiebreak, so unchanged inputs yield byte-identical output.
func (e *Engine) Predict(records []ExecutionRecord, now time.Time) []Prediction {
	histories := e.groupByJob(records)

	jobIDs := make([]string, 0, len(histories))
	for id := range histories {
		jobIDs = append(jobIDs, id)
	}
	sort.Strings(jobIDs)

	runner := parallel.NewRunner(parallel.WithLimit(evalConcurrency))
	for _, id := range jobIDs {
		runner.Add(func(jobID string, history []ExecutionRecord) func() (interface{}, error) {
			return func() (interface{}, error) {
				return e.evaluateJob(jobID, history, now)
			}
		}(id, histories[id]))
	}

	predictions := make([]Prediction, 0, len(jobIDs))
	for _, result := range runner.Run() {
		if result.Err != nil {
			logrus.Warnf("skipping job in prediction batch: %v", result.Err)
			continue
		}
		if p, ok := result.Val.(*Prediction); ok && p != nil {
			predictions = append(predictions, *p)
		}
	}

	sort.Slice(predictions, func(i, j int) bool {
		if predictions[i].Confidence != predictions[j].Confidence {
			return predictions[i].Confidence > predictions[j].Confidence
		}
		return predictions[i].JobID < predictions[j].JobID
	})
	logrus.Debugf("predicted %d of %d jobs within the horizon", len(predictions), len(jobIDs))
	return predictions
}

// Evaluate runs prediction and analytics over the same record snapshot and
// returns both, the single call the presentation layer consumes.
func (e *Engine) Evaluate(records []ExecutionRecord, now time.Time) ([]Prediction, Snapshot) {
	predictions := e.Predict(records, now)
	return predictions, Aggregate(records, predictions)
}

// groupByJob partitions records by job ID, dropping malformed records with
// a logged reason. One bad record never taints another job's history.
func (e *Engine) groupByJob(records []ExecutionRecord) map[string][]ExecutionRecord {
	byJob := make(map[string][]ExecutionRecord)
	for _, r := range records {
		if err := r.Validate(); err != nil {
			logrus.Warnf("skipping malformed record: %v", err)
			continue
		}
		byJob[r.JobID] = append(byJob[r.JobID], r)
	}
	return byJob
}

// evaluateJob extracts features, classifies, and scores a single job. A nil
// prediction with a nil error means the job has no near-term likelihood.
func (e *Engine) evaluateJob(jobID string, history []ExecutionRecord, now time.Time) (*Prediction, error) {
	if jobID == "" {
		return nil, fmt.Errorf("evaluating job: empty job id")
	}
	features := ExtractFeatures(jobID, history, now, e.cfg)
	switch Classify(features, e.cfg) {
	case PatternBursty:
		return e.scoreBursty(features, now), nil
	case PatternCron:
		return e.scoreCron(features, now), nil
	default:
		return e.scoreOnDemand(features, now), nil
	}
}

// scoreCron projects the next run from the mean inter-arrival interval and
// emits a prediction when it lands inside the horizon. Confidence scales
// inversely with interval variance: cv=0 maps to the configured maximum,
// cv at the cutoff to the configured minimum.
func (e *Engine) scoreCron(f FeatureSet, now time.Time) *Prediction {
	st, ok := f.Intervals()
	if !ok {
		return nil
	}
	next := f.LastRun.Add(st.Mean)
	if next.Before(now) || next.After(now.Add(e.cfg.PredictionHorizon)) {
		return nil
	}
	frac := st.CV / e.cfg.CronVariationThreshold
	if frac > 1 {
		frac = 1
	}
	confidence := e.cfg.CronConfidenceMax - frac*(e.cfg.CronConfidenceMax-e.cfg.CronConfidenceMin)
	return &Prediction{
		JobID:      f.JobID,
		Pattern:    PatternCron,
		Window:     Window{Start: now, End: next},
		Confidence: confidence,
		Action:     e.action(confidence),
		Reasoning:  fmt.Sprintf("regular interval detected: runs every %s (cv %.2f)", st.Mean.Round(time.Second), st.CV),
	}
}

// scoreBursty emits an immediate 1-3 minute window at the fixed burst
// confidence, but only while the burst is still active: enough runs inside
// the burst sub-window ending at now. A bursty job between bursts yields
// nothing.
func (e *Engine) scoreBursty(f FeatureSet, now time.Time) *Prediction {
	if f.ActiveBurstRuns < e.cfg.BurstMinRuns {
		return nil
	}
	confidence := e.cfg.BurstConfidence
	return &Prediction{
		JobID:      f.JobID,
		Pattern:    PatternBursty,
		Window:     Window{Start: now.Add(time.Minute), End: now.Add(3 * time.Minute)},
		Confidence: confidence,
		Action:     e.action(confidence),
		Reasoning:  fmt.Sprintf("burst pattern detected: %d runs within the last %s", f.ActiveBurstRuns, e.cfg.BurstWindow),
	}
}

// scoreOnDemand is the fallback heuristic for irregular jobs: predict only
// when the current UTC hour historically carries an outsized share of runs.
// Confidence stays in the configured low-to-medium band.
func (e *Engine) scoreOnDemand(f FeatureSet, now time.Time) *Prediction {
	if f.TotalRuns == 0 {
		return nil
	}
	hour := now.UTC().Hour()
	runs := f.HourOfDay[hour]
	if runs < e.cfg.HourMinRuns {
		return nil
	}
	share := float64(runs) / float64(f.TotalRuns)
	if share < e.cfg.HourShareThreshold {
		return nil
	}

	span := 1 - e.cfg.HourShareThreshold
	frac := 1.0
	if span > 0 {
		frac = (share - e.cfg.HourShareThreshold) / span
	}
	confidence := e.cfg.OnDemandConfidenceMin + frac*(e.cfg.OnDemandConfidenceMax-e.cfg.OnDemandConfidenceMin)
	return &Prediction{
		JobID:      f.JobID,
		Pattern:    PatternOnDemand,
		Window:     Window{Start: now, End: now.Add(e.cfg.PredictionHorizon)},
		Confidence: confidence,
		Action:     e.action(confidence),
		Reasoning:  fmt.Sprintf("elevated historical activity at this hour: %d of %d runs started at %02d:00 UTC", runs, f.TotalRuns, hour),
	}
}

func (e *Engine) action(confidence float64) Action {
	if confidence >= e.cfg.PrewarmThreshold {
		return ActionPrewarm
	}
	return ActionWait
}
