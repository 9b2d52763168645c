package predict

// Snapshot is the aggregate view of the record set and the most recent
// prediction batch at query time. Recomputed on demand; it holds no
// references to engine state and must not be cached across record
// mutations without invalidation.
type Snapshot struct {
	TotalJobs           int                 `json:"total_jobs"` // record count, not distinct job ids
	UniqueJobs          int                 `json:"unique_jobs"`
	SuccessRate         float64             `json:"success_rate"`
	JobTypeDistribution map[TriggerKind]int `json:"job_type_distribution"` // by declared trigger, never by inferred pattern
	AverageConfidence   float64             `json:"average_prediction_confidence"`
	PrewarmCount        int                 `json:"recommended_prewarms"`
}

// Aggregate computes a Snapshot from the full record set and the most
// recent prediction batch. Malformed records are skipped. An empty record
// set yields zero counts and a success rate of 0; an empty batch yields an
// average confidence of 0. Both are defined values, not errors.
func Aggregate(records []ExecutionRecord, predictions []Prediction) Snapshot {
	s := Snapshot{JobTypeDistribution: make(map[TriggerKind]int)}

	jobs := make(map[string]struct{})
	successes := 0
	for _, r := range records {
		if err := r.Validate(); err != nil {
			continue
		}
		s.TotalJobs++
		jobs[r.JobID] = struct{}{}
		s.JobTypeDistribution[r.Trigger]++
		if r.Status == StatusSuccess {
			successes++
		}
	}
	s.UniqueJobs = len(jobs)
	if s.TotalJobs > 0 {
		s.SuccessRate = float64(successes) / float64(s.TotalJobs)
	}

	if len(predictions) > 0 {
		total := 0.0
		for _, p := range predictions {
			total += p.Confidence
			if p.Action == ActionPrewarm {
				s.PrewarmCount++
			}
		}
		s.AverageConfidence = total / float64(len(predictions))
	}
	return s
}
