package predict

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Status is the terminal outcome of a single run.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

// TriggerKind is the declared invocation origin of a run, recorded at
// ingestion time. It is authoritative and independent of any pattern the
// classifier later infers from run timing.
type TriggerKind string

const (
	TriggerCron     TriggerKind = "cron"
	TriggerOnDemand TriggerKind = "on_demand"
	TriggerBursty   TriggerKind = "bursty"
)

// ExecutionRecord is one historical run of a recurring job definition.
// Records are append-only facts: once written they are never mutated.
type ExecutionRecord struct {
	ID         string      `json:"id" yaml:"id"`
	JobID      string      `json:"job_id" yaml:"job_id"`
	StartedAt  time.Time   `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time   `json:"finished_at" yaml:"finished_at"`
	Status     Status      `json:"status" yaml:"status"`
	Trigger    TriggerKind `json:"trigger_kind" yaml:"trigger_kind"`
}

// NewExecutionRecord builds a record with a fresh ID.
func NewExecutionRecord(jobID string, startedAt, finishedAt time.Time, status Status, trigger TriggerKind) ExecutionRecord {
	return ExecutionRecord{
		ID:         uuid.NewString(),
		JobID:      jobID,
		StartedAt:  startedAt,
		FinishedAt: finishedAt,
		Status:     status,
		Trigger:    trigger,
	}
}

// Duration is the wall-clock length of the run.
func (r ExecutionRecord) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Validate reports whether the record is internally consistent. A failing
// record is skipped by the batch that encounters it, never fatal.
func (r ExecutionRecord) Validate() error {
	if r.JobID == "" {
		return fmt.Errorf("record %s: empty job id", r.ID)
	}
	if r.StartedAt.IsZero() {
		return fmt.Errorf("record %s (job %s): zero started_at", r.ID, r.JobID)
	}
	if r.FinishedAt.Before(r.StartedAt) {
		return fmt.Errorf("record %s (job %s): finished_at %s precedes started_at %s",
			r.ID, r.JobID, r.FinishedAt.Format(time.RFC3339), r.StartedAt.Format(time.RFC3339))
	}
	switch r.Status {
	case StatusSuccess, StatusFailure:
	default:
		return fmt.Errorf("record %s (job %s): unknown status %q", r.ID, r.JobID, r.Status)
	}
	switch r.Trigger {
	case TriggerCron, TriggerOnDemand, TriggerBursty:
	default:
		return fmt.Errorf("record %s (job %s): unknown trigger_kind %q", r.ID, r.JobID, r.Trigger)
	}
	return nil
}
