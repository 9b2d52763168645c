// Package store defines the read contract the prediction engine consumes
// and provides an append-only in-memory implementation with
// snapshot-isolated reads. External record systems (a database, an event
// log) implement the same Reader interface; the engine never writes.
package store

import (
	"sort"
	"sync"
	"time"

	"github.com/coldstart/prewarm/predict"
)

// Reader is the narrow query surface the engine depends on.
// Implementations must return records started at or before now, ordered by
// start time ascending, and must never expose a mid-append state to an
// in-flight read.
type Reader interface {
	// Records returns all jobs' records up to now.
	Records(now time.Time) ([]predict.ExecutionRecord, error)
	// JobRecords returns one job's records up to now.
	JobRecords(jobID string, now time.Time) ([]predict.ExecutionRecord, error)
}

// Memory is an append-only in-memory record store. Reads copy the matching
// records under a read lock, so a concurrent Append is either fully visible
// to a read or not at all.
type Memory struct {
	mu      sync.RWMutex
	records []predict.ExecutionRecord
}

var _ Reader = (*Memory)(nil)

// NewMemory builds a store seeded with the given records.
func NewMemory(records ...predict.ExecutionRecord) *Memory {
	m := &Memory{}
	m.Append(records...)
	return m
}

// Append adds records to the store. Records are immutable once appended.
func (m *Memory) Append(records ...predict.ExecutionRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, records...)
}

// Len returns the number of stored records.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

// Records returns a sorted copy of all records started at or before now.
func (m *Memory) Records(now time.Time) ([]predict.ExecutionRecord, error) {
	return m.query(func(predict.ExecutionRecord) bool { return true }, now), nil
}

// JobRecords returns a sorted copy of one job's records started at or
// before now.
func (m *Memory) JobRecords(jobID string, now time.Time) ([]predict.ExecutionRecord, error) {
	return m.query(func(r predict.ExecutionRecord) bool { return r.JobID == jobID }, now), nil
}

func (m *Memory) query(keep func(predict.ExecutionRecord) bool, now time.Time) []predict.ExecutionRecord {
	m.mu.RLock()
	out := make([]predict.ExecutionRecord, 0, len(m.records))
	for _, r := range m.records {
		if keep(r) && !r.StartedAt.After(now) {
			out = append(out, r)
		}
	}
	m.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].StartedAt.Before(out[j].StartedAt) })
	return out
}
