// Package report tallies the outcome of every job in a harvest or
// reconcile run.
package report

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/agentstation/utc"
)

// Status is the final state of one job.
type Status string

// Job statuses.
const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusSkipped   Status = "skipped"
)

// Stage names.
const (
	StageHarvest   = "harvest"
	StageReconcile = "reconcile"
)

// Outcome is the result of one job.
type Outcome struct {
	ID       string         `json:"id" yaml:"id"`
	Status   Status         `json:"status" yaml:"status"`
	Error    string         `json:"error,omitempty" yaml:"error,omitempty"`
	Duration time.Duration  `json:"duration" yaml:"duration"`
	Detail   map[string]int `json:"detail,omitempty" yaml:"detail,omitempty"`
}

// Report is the per-run tally. Record is safe for concurrent use.
type Report struct {
	RunID      string    `json:"run_id" yaml:"run_id"`
	Stage      string    `json:"stage" yaml:"stage"`
	StartedAt  utc.Time  `json:"started_at" yaml:"started_at"`
	FinishedAt utc.Time  `json:"finished_at" yaml:"finished_at"`
	Succeeded  int       `json:"succeeded" yaml:"succeeded"`
	Failed     int       `json:"failed" yaml:"failed"`
	Skipped    int       `json:"skipped" yaml:"skipped"`
	Outcomes   []Outcome `json:"outcomes" yaml:"outcomes"`

	mu sync.Mutex
}

// New starts a report for the given stage.
func New(runID, stage string) *Report {
	return &Report{
		RunID:     runID,
		Stage:     stage,
		StartedAt: utc.Now(),
	}
}

// Record adds one outcome to the tally.
func (r *Report) Record(o Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch o.Status {
	case StatusSucceeded:
		r.Succeeded++
	case StatusFailed:
		r.Failed++
	case StatusSkipped:
		r.Skipped++
	}
	r.Outcomes = append(r.Outcomes, o)
}

// Succeed records a successful job.
func (r *Report) Succeed(id string, d time.Duration, detail map[string]int) {
	r.Record(Outcome{ID: id, Status: StatusSucceeded, Duration: d, Detail: detail})
}

// Fail records a failed job.
func (r *Report) Fail(id string, d time.Duration, err error) {
	o := Outcome{ID: id, Status: StatusFailed, Duration: d}
	if err != nil {
		o.Error = err.Error()
	}
	r.Record(o)
}

// Skip records a job that did not run.
func (r *Report) Skip(id, reason string) {
	r.Record(Outcome{ID: id, Status: StatusSkipped, Error: reason})
}

// Finish stamps the completion time and orders outcomes by ID.
func (r *Report) Finish() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.FinishedAt = utc.Now()
	sort.SliceStable(r.Outcomes, func(i, j int) bool {
		return r.Outcomes[i].ID < r.Outcomes[j].ID
	})
}

// Total returns the number of recorded jobs.
func (r *Report) Total() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Succeeded + r.Failed + r.Skipped
}

// HasFailures returns true if any job failed.
func (r *Report) HasFailures() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Failed > 0
}

// Elapsed returns the wall time between start and finish.
func (r *Report) Elapsed() time.Duration {
	if r.FinishedAt.Time.IsZero() {
		return 0
	}
	return r.FinishedAt.Time.Sub(r.StartedAt.Time)
}

// Sum adds up a detail counter across all outcomes.
func (r *Report) Sum(key string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	total := 0
	for _, o := range r.Outcomes {
		total += o.Detail[key]
	}
	return total
}

// Summary returns a human-readable summary of the run.
func (r *Report) Summary() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	total := r.Succeeded + r.Failed + r.Skipped
	if total == 0 {
		return fmt.Sprintf("%s: no jobs", r.Stage)
	}

	parts := []string{fmt.Sprintf("%d succeeded", r.Succeeded)}
	if r.Failed > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", r.Failed))
	}
	if r.Skipped > 0 {
		parts = append(parts, fmt.Sprintf("%d skipped", r.Skipped))
	}
	return fmt.Sprintf("%s: %d jobs, %s", r.Stage, total, strings.Join(parts, ", "))
}
