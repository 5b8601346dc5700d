// Package jobs implements the analysis job fabric: typed queues, idempotent
// dispatch, a four-state job machine, retry/backoff, and best-effort job
// chaining, per spec §5.
package jobs

import (
	"time"

	"github.com/matchforge/tactics-engine/internal/tacticserr"
)

// Status is the closed set of job lifecycle states.
type Status string

const (
	Pending   Status = "pending"
	Running   Status = "running"
	Completed Status = "completed"
	Failed    Status = "failed"
)

// Result is the value object produced by a successfully completed job.
type Result struct {
	Content         string
	DurationSeconds float64
	Metadata        map[string]string
}

// Job is a rich entity enforcing valid state transitions: pending -> running
// -> completed, failed from any state except completed, and (through
// ResetForRetry) failed -> pending while attempts remain. Every other
// transition returns a tacticserr.BadInput error rather than silently
// mutating state.
type Job struct {
	JobID       string
	Kind        string
	MatchID     string
	Queue       Queue
	IdempotencyKey string

	Status      Status
	Result      *Result
	Err         string

	CreatedAt   time.Time
	StartedAt   time.Time
	CompletedAt time.Time

	Attempt     int
	MaxAttempts int
}

// NewJob constructs a job in the Pending state.
func NewJob(jobID, kind, matchID string, queue Queue, idempotencyKey string, maxAttempts int, now time.Time) *Job {
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	return &Job{
		JobID:          jobID,
		Kind:           kind,
		MatchID:        matchID,
		Queue:          queue,
		IdempotencyKey: idempotencyKey,
		Status:         Pending,
		CreatedAt:      now,
		MaxAttempts:    maxAttempts,
	}
}

// Start transitions the job to Running. Only valid from Pending.
func (j *Job) Start(now time.Time) error {
	if j.Status != Pending {
		return tacticserr.Newf(tacticserr.BadInput, "cannot start job %s in %s state", j.JobID, j.Status)
	}
	j.Status = Running
	j.StartedAt = now
	j.Attempt++
	return nil
}

// Complete transitions the job to Completed with a result. Only valid from
// Running.
func (j *Job) Complete(result Result, now time.Time) error {
	if j.Status != Running {
		return tacticserr.Newf(tacticserr.BadInput, "cannot complete job %s in %s state", j.JobID, j.Status)
	}
	j.Status = Completed
	j.Result = &result
	j.CompletedAt = now
	return nil
}

// Fail transitions the job to Failed with an error message. Invalid only
// when the job is already Completed — a job already failed may be failed
// again (e.g. a retry that also fails), mirroring the idempotent nature of
// the terminal failure state.
func (j *Job) Fail(errMsg string, now time.Time) error {
	if j.Status == Completed {
		return tacticserr.New(tacticserr.BadInput, "cannot fail a completed job")
	}
	j.Status = Failed
	j.Err = errMsg
	j.CompletedAt = now
	return nil
}

// IsTerminal reports whether the job has reached Completed or Failed.
func (j *Job) IsTerminal() bool {
	return j.Status == Completed || j.Status == Failed
}

// CanRetry reports whether a failed job has attempts remaining.
func (j *Job) CanRetry() bool {
	return j.Status == Failed && j.Attempt < j.MaxAttempts
}

// ResetForRetry moves a failed job back to Pending, preserving its attempt
// counter so MaxAttempts is enforced across retries.
func (j *Job) ResetForRetry() error {
	if !j.CanRetry() {
		return tacticserr.Newf(tacticserr.BadInput, "job %s has no retries remaining", j.JobID)
	}
	j.Status = Pending
	j.Err = ""
	return nil
}
