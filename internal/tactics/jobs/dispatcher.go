package jobs

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/matchforge/tactics-engine/internal/tacticserr"
	"github.com/matchforge/tactics-engine/internal/telemetry"
)

// Runner executes the work associated with a job kind and produces a Result.
// A Runner must be safe for concurrent use across jobs of the same kind.
type Runner func(ctx context.Context, job *Job) (Result, error)

// ChainFunc builds the follow-on job to dispatch after a job completes
// successfully. It returns ok=false when no successor should run.
type ChainFunc func(completed *Job) (kind string, idempotencyKey string, ok bool)

// BackoffConfig controls the delay applied between retry attempts.
type BackoffConfig struct {
	Base       time.Duration
	Multiplier float64
	MaxDelay   time.Duration
}

// DefaultBackoffConfig doubles the delay starting at 2s, capped at 1 minute.
func DefaultBackoffConfig() BackoffConfig {
	return BackoffConfig{Base: 2 * time.Second, Multiplier: 2.0, MaxDelay: time.Minute}
}

// Delay returns the backoff delay for the given attempt number (1-indexed).
func (b BackoffConfig) Delay(attempt int) time.Duration {
	if attempt <= 1 {
		return b.Base
	}
	d := float64(b.Base)
	for i := 1; i < attempt; i++ {
		d *= b.Multiplier
	}
	delay := time.Duration(d)
	if delay > b.MaxDelay {
		return b.MaxDelay
	}
	return delay
}

// Dispatcher routes jobs to their Runner, enforcing idempotent dispatch keyed
// on (kind, idempotencyKey) via the backing Store, and retries failed runs
// with backoff up to each job's MaxAttempts.
//
// Two ports are exposed deliberately: Dispatch is fire-and-forget (the caller
// gets the job handle back immediately and the run happens on its own
// goroutine), while Execute blocks until the job reaches a terminal state.
// Callers that need a synchronous result (e.g. a CLI tool) use Execute;
// long-running services use Dispatch and poll the Store.
type Dispatcher struct {
	store   Store
	runners map[string]Runner
	backoff BackoffConfig
	chain   ChainFunc
	now     func() time.Time
}

// NewDispatcher builds a Dispatcher backed by store, with now supplying the
// current time (injected for determinism in tests).
func NewDispatcher(store Store, now func() time.Time) *Dispatcher {
	return &Dispatcher{
		store:   store,
		runners: make(map[string]Runner),
		backoff: DefaultBackoffConfig(),
		now:     now,
	}
}

// RegisterRunner binds a Runner to a job kind.
func (d *Dispatcher) RegisterRunner(kind string, runner Runner) {
	d.runners[kind] = runner
}

// SetChain installs a best-effort chaining function. A chaining failure never
// fails the job that triggered it; it is logged and swallowed.
func (d *Dispatcher) SetChain(chain ChainFunc) {
	d.chain = chain
}

// Dispatch enqueues a job for kind/matchID and returns immediately with the
// job handle. If a non-terminal job already exists for (kind, idempotencyKey)
// that existing job is returned instead of creating a duplicate.
func (d *Dispatcher) Dispatch(ctx context.Context, jobID, kind, matchID string, queue Queue, idempotencyKey string, maxAttempts int) (*Job, error) {
	job, created, err := d.findOrCreate(jobID, kind, matchID, queue, idempotencyKey, maxAttempts)
	if err != nil {
		return nil, err
	}
	if !created {
		return job, nil
	}
	go d.run(context.Background(), job)
	return job, nil
}

// Execute dispatches the job and blocks until it reaches a terminal state or
// ctx is cancelled.
func (d *Dispatcher) Execute(ctx context.Context, jobID, kind, matchID string, queue Queue, idempotencyKey string, maxAttempts int) (*Job, error) {
	job, created, err := d.findOrCreate(jobID, kind, matchID, queue, idempotencyKey, maxAttempts)
	if err != nil {
		return nil, err
	}
	if created {
		d.run(ctx, job)
	} else {
		if err := d.waitTerminal(ctx, job); err != nil {
			return job, err
		}
	}
	return d.store.Get(job.JobID)
}

// Cancel marks a non-terminal job Failed with the Cancelled error kind. A
// job already in a terminal state is left untouched and reported as such
// via the returned error, per spec §7's "Cancelled" being terminal itself:
// cancelling twice, or cancelling a finished job, is not a new event.
func (d *Dispatcher) Cancel(jobID string) error {
	job, err := d.store.Get(jobID)
	if err != nil {
		return err
	}
	if job.IsTerminal() {
		return tacticserr.Newf(tacticserr.BadInput, "job %s already in terminal state %s, cannot cancel", jobID, job.Status)
	}
	if err := job.Fail(string(tacticserr.Cancelled), d.now()); err != nil {
		return err
	}
	return d.store.Put(job)
}

func (d *Dispatcher) findOrCreate(jobID, kind, matchID string, queue Queue, idempotencyKey string, maxAttempts int) (*Job, bool, error) {
	if existing, ok := d.store.FindByIdempotencyKey(kind, idempotencyKey); ok {
		if !existing.IsTerminal() || existing.Status == Completed {
			return existing, false, nil
		}
		// existing job Failed with no retries left: allow a fresh attempt
		// under a new job ID rather than resurrecting the exhausted one.
	}
	job := NewJob(jobID, kind, matchID, queue, idempotencyKey, maxAttempts, d.now())
	if err := d.store.Put(job); err != nil {
		return nil, false, err
	}
	return job, true, nil
}

func (d *Dispatcher) waitTerminal(ctx context.Context, job *Job) error {
	for {
		current, err := d.store.Get(job.JobID)
		if err != nil {
			return err
		}
		if current.IsTerminal() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(50 * time.Millisecond):
		}
	}
}

// run executes job against its registered Runner, retrying with backoff on
// failure until MaxAttempts is exhausted, then chains a successor on success.
func (d *Dispatcher) run(ctx context.Context, job *Job) {
	runner, ok := d.runners[job.Kind]
	if !ok {
		job.Fail("no runner registered for kind "+job.Kind, d.now())
		d.store.Put(job)
		return
	}

	// A Cancel stored meanwhile wins: the run stops without overwriting it.
	cancelled := func() bool {
		current, err := d.store.Get(job.JobID)
		return err == nil && current.Status == Failed && current.Err == string(tacticserr.Cancelled)
	}

	for {
		if cancelled() {
			return
		}
		if err := job.Start(d.now()); err != nil {
			telemetry.Opsf("jobs: cannot start %s: %v", job.JobID, err)
			return
		}
		d.store.Put(job)

		result, err := runner(ctx, job)
		if cancelled() {
			return
		}
		if err == nil {
			job.Complete(result, d.now())
			d.store.Put(job)
			d.runChain(job)
			return
		}

		job.Fail(err.Error(), d.now())
		d.store.Put(job)
		if te, tagged := err.(*tacticserr.Error); tagged && !te.Kind.Retryable() {
			telemetry.Opsf("jobs: %s failed with non-retryable %s: %v", job.JobID, te.Kind, err)
			return
		}
		if !job.CanRetry() {
			telemetry.Opsf("jobs: %s exhausted retries: %v", job.JobID, err)
			return
		}

		delay := d.backoff.Delay(job.Attempt)
		telemetry.Diagf("jobs: retrying %s in %s (attempt %d/%d)", job.JobID, delay, job.Attempt, job.MaxAttempts)
		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
		if err := job.ResetForRetry(); err != nil {
			return
		}
		d.store.Put(job)
	}
}

func (d *Dispatcher) runChain(completed *Job) {
	if d.chain == nil {
		return
	}
	kind, idempotencyKey, ok := d.chain(completed)
	if !ok {
		return
	}
	nextID := uuid.NewString()
	if _, err := d.Dispatch(context.Background(), nextID, kind, completed.MatchID, completed.Queue, idempotencyKey, 3); err != nil {
		telemetry.Opsf("jobs: chained dispatch from %s failed: %v", completed.JobID, err)
	}
}
