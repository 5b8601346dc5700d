package jobs

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestDispatchIdempotentOnSameKey(t *testing.T) {
	store := NewMemStore()
	d := NewDispatcher(store, fixedNow(time.Now()))
	d.RegisterRunner("possession_extract", func(ctx context.Context, job *Job) (Result, error) {
		return Result{Content: "done"}, nil
	})

	first, err := d.Execute(context.Background(), "j1", "possession_extract", "m1", DefaultQueue, "key1", 3)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	second, err := d.Dispatch(context.Background(), "j2", "possession_extract", "m1", DefaultQueue, "key1", 3)
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if second.JobID != first.JobID {
		t.Errorf("expected idempotent dispatch to return existing job %s, got %s", first.JobID, second.JobID)
	}
}

func TestExecuteRunsSuccessfulJob(t *testing.T) {
	store := NewMemStore()
	d := NewDispatcher(store, fixedNow(time.Now()))
	d.RegisterRunner("kind_a", func(ctx context.Context, job *Job) (Result, error) {
		return Result{Content: "ok"}, nil
	})

	job, err := d.Execute(context.Background(), "j1", "kind_a", "m1", DefaultQueue, "key1", 3)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if job.Status != Completed {
		t.Errorf("expected Completed, got %v", job.Status)
	}
	if job.Result == nil || job.Result.Content != "ok" {
		t.Errorf("unexpected result: %+v", job.Result)
	}
}

func TestExecuteRetriesThenFails(t *testing.T) {
	store := NewMemStore()
	d := NewDispatcher(store, fixedNow(time.Now()))
	d.backoff = BackoffConfig{Base: time.Millisecond, Multiplier: 1.0, MaxDelay: time.Millisecond}

	attempts := 0
	d.RegisterRunner("kind_b", func(ctx context.Context, job *Job) (Result, error) {
		attempts++
		return Result{}, errors.New("transient failure")
	})

	job, err := d.Execute(context.Background(), "j1", "kind_b", "m1", DefaultQueue, "key1", 2)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if job.Status != Failed {
		t.Errorf("expected Failed after exhausting retries, got %v", job.Status)
	}
	if attempts != 2 {
		t.Errorf("expected 2 attempts, got %d", attempts)
	}
}

func TestExecuteChainsSuccessor(t *testing.T) {
	store := NewMemStore()
	d := NewDispatcher(store, fixedNow(time.Now()))
	d.RegisterRunner("stage_one", func(ctx context.Context, job *Job) (Result, error) {
		return Result{Content: "stage one done"}, nil
	})
	d.RegisterRunner("stage_two", func(ctx context.Context, job *Job) (Result, error) {
		return Result{Content: "stage two done"}, nil
	})
	chained := make(chan struct{}, 1)
	d.SetChain(func(completed *Job) (string, string, bool) {
		if completed.Kind != "stage_one" {
			return "", "", false
		}
		chained <- struct{}{}
		return "stage_two", "stage_two/" + completed.MatchID, true
	})

	if _, err := d.Execute(context.Background(), "j1", "stage_one", "m1", DefaultQueue, "key1", 3); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	select {
	case <-chained:
	case <-time.After(time.Second):
		t.Fatal("expected chain function to fire")
	}

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if job, ok := store.FindByIdempotencyKey("stage_two", "stage_two/m1"); ok && job.IsTerminal() {
			if job.Status != Completed {
				t.Errorf("expected chained job completed, got %v", job.Status)
			}
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("expected chained job to complete")
}

func TestDispatchMissingRunnerFails(t *testing.T) {
	store := NewMemStore()
	d := NewDispatcher(store, fixedNow(time.Now()))

	job, err := d.Dispatch(context.Background(), "j1", "unregistered_kind", "m1", DefaultQueue, "key1", 3)
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		current, _ := store.Get(job.JobID)
		if current.IsTerminal() {
			if current.Status != Failed {
				t.Errorf("expected Failed for missing runner, got %v", current.Status)
			}
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("expected job to fail when no runner is registered")
}

func TestCancelMarksNonTerminalJobFailedAsCancelled(t *testing.T) {
	store := NewMemStore()
	d := NewDispatcher(store, fixedNow(time.Now()))
	block := make(chan struct{})
	d.RegisterRunner("ingestion", func(ctx context.Context, job *Job) (Result, error) {
		<-block
		return Result{}, nil
	})

	job, err := d.Dispatch(context.Background(), "j1", "ingestion", "m1", DefaultQueue, "key1", 3)
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if err := d.Cancel(job.JobID); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	close(block)

	got, err := store.Get(job.JobID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != Failed {
		t.Errorf("expected Failed status after cancel, got %s", got.Status)
	}
	if got.Err != "Cancelled" {
		t.Errorf("expected error message 'Cancelled', got %q", got.Err)
	}
}

func TestCancelRejectsAlreadyTerminalJob(t *testing.T) {
	store := NewMemStore()
	d := NewDispatcher(store, fixedNow(time.Now()))
	d.RegisterRunner("ingestion", func(ctx context.Context, job *Job) (Result, error) {
		return Result{}, nil
	})

	job, err := d.Execute(context.Background(), "j1", "ingestion", "m1", DefaultQueue, "key1", 3)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if err := d.Cancel(job.JobID); err == nil {
		t.Error("expected error cancelling an already-completed job")
	}
}

func TestBackoffConfigDelayGrowsAndCaps(t *testing.T) {
	b := BackoffConfig{Base: time.Second, Multiplier: 2.0, MaxDelay: 3 * time.Second}
	if b.Delay(1) != time.Second {
		t.Errorf("expected first delay 1s, got %v", b.Delay(1))
	}
	if b.Delay(2) != 2*time.Second {
		t.Errorf("expected second delay 2s, got %v", b.Delay(2))
	}
	if b.Delay(5) != 3*time.Second {
		t.Errorf("expected delay capped at 3s, got %v", b.Delay(5))
	}
}
