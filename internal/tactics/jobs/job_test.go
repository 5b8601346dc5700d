package jobs

import (
	"testing"
	"time"
)

func TestJobLifecycleHappyPath(t *testing.T) {
	now := time.Now()
	job := NewJob("j1", "possession_extract", "m1", DefaultQueue, "key1", 3, now)

	if job.Status != Pending {
		t.Fatalf("expected Pending, got %v", job.Status)
	}
	if err := job.Start(now.Add(time.Second)); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if job.Attempt != 1 {
		t.Errorf("expected attempt 1, got %d", job.Attempt)
	}
	if err := job.Complete(Result{Content: "ok"}, now.Add(2*time.Second)); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if !job.IsTerminal() {
		t.Error("expected completed job to be terminal")
	}
}

func TestJobStartFromNonPendingFails(t *testing.T) {
	now := time.Now()
	job := NewJob("j1", "k", "m1", DefaultQueue, "key1", 3, now)
	job.Start(now)
	if err := job.Start(now); err == nil {
		t.Error("expected error starting a running job")
	}
}

func TestJobCompleteFromNonRunningFails(t *testing.T) {
	now := time.Now()
	job := NewJob("j1", "k", "m1", DefaultQueue, "key1", 3, now)
	if err := job.Complete(Result{}, now); err == nil {
		t.Error("expected error completing a pending job")
	}
}

func TestJobFailAllowedFromFailedAgain(t *testing.T) {
	now := time.Now()
	job := NewJob("j1", "k", "m1", DefaultQueue, "key1", 3, now)
	job.Start(now)
	if err := job.Fail("boom", now); err != nil {
		t.Fatalf("Fail: %v", err)
	}
	if err := job.Fail("boom again", now); err != nil {
		t.Errorf("expected re-failing a failed job to be allowed, got %v", err)
	}
}

func TestJobFailFromCompletedRejected(t *testing.T) {
	now := time.Now()
	job := NewJob("j1", "k", "m1", DefaultQueue, "key1", 3, now)
	job.Start(now)
	job.Complete(Result{}, now)
	if err := job.Fail("late error", now); err == nil {
		t.Error("expected error failing a completed job")
	}
}

func TestJobRetryLifecycle(t *testing.T) {
	now := time.Now()
	job := NewJob("j1", "k", "m1", DefaultQueue, "key1", 2, now)
	job.Start(now)
	job.Fail("first failure", now)
	if !job.CanRetry() {
		t.Fatal("expected retry available after first failure")
	}
	if err := job.ResetForRetry(); err != nil {
		t.Fatalf("ResetForRetry: %v", err)
	}
	if job.Status != Pending {
		t.Errorf("expected Pending after reset, got %v", job.Status)
	}

	job.Start(now)
	job.Fail("second failure", now)
	if job.CanRetry() {
		t.Error("expected retries exhausted after MaxAttempts reached")
	}
	if err := job.ResetForRetry(); err == nil {
		t.Error("expected error resetting a job with no retries left")
	}
}

func TestNewJobDefaultsMaxAttempts(t *testing.T) {
	job := NewJob("j1", "k", "m1", DefaultQueue, "key1", 0, time.Now())
	if job.MaxAttempts != 3 {
		t.Errorf("expected default max attempts 3, got %d", job.MaxAttempts)
	}
}
