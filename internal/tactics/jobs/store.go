package jobs

import (
	"sync"

	"github.com/matchforge/tactics-engine/internal/tacticserr"
)

// Store persists jobs and supports the idempotency lookup the Dispatcher
// needs before creating a new job for a (kind, idempotencyKey) pair.
type Store interface {
	Put(job *Job) error
	Get(jobID string) (*Job, error)
	FindByIdempotencyKey(kind, idempotencyKey string) (*Job, bool)
	List(matchID string) ([]*Job, error)
}

// MemStore is an in-memory Store guarded by a mutex, modeled on the
// package-level registry/mutex idiom used by the run manager that tracks
// in-flight analysis runs: a map keyed by ID plus a secondary index for
// lookup by a natural key other than the primary one.
type MemStore struct {
	mu    sync.Mutex
	byID  map[string]*Job
	byKey map[string]string // "kind/idempotencyKey" -> jobID
}

var _ Store = (*MemStore)(nil)

// NewMemStore constructs an empty in-memory job store.
func NewMemStore() *MemStore {
	return &MemStore{
		byID:  make(map[string]*Job),
		byKey: make(map[string]string),
	}
}

func storeKey(kind, idempotencyKey string) string {
	return kind + "/" + idempotencyKey
}

// Put inserts or updates a job. A copy is stored so later mutation of the
// caller's Job value does not silently change store state out from under
// concurrent readers.
func (s *MemStore) Put(job *Job) error {
	if job == nil {
		return tacticserr.New(tacticserr.BadInput, "cannot store a nil job")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *job
	s.byID[job.JobID] = &clone
	if job.IdempotencyKey != "" {
		s.byKey[storeKey(job.Kind, job.IdempotencyKey)] = job.JobID
	}
	return nil
}

// Get returns the stored job by ID.
func (s *MemStore) Get(jobID string) (*Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.byID[jobID]
	if !ok {
		return nil, tacticserr.Newf(tacticserr.NotFound, "job %s not found", jobID)
	}
	clone := *job
	return &clone, nil
}

// FindByIdempotencyKey returns the job, if any, created under the given
// (kind, idempotencyKey) pair.
func (s *MemStore) FindByIdempotencyKey(kind, idempotencyKey string) (*Job, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	jobID, ok := s.byKey[storeKey(kind, idempotencyKey)]
	if !ok {
		return nil, false
	}
	job, ok := s.byID[jobID]
	if !ok {
		return nil, false
	}
	clone := *job
	return &clone, true
}

// List returns all jobs for a match, in insertion order is not guaranteed.
func (s *MemStore) List(matchID string) ([]*Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*Job
	for _, job := range s.byID {
		if job.MatchID == matchID {
			clone := *job
			out = append(out, &clone)
		}
	}
	return out, nil
}
