package artifact

import (
	"sync"
	"time"
)

type object struct {
	data        []byte
	contentType string
	modifiedAt  time.Time
}

// MemStore is an in-memory Store. Reads take an RLock; writes to a given key
// are serialized by a per-key mutex shard so concurrent writers to distinct
// keys never block each other, mirroring the "writers for the same key are
// serialized" requirement the run manager enforces with its own run-scoped
// mutex.
type MemStore struct {
	mu       sync.RWMutex
	objects  map[string]object
	keyLocks map[string]*sync.Mutex
	now      func() time.Time
}

var _ Store = (*MemStore)(nil)

// NewMemStore builds an empty in-memory artifact store. now supplies the
// current time (injected for deterministic tests).
func NewMemStore(now func() time.Time) *MemStore {
	if now == nil {
		now = time.Now
	}
	return &MemStore{
		objects:  make(map[string]object),
		keyLocks: make(map[string]*sync.Mutex),
		now:      now,
	}
}

func (s *MemStore) lockFor(key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.keyLocks[key]
	if !ok {
		l = &sync.Mutex{}
		s.keyLocks[key] = l
	}
	return l
}

// PutObject writes data under key, replacing any prior value.
func (s *MemStore) PutObject(key string, data []byte, contentType string) error {
	l := s.lockFor(key)
	l.Lock()
	defer l.Unlock()

	cp := make([]byte, len(data))
	copy(cp, data)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = object{data: cp, contentType: contentType, modifiedAt: s.now()}
	return nil
}

// GetObject returns the bytes stored under key.
func (s *MemStore) GetObject(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[key]
	if !ok {
		return nil, keyErr(key)
	}
	cp := make([]byte, len(obj.data))
	copy(cp, obj.data)
	return cp, nil
}

// PutTable encodes table and stores it under key with a table content type.
func (s *MemStore) PutTable(key string, table *Table) error {
	data, err := table.Encode()
	if err != nil {
		return err
	}
	return s.PutObject(key, data, "application/x-tactics-table")
}

// GetTable fetches and decodes the table stored under key.
func (s *MemStore) GetTable(key string) (*Table, error) {
	data, err := s.GetObject(key)
	if err != nil {
		return nil, err
	}
	return DecodeTable(data)
}

// Stat returns size/content-type/mtime metadata without fetching the body.
func (s *MemStore) Stat(key string) (Stat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[key]
	if !ok {
		return Stat{}, keyErr(key)
	}
	return Stat{Size: int64(len(obj.data)), ContentType: obj.contentType, ModifiedAt: obj.modifiedAt}, nil
}

// Remove deletes the object stored under key, if present.
func (s *MemStore) Remove(key string) error {
	l := s.lockFor(key)
	l.Lock()
	defer l.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

// TrackingKey builds the canonical key for a match's trajectory table.
func TrackingKey(matchID, ext string) string {
	return string(Tracking) + "/" + matchID + "." + ext
}

// ReportsKey builds the canonical key for a match's report artifact.
func ReportsKey(matchID, ext string) string {
	return string(Reports) + "/" + matchID + "." + ext
}
