// Package artifact implements the key-addressed blob store spec §4.10:
// two logical namespaces (tracking/, reports/), object and table accessors,
// and a minimal in-memory domain event bus.
package artifact

import (
	"time"

	"github.com/matchforge/tactics-engine/internal/tacticserr"
)

// Namespace is the closed set of logical artifact namespaces.
type Namespace string

const (
	Tracking Namespace = "tracking"
	Reports  Namespace = "reports"
)

// Stat describes an object's metadata without fetching its body.
type Stat struct {
	Size        int64
	ContentType string
	ModifiedAt  time.Time
}

// Store is the key-addressed blob contract. Implementations must be safe
// for concurrent readers; writers for the same key are serialized, and the
// last write started wins.
type Store interface {
	PutObject(key string, data []byte, contentType string) error
	GetObject(key string) ([]byte, error)
	PutTable(key string, table *Table) error
	GetTable(key string) (*Table, error)
	Stat(key string) (Stat, error)
	Remove(key string) error
}

func keyErr(key string) error {
	return tacticserr.Newf(tacticserr.NotFound, "artifact %q not found", key)
}
