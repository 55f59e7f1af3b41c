// Package persistence stores fetched snapshots between the fetch and
// extract steps, and loads/dumps the yaml configuration.
package persistence

import (
	"fmt"

	"github.com/hmelton/plaidbean/pkg/config"
	"github.com/hmelton/plaidbean/pkg/snapshot"
)

// Store abstracts snapshot persistence.
type Store interface {
	LoadSnapshots() ([]*snapshot.Snapshot, error)
	DumpSnapshots(snaps []*snapshot.Snapshot) error
	Close() error
}

// NewStore creates a Store for the configured backend.
func NewStore(cfg config.StorageConfig) (Store, error) {
	backend := cfg.Backend
	if backend == "" {
		backend = "json"
	}
	return NewStoreWithBackend(backend, cfg.Path)
}

// NewStoreWithBackend creates a Store for an explicit backend name. An empty
// path falls back to the backend's default location.
func NewStoreWithBackend(backend, path string) (Store, error) {
	switch backend {
	case "json":
		if path == "" {
			path = DefaultSnapshotPath
		}
		return NewJSONStore(path), nil
	case "sqlite":
		if path == "" {
			path = DefaultSQLitePath
		}
		return NewSQLiteStore(path)
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", backend)
	}
}
