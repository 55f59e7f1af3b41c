package persistence

import "github.com/hmelton/plaidbean/pkg/snapshot"

// JSONStore implements Store with one JSON file, the default backend.
type JSONStore struct {
	path string
}

func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

func (s *JSONStore) LoadSnapshots() ([]*snapshot.Snapshot, error) {
	return snapshot.Load(s.path)
}

func (s *JSONStore) DumpSnapshots(snaps []*snapshot.Snapshot) error {
	return snapshot.Dump(s.path, snaps)
}

func (s *JSONStore) Close() error {
	return nil
}
