package store

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/XiaoConstantine/tailor-go/pkg/errors"
)

// MemoryStore is an in-memory Store for tests and embedded use.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string][]byte)}
}

// Load implements Store. Records round-trip through JSON so callers
// never share mutable state with the store.
func (s *MemoryStore) Load(ctx context.Context, documentID string) (*PreferenceRecord, error) {
	if err := errors.CheckContext(ctx, "load preferences"); err != nil {
		return nil, err
	}

	s.mu.RLock()
	data, ok := s.records[documentID]
	s.mu.RUnlock()

	if !ok {
		return NewPreferenceRecord(documentID), nil
	}

	var record PreferenceRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, errors.Wrap(err, errors.StoreFailed, "corrupt preference record")
	}
	return &record, nil
}

// Save implements Store with optimistic concurrency on Version.
func (s *MemoryStore) Save(ctx context.Context, record *PreferenceRecord) error {
	if err := errors.CheckContext(ctx, "save preferences"); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if data, ok := s.records[record.DocumentID]; ok {
		var current PreferenceRecord
		if err := json.Unmarshal(data, &current); err != nil {
			return errors.Wrap(err, errors.StoreFailed, "corrupt preference record")
		}
		if current.Version != record.Version {
			return errors.WithFields(
				errors.New(errors.VersionConflict, "preference record was updated concurrently"),
				errors.Fields{"document_id": record.DocumentID})
		}
	} else if record.Version != 0 {
		return errors.New(errors.VersionConflict, "preference record no longer exists")
	}

	record.Version++
	record.UpdatedAt = time.Now()

	data, err := json.Marshal(record)
	if err != nil {
		return errors.Wrap(err, errors.StoreFailed, "failed to encode preference record")
	}
	s.records[record.DocumentID] = data
	return nil
}
