// Package store persists one preference record per document id and
// serializes read-modify-write cycles against the same document.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/XiaoConstantine/tailor-go/pkg/style"
)

// PreferenceRecord is the persisted state for one document.
type PreferenceRecord struct {
	DocumentID  string                    `json:"document_id"`
	Adjustments style.DocumentAdjustments `json:"adjustments"`
	EditHistory []style.EditDecision      `json:"edit_history"`
	UpdatedAt   time.Time                 `json:"updated_at"`

	// Version supports compare-and-swap saves. Zero means the record
	// has never been persisted.
	Version int64 `json:"version"`
}

// NewPreferenceRecord returns the defaults created the first time a
// document is edited.
func NewPreferenceRecord(documentID string) *PreferenceRecord {
	return &PreferenceRecord{
		DocumentID:  documentID,
		Adjustments: style.NewDocumentAdjustments(),
	}
}

// Store loads and saves preference records. Save must fail with a
// VersionConflict error when the stored version no longer matches the
// record's version; implementations increment Version on success.
type Store interface {
	// Load returns the record for the document, or a fresh default
	// record when none exists yet.
	Load(ctx context.Context, documentID string) (*PreferenceRecord, error)

	// Save persists the record, bumping its version.
	Save(ctx context.Context, record *PreferenceRecord) error
}

// KeyedLocks serializes work per document within this process. Two
// concurrent operations against the same document must not interleave
// their read-modify-write of the preference record.
type KeyedLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewKeyedLocks creates an empty lock registry.
func NewKeyedLocks() *KeyedLocks {
	return &KeyedLocks{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the lock for key and returns its release function.
func (k *KeyedLocks) Lock(key string) (unlock func()) {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &sync.Mutex{}
		k.locks[key] = l
	}
	k.mu.Unlock()

	l.Lock()
	return l.Unlock
}
