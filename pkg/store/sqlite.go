package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/XiaoConstantine/tailor-go/pkg/errors"
	"github.com/XiaoConstantine/tailor-go/pkg/style"
)

// SQLiteStore implements Store using SQLite as the backend.
type SQLiteStore struct {
	db   *sql.DB
	path string

	initialized sync.Once
}

// NewSQLiteStore creates a new SQLite-backed preference store.
// If path is ":memory:", the database will be created in-memory.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.WithFields(
			errors.Wrap(err, errors.StoreFailed, "failed to open SQLite database"),
			errors.Fields{"path": path},
		)
	}

	store := &SQLiteStore{
		db:   db,
		path: path,
	}
	if err := store.ensureInitialized(); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) ensureInitialized() error {
	var initErr error
	s.initialized.Do(func() {
		// Enable WAL mode for better concurrency
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			initErr = errors.Wrap(err, errors.StoreFailed, "failed to enable WAL mode")
			return
		}

		query := `
        CREATE TABLE IF NOT EXISTS document_preferences (
            document_id TEXT PRIMARY KEY,
            adjustments TEXT NOT NULL,
            edit_history TEXT NOT NULL,
            version INTEGER NOT NULL DEFAULT 1,
            updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
        );
        `

		if _, err := s.db.Exec(query); err != nil {
			initErr = errors.WithFields(
				errors.Wrap(err, errors.StoreFailed, "failed to initialize database"),
				errors.Fields{"query": query},
			)
			return
		}
	})
	return initErr
}

// Load implements Store.
func (s *SQLiteStore) Load(ctx context.Context, documentID string) (*PreferenceRecord, error) {
	if err := errors.CheckContext(ctx, "load preferences"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT adjustments, edit_history, version, updated_at
		 FROM document_preferences WHERE document_id = ?`, documentID)

	var adjustmentsJSON, historyJSON string
	var version int64
	var updatedAt time.Time

	err := row.Scan(&adjustmentsJSON, &historyJSON, &version, &updatedAt)
	if err == sql.ErrNoRows {
		return NewPreferenceRecord(documentID), nil
	}
	if err != nil {
		return nil, errors.WithFields(
			errors.Wrap(err, errors.StoreFailed, "failed to load preference record"),
			errors.Fields{"document_id": documentID})
	}

	record := &PreferenceRecord{
		DocumentID: documentID,
		Version:    version,
		UpdatedAt:  updatedAt,
	}
	if err := json.Unmarshal([]byte(adjustmentsJSON), &record.Adjustments); err != nil {
		return nil, errors.Wrap(err, errors.StoreFailed, "corrupt adjustments column")
	}
	if err := json.Unmarshal([]byte(historyJSON), &record.EditHistory); err != nil {
		return nil, errors.Wrap(err, errors.StoreFailed, "corrupt edit_history column")
	}
	return record, nil
}

// Save implements Store. The version column provides the
// compare-and-swap: an update only lands when the stored version still
// matches the version the caller loaded.
func (s *SQLiteStore) Save(ctx context.Context, record *PreferenceRecord) error {
	if err := errors.CheckContext(ctx, "save preferences"); err != nil {
		return err
	}

	adjustmentsJSON, err := json.Marshal(record.Adjustments)
	if err != nil {
		return errors.Wrap(err, errors.StoreFailed, "failed to encode adjustments")
	}
	history := record.EditHistory
	if history == nil {
		history = []style.EditDecision{}
	}
	historyJSON, err := json.Marshal(history)
	if err != nil {
		return errors.Wrap(err, errors.StoreFailed, "failed to encode edit history")
	}

	now := time.Now()

	if record.Version == 0 {
		_, err = s.db.ExecContext(ctx,
			`INSERT INTO document_preferences (document_id, adjustments, edit_history, version, updated_at)
			 VALUES (?, ?, ?, 1, ?)`,
			record.DocumentID, string(adjustmentsJSON), string(historyJSON), now)
		if err != nil {
			return errors.WithFields(
				errors.Wrap(err, errors.VersionConflict, "preference record already exists"),
				errors.Fields{"document_id": record.DocumentID})
		}
		record.Version = 1
		record.UpdatedAt = now
		return nil
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE document_preferences
		 SET adjustments = ?, edit_history = ?, version = version + 1, updated_at = ?
		 WHERE document_id = ? AND version = ?`,
		string(adjustmentsJSON), string(historyJSON), now, record.DocumentID, record.Version)
	if err != nil {
		return errors.WithFields(
			errors.Wrap(err, errors.StoreFailed, "failed to save preference record"),
			errors.Fields{"document_id": record.DocumentID})
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, errors.StoreFailed, "failed to confirm save")
	}
	if affected == 0 {
		return errors.WithFields(
			errors.New(errors.VersionConflict, "preference record was updated concurrently"),
			errors.Fields{"document_id": record.DocumentID, "version": record.Version})
	}

	record.Version++
	record.UpdatedAt = now
	return nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
