package store

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/XiaoConstantine/tailor-go/pkg/errors"
	"github.com/XiaoConstantine/tailor-go/pkg/style"
)

// Both implementations satisfy the same contract; run the suite
// against each.
func stores(t *testing.T) map[string]Store {
	t.Helper()

	sqlite, err := NewSQLiteStore(filepath.Join(t.TempDir(), "prefs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqlite.Close() })

	return map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": sqlite,
	}
}

func TestLoadMissingReturnsDefaults(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			record, err := s.Load(context.Background(), "doc-1")
			require.NoError(t, err)
			assert.Equal(t, "doc-1", record.DocumentID)
			assert.Equal(t, int64(0), record.Version)
			assert.Equal(t, style.NewDocumentAdjustments(), record.Adjustments)
			assert.Empty(t, record.EditHistory)
		})
	}
}

func TestSaveAndReload(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			record := NewPreferenceRecord("doc-1")
			record.Adjustments.VerbosityAdjust = -1.2
			record.Adjustments.AddAvoidWords("utilize")
			record.EditHistory = append(record.EditHistory, style.EditDecision{
				ID:        "d1",
				Decision:  style.DecisionAccepted,
				Timestamp: time.Now(),
			})

			require.NoError(t, s.Save(context.Background(), record))
			assert.Equal(t, int64(1), record.Version)

			loaded, err := s.Load(context.Background(), "doc-1")
			require.NoError(t, err)
			assert.Equal(t, -1.2, loaded.Adjustments.VerbosityAdjust)
			assert.Equal(t, []string{"utilize"}, loaded.Adjustments.AdditionalAvoidWords)
			require.Len(t, loaded.EditHistory, 1)
			assert.Equal(t, style.DecisionAccepted, loaded.EditHistory[0].Decision)
			assert.Equal(t, int64(1), loaded.Version)
		})
	}
}

func TestSaveVersionConflict(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			first, err := s.Load(ctx, "doc-1")
			require.NoError(t, err)
			require.NoError(t, s.Save(ctx, first))

			// Second writer loaded before the first save landed
			stale := NewPreferenceRecord("doc-1")
			err = s.Save(ctx, stale)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errs.New(errs.VersionConflict, "")))

			// A fresh load-save succeeds
			current, err := s.Load(ctx, "doc-1")
			require.NoError(t, err)
			require.NoError(t, s.Save(ctx, current))
			assert.Equal(t, int64(2), current.Version)
		})
	}
}

func TestSaveRespectsCanceledContext(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			err := s.Save(ctx, NewPreferenceRecord("doc-1"))
			assert.Error(t, err)
		})
	}
}

func TestKeyedLocksSerializePerKey(t *testing.T) {
	locks := NewKeyedLocks()

	var mu sync.Mutex
	order := []int{}

	unlock := locks.Lock("doc-1")

	done := make(chan struct{})
	go func() {
		defer close(done)
		u := locks.Lock("doc-1")
		defer u()
		mu.Lock()
		order = append(order, 2)
		mu.Unlock()
	}()

	// A different key is not blocked
	u2 := locks.Lock("doc-2")
	u2()

	mu.Lock()
	order = append(order, 1)
	mu.Unlock()
	unlock()

	<-done
	assert.Equal(t, []int{1, 2}, order)
}
