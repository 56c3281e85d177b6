package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_RecordAndRecent(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	first, err := store.Record(ctx, Snapshot{
		CorpusHash:       "hash-a",
		Label:            "corpus.metta",
		NodeCount:        4,
		EdgeCount:        2,
		ComponentCount:   2,
		OrphanCount:      1,
		LargestComponent: 3,
		CreatedAt:        time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, first.RunID, "run id must be assigned")

	_, err = store.Record(ctx, Snapshot{
		CorpusHash: "hash-b",
		NodeCount:  1,
		CreatedAt:  time.Date(2026, 1, 2, 4, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	recent, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 2)

	// Newest first.
	assert.Equal(t, "hash-b", recent[0].CorpusHash)
	assert.Equal(t, "hash-a", recent[1].CorpusHash)
	assert.Equal(t, 4, recent[1].NodeCount)
	assert.Equal(t, 1, recent[1].OrphanCount)
	assert.Equal(t, "corpus.metta", recent[1].Label)
}

func TestStore_ForHash(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := store.Record(ctx, Snapshot{CorpusHash: "same", NodeCount: i})
		require.NoError(t, err)
	}
	_, err := store.Record(ctx, Snapshot{CorpusHash: "other"})
	require.NoError(t, err)

	snaps, err := store.ForHash(ctx, "same")
	require.NoError(t, err)
	assert.Len(t, snaps, 3)
	for _, snap := range snaps {
		assert.Equal(t, "same", snap.CorpusHash)
	}
}

func TestStore_ReopenKeepsRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	ctx := context.Background()

	store, err := Open(path)
	require.NoError(t, err)
	_, err = store.Record(ctx, Snapshot{CorpusHash: "persisted"})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	snaps, err := reopened.Recent(ctx, 5)
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Equal(t, "persisted", snaps[0].CorpusHash)
}

func TestOpen_RejectsEmptyAndDirectoryPaths(t *testing.T) {
	_, err := Open("  ")
	require.Error(t, err)

	_, err = Open(t.TempDir())
	require.Error(t, err)
}
