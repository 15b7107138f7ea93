package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_UpdateAndGet(t *testing.T) {
	store, err := Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	_, ok := store.GetEntry("foo.c")
	assert.False(t, ok)

	require.NoError(t, store.UpdateFile("foo.c", "hash1", "thash1", 75.0))

	entry, ok := store.GetEntry("foo.c")
	require.True(t, ok)
	assert.Equal(t, "hash1", entry.FileHash)
	assert.Equal(t, 75.0, entry.MutationScore)
}

func TestStore_HasChanged(t *testing.T) {
	store, err := Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	assert.True(t, store.HasChanged("foo.c", "hash1"))

	require.NoError(t, store.UpdateFile("foo.c", "hash1", "thash1", 0))
	assert.False(t, store.HasChanged("foo.c", "hash1"))
	assert.True(t, store.HasChanged("foo.c", "hash2"))
}

func TestStore_GetStats(t *testing.T) {
	store, err := Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.UpdateFile("a.c", "h1", "t1", 100))
	require.NoError(t, store.UpdateFile("b.c", "h2", "t2", 50))

	stats, err := store.GetStats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalFiles)
	assert.Equal(t, 75.0, stats.AverageScore)
}
