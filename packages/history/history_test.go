package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/abdul-hamid-achik/specbridge/packages/core/result"
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

func TestRecordAndRecent(t *testing.T) {
	store := openTestStore(t)

	id, err := store.Record("users API", &result.Summary{
		Total: 5, Passed: 3, Failed: 1, Pending: 1,
		Duration: 150 * time.Millisecond,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	_, err = store.Record("orders API", &result.Summary{Total: 2, Passed: 2})
	require.NoError(t, err)

	runs, err := store.Recent(10)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	latest := runs[0]
	assert.Equal(t, "orders API", latest.Spec)
	assert.Equal(t, 2, latest.Passed)

	first := runs[1]
	assert.Equal(t, "users API", first.Spec)
	assert.Equal(t, 150*time.Millisecond, first.Duration)
	assert.Equal(t, 1, first.Pending)
}

func TestRecentHonorsLimit(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 5; i++ {
		_, err := store.Record("spec", &result.Summary{Total: 1, Passed: 1})
		require.NoError(t, err)
	}

	runs, err := store.Recent(3)
	require.NoError(t, err)
	assert.Len(t, runs, 3)
}

func TestRecentEmptyStore(t *testing.T) {
	store := openTestStore(t)

	runs, err := store.Recent(10)
	require.NoError(t, err)
	assert.Empty(t, runs)
}
