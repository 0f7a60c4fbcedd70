package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/campusmesh/campusmesh/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "campus.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func TestMigrate_Idempotent(t *testing.T) {
	store := openTestStore(t)

	// Running migration again must not duplicate the seed rows.
	require.NoError(t, store.Migrate(context.Background()))

	rows, err := store.Query(context.Background(), "SELECT COUNT(*) AS n FROM courses")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.EqualValues(t, int64(len(sampleCourses)), rows[0]["n"])
}

func TestQuery_ReturnsRawRows(t *testing.T) {
	store := openTestStore(t)

	rows, err := store.Query(context.Background(), "SELECT course_name, discipline FROM courses WHERE discipline = 'Biology' ORDER BY course_name")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Introduction to Biology", rows[0]["course_name"])
	assert.Equal(t, "Biology", rows[0]["discipline"])
}

func TestQuery_StorageUnavailable(t *testing.T) {
	store := openTestStore(t)
	require.NoError(t, store.Close())

	_, err := store.Query(context.Background(), "SELECT 1")
	assert.ErrorIs(t, err, core.ErrStorageUnavailable)
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := Open("")
	assert.ErrorIs(t, err, core.ErrConfiguration)
}
