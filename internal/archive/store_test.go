package archive

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/Farahprojects/repoaudit/internal/contract"
	"github.com/Farahprojects/repoaudit/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteStore(t *testing.T) contract.ArchiveStore {
	t.Helper()
	store, err := NewStore(schema.SQLiteBackend, filepath.Join(t.TempDir(), "archive.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleMeta(repoID string) schema.RepoArchive {
	return schema.RepoArchive{
		RepoID:   repoID,
		BlobHash: "abc123",
		BlobSize: 4,
		FileIndex: map[string]schema.FileIndexEntry{
			"main.go": {Size: 400, Hash: "deadbeef", Type: schema.ClassBackend},
		},
		LastAccessed: time.Unix(1700000000, 0),
	}
}

// TestStoreRoundTrip verifies put, get, touch and delete on SQLite.
func TestStoreRoundTrip(t *testing.T) {
	store := newSQLiteStore(t)

	_, _, err := store.GetArchive("octocat/hello")
	assert.ErrorIs(t, err, contract.ErrArchiveNotFound)

	meta := sampleMeta("octocat/hello")
	require.NoError(t, store.PutArchive(meta, []byte("blob")))

	blob, got, err := store.GetArchive("octocat/hello")
	require.NoError(t, err)
	assert.Equal(t, []byte("blob"), blob)
	assert.Equal(t, "octocat/hello", got.RepoID)
	assert.Equal(t, "abc123", got.BlobHash)
	assert.Equal(t, int64(4), got.BlobSize)
	require.Contains(t, got.FileIndex, "main.go")
	assert.Equal(t, schema.ClassBackend, got.FileIndex["main.go"].Type)
	assert.Equal(t, meta.LastAccessed.Unix(), got.LastAccessed.Unix())

	later := time.Unix(1800000000, 0)
	require.NoError(t, store.TouchArchive("octocat/hello", later))
	_, got, err = store.GetArchive("octocat/hello")
	require.NoError(t, err)
	assert.Equal(t, later.Unix(), got.LastAccessed.Unix())

	require.NoError(t, store.DeleteArchive("octocat/hello"))
	_, _, err = store.GetArchive("octocat/hello")
	assert.ErrorIs(t, err, contract.ErrArchiveNotFound)
}

// TestStoreUpsert verifies a second put replaces the row in place.
func TestStoreUpsert(t *testing.T) {
	store := newSQLiteStore(t)

	require.NoError(t, store.PutArchive(sampleMeta("octocat/hello"), []byte("v1")))

	updated := sampleMeta("octocat/hello")
	updated.BlobHash = "def456"
	require.NoError(t, store.PutArchive(updated, []byte("v2")))

	blob, got, err := store.GetArchive("octocat/hello")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), blob)
	assert.Equal(t, "def456", got.BlobHash)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 1, status.TotalArchives)
}

// TestStoreStatus verifies aggregate counts and access time bounds.
func TestStoreStatus(t *testing.T) {
	store := newSQLiteStore(t)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.True(t, status.Connected)
	assert.Zero(t, status.TotalArchives)

	a := sampleMeta("octocat/hello")
	a.BlobSize = 2
	a.LastAccessed = time.Unix(1600000000, 0)
	b := sampleMeta("octocat/world")
	b.BlobSize = 4
	b.LastAccessed = time.Unix(1700000000, 0)
	require.NoError(t, store.PutArchive(a, []byte("aa")))
	require.NoError(t, store.PutArchive(b, []byte("bbbb")))

	status, err = store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 2, status.TotalArchives)
	assert.Equal(t, int64(6), status.TotalBlobBytes)
	assert.Equal(t, int64(1600000000), status.OldestAccess.Unix())
	assert.Equal(t, int64(1700000000), status.NewestAccess.Unix())
}

// TestStoreNoneBackend verifies the disabled-cache store serves reads
// within the process but persists nothing across store instances.
func TestStoreNoneBackend(t *testing.T) {
	store, err := NewStore(schema.NoneBackend, "")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	require.NoError(t, store.PutArchive(sampleMeta("octocat/hello"), []byte("blob")))
	blob, got, err := store.GetArchive("octocat/hello")
	require.NoError(t, err)
	assert.Equal(t, []byte("blob"), blob)
	assert.Equal(t, "abc123", got.BlobHash)

	later := time.Unix(1800000000, 0)
	require.NoError(t, store.TouchArchive("octocat/hello", later))
	_, got, err = store.GetArchive("octocat/hello")
	require.NoError(t, err)
	assert.Equal(t, later.Unix(), got.LastAccessed.Unix())

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.False(t, status.Connected)
	assert.Equal(t, string(schema.NoneBackend), status.Backend)
	assert.Equal(t, 1, status.TotalArchives)
	assert.Equal(t, int64(4), status.TotalBlobBytes)

	require.NoError(t, store.DeleteArchive("octocat/hello"))
	_, _, err = store.GetArchive("octocat/hello")
	assert.ErrorIs(t, err, contract.ErrArchiveNotFound)

	// A fresh store starts empty: nothing outlives the instance
	fresh, err := NewStore(schema.NoneBackend, "")
	require.NoError(t, err)
	_, _, err = fresh.GetArchive("octocat/hello")
	assert.ErrorIs(t, err, contract.ErrArchiveNotFound)
}

// TestNewStoreUnknownBackend verifies the validation error path.
func TestNewStoreUnknownBackend(t *testing.T) {
	_, err := NewStore(schema.DatabaseBackend("oracle"), "")
	assert.Error(t, err)
}
