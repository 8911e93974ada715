package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLoadSnapshotMissing(t *testing.T) {
	s := newTestStore(t)

	payload, err := s.LoadSnapshot("absent")
	require.NoError(t, err)
	assert.Nil(t, payload)
}

func TestSaveAndLoadSnapshot(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.SaveSnapshot("group_cache", []byte(`{"lru":[]}`)))
	payload, err := s.LoadSnapshot("group_cache")
	require.NoError(t, err)
	assert.JSONEq(t, `{"lru":[]}`, string(payload))
}

func TestSaveSnapshotReplaces(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.SaveSnapshot("k", []byte("v1")))
	require.NoError(t, s.SaveSnapshot("k", []byte("v2")))

	payload, err := s.LoadSnapshot("k")
	require.NoError(t, err)
	assert.Equal(t, "v2", string(payload))
}

func TestDeleteSnapshot(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.SaveSnapshot("k", []byte("v")))
	require.NoError(t, s.DeleteSnapshot("k"))

	payload, err := s.LoadSnapshot("k")
	require.NoError(t, err)
	assert.Nil(t, payload)

	// Deleting a missing key is not an error.
	assert.NoError(t, s.DeleteSnapshot("k"))
}

func TestSnapshotSurvivesReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "toolshelf.db")

	s, err := NewStore(dbPath)
	require.NoError(t, err)
	require.NoError(t, s.SaveSnapshot("k", []byte("persisted")))
	require.NoError(t, s.Close())

	reopened, err := NewStore(dbPath)
	require.NoError(t, err)
	defer reopened.Close()

	payload, err := reopened.LoadSnapshot("k")
	require.NoError(t, err)
	assert.Equal(t, "persisted", string(payload))
}
