package datastore

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*DataStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.json")
	cfg := DefaultConfig(path)
	cfg.AutoSaveInterval = time.Hour // keep the ticker out of the way
	cfg.BackupCount = 2

	ds, err := NewWithConfig(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { ds.Close() })
	return ds, path
}

func TestAddGetDelete(t *testing.T) {
	ds, _ := newTestStore(t)

	ds.Add("k1", "v1")
	v, ok := ds.Get("k1")
	require.True(t, ok)
	assert.Equal(t, "v1", v)

	ds.Add("k1", "v2")
	v, _ = ds.Get("k1")
	assert.Equal(t, "v2", v)

	ds.Delete("k1")
	_, ok = ds.Get("k1")
	assert.False(t, ok)
}

func TestKeysSorted(t *testing.T) {
	ds, _ := newTestStore(t)
	ds.Add("b", 1)
	ds.Add("a", 2)
	ds.Add("c", 3)
	assert.Equal(t, []string{"a", "b", "c"}, ds.Keys())
}

func TestUpdateReadModifyWrite(t *testing.T) {
	ds, _ := newTestStore(t)

	ds.Update("counter", func(current any, exists bool) any {
		assert.False(t, exists)
		return 1
	})
	ds.Update("counter", func(current any, exists bool) any {
		require.True(t, exists)
		return current.(int) + 1
	})

	v, _ := ds.Get("counter")
	assert.Equal(t, 2, v)
}

func TestPersistenceRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	cfg := DefaultConfig(path)
	cfg.AutoSaveInterval = time.Hour
	cfg.BackupCount = 0

	ds, err := NewWithConfig(cfg)
	require.NoError(t, err)
	ds.Add("user:1", map[string]any{"name": "alice", "tier": float64(2)})
	require.NoError(t, ds.Close())

	reopened, err := NewWithConfig(cfg)
	require.NoError(t, err)
	defer reopened.Close()

	v, ok := reopened.Get("user:1")
	require.True(t, ok)
	rec, ok := v.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "alice", rec["name"])
	assert.Equal(t, float64(2), rec["tier"])
}

func TestSaveSkippedWhenUnchanged(t *testing.T) {
	ds, path := newTestStore(t)
	ds.Add("k", "v")
	require.NoError(t, ds.SaveToFile())

	before, err := os.Stat(path)
	require.NoError(t, err)

	// Identical content: the second save is a checksum no-op.
	require.NoError(t, ds.SaveToFile())
	after, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, before.ModTime(), after.ModTime())
}

func TestBackupsRotate(t *testing.T) {
	ds, path := newTestStore(t)

	for i := 0; i < 5; i++ {
		ds.Add("k", i)
		require.NoError(t, ds.SaveToFile())
		time.Sleep(1100 * time.Millisecond) // backup names have second resolution
	}

	matches, err := filepath.Glob(path + ".backup.*")
	require.NoError(t, err)
	assert.LessOrEqual(t, len(matches), 2)
}

func TestClosedStoreRejectsOperations(t *testing.T) {
	ds, _ := newTestStore(t)
	require.NoError(t, ds.Close())

	ds.Add("k", "v")
	_, ok := ds.Get("k")
	assert.False(t, ok)
	assert.Nil(t, ds.Keys())
	assert.Error(t, ds.SaveToFile())
	assert.NoError(t, ds.Close()) // idempotent
}

func TestRequiresFilePath(t *testing.T) {
	_, err := NewWithConfig(&Config{})
	assert.Error(t, err)
	_, err = NewWithConfig(nil)
	assert.Error(t, err)
}
