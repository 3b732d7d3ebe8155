package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	Hash string `json:"hash"`
}

func newTestCache(t *testing.T, key string) *FileCache[record] {
	t.Helper()
	c, err := New[record](Settings{
		Key:       key,
		Namespace: "test",
		Duration:  time.Hour,
	})
	require.NoError(t, err)
	return c
}

func TestFileCache_MissThenHit(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	c := newTestCache(t, "some/file.yaml")

	_, err := c.Get()
	require.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, c.Store(&record{Hash: "abc"}))

	got, err := c.Get()
	require.NoError(t, err)
	assert.Equal(t, "abc", got.Hash)
}

func TestFileCache_KeysAreIndependent(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	a := newTestCache(t, "a.yaml")
	b := newTestCache(t, "b.yaml")

	require.NoError(t, a.Store(&record{Hash: "a"}))

	_, err := b.Get()
	require.ErrorIs(t, err, ErrCacheMiss)
}

func TestFileCache_Delete(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	c := newTestCache(t, "a.yaml")
	require.NoError(t, c.Store(&record{Hash: "a"}))
	require.NoError(t, c.Delete())

	_, err := c.Get()
	require.ErrorIs(t, err, ErrCacheMiss)
}

func TestClear_RemovesNamespace(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	c := newTestCache(t, "a.yaml")
	require.NoError(t, c.Store(&record{Hash: "a"}))

	require.NoError(t, Clear("test"))

	_, err := c.Get()
	require.ErrorIs(t, err, ErrCacheMiss)
}
