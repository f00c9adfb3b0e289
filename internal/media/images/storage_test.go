package images

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := NewStorage(filepath.Join(t.TempDir(), "covers"))
	require.NoError(t, err)
	return s
}

func TestStorage_SaveGetRoundTrip(t *testing.T) {
	s := newTestStorage(t)

	key := NewKey()
	data := []byte("jpeg bytes here")
	require.NoError(t, s.Save(key, data))

	got, err := s.Get(key)
	require.NoError(t, err)
	assert.Equal(t, data, got)
	assert.True(t, s.Exists(key))
}

func TestStorage_GetMissing(t *testing.T) {
	s := newTestStorage(t)

	_, err := s.Get("missing-key")
	assert.Error(t, err)
	assert.False(t, s.Exists("missing-key"))
}

func TestStorage_DeleteIdempotent(t *testing.T) {
	s := newTestStorage(t)

	key := NewKey()
	require.NoError(t, s.Save(key, []byte("x")))
	require.NoError(t, s.Delete(key))
	assert.False(t, s.Exists(key))

	// Second delete is not an error.
	assert.NoError(t, s.Delete(key))
}

func TestStorage_Hash(t *testing.T) {
	s := newTestStorage(t)

	key := NewKey()
	require.NoError(t, s.Save(key, []byte("stable content")))

	h1, err := s.Hash(key)
	require.NoError(t, err)
	assert.Len(t, h1, 64)

	h2, err := s.Hash(key)
	require.NoError(t, err)
	assert.Equal(t, h1, h2)
}

func TestStorage_Paths(t *testing.T) {
	s := newTestStorage(t)

	assert.Equal(t, filepath.Join(s.BasePath(), "abc.jpg"), s.Path("abc"))
	assert.Equal(t, "/covers/abc.jpg", s.URLPath("abc"))
}

func TestNewKey_Unique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		key := NewKey()
		assert.False(t, seen[key])
		seen[key] = true
	}
}

func TestStorage_EmptyArgs(t *testing.T) {
	s := newTestStorage(t)

	assert.Error(t, s.Save("", []byte("x")))
	assert.Error(t, s.Save("key", nil))

	_, err := NewStorage("")
	assert.Error(t, err)
}
