package heap

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *Heap {
	t.Helper()
	path := filepath.Join(t.TempDir(), "heap.db")
	h, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = h.Close() })
	return h
}

func TestPutGet(t *testing.T) {
	t.Parallel()

	h := openTemp(t)
	require.NoError(t, h.Put([]byte("key"), []byte("value")))

	got, ok, err := h.Get([]byte("key"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("value"), got)
}

func TestGetNotFound(t *testing.T) {
	t.Parallel()

	h := openTemp(t)
	got, ok, err := h.Get([]byte("missing"))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestPutGetMultiple(t *testing.T) {
	t.Parallel()

	h := openTemp(t)
	require.NoError(t, h.Put([]byte("a"), []byte("1")))
	require.NoError(t, h.Put([]byte("b"), []byte("2")))
	require.NoError(t, h.Put([]byte("c"), []byte("3")))

	for k, v := range map[string]string{"a": "1", "b": "2", "c": "3"} {
		got, ok, err := h.Get([]byte(k))
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, v, string(got))
	}
}

func TestPutOverwrite(t *testing.T) {
	t.Parallel()

	h := openTemp(t)
	require.NoError(t, h.Put([]byte("key"), []byte("old")))
	require.NoError(t, h.Put([]byte("key"), []byte("new")))

	got, ok, err := h.Get([]byte("key"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("new"), got)
}

func TestPutGetNonUTF8Bytes(t *testing.T) {
	t.Parallel()

	// Keys and values are opaque byte strings at the native API: arbitrary
	// non-UTF-8 sequences round-trip without error.
	h := openTemp(t)
	value := []byte{0x6b, 0x65, 0xf2}
	require.NoError(t, h.Put([]byte("key"), value))

	got, ok, err := h.Get([]byte("key"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, value, got)

	key := []byte{0xff, 0xfe}
	require.NoError(t, h.Put(key, []byte("value")))
	got, ok, err = h.Get(key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("value"), got)
}

func TestPutKeySizeLimits(t *testing.T) {
	t.Parallel()

	h := openTemp(t)

	err := h.Put([]byte{}, []byte("value"))
	var keyErr *KeySizeError
	require.Error(t, err)
	require.True(t, errors.As(err, &keyErr))
	assert.Equal(t, 0, keyErr.Len)

	oversized := make([]byte, MaxKeySize+1)
	for i := range oversized {
		oversized[i] = 'a'
	}
	err = h.Put(oversized, []byte("value"))
	require.Error(t, err)
	require.True(t, errors.As(err, &keyErr))
	assert.Equal(t, MaxKeySize+1, keyErr.Len)

	maxKey := make([]byte, MaxKeySize)
	for i := range maxKey {
		maxKey[i] = 'a'
	}
	assert.NoError(t, h.Put(maxKey, []byte("value")))
}

func TestPutValueSizeLimits(t *testing.T) {
	t.Parallel()

	h := openTemp(t)

	oversized := make([]byte, MaxValueSize+1)
	for i := range oversized {
		oversized[i] = 'a'
	}
	var valErr *ValueSizeError
	err := h.Put([]byte("key"), oversized)
	require.Error(t, err)
	require.True(t, errors.As(err, &valErr))
	assert.Equal(t, MaxValueSize+1, valErr.Len)

	maxValue := make([]byte, MaxValueSize)
	for i := range maxValue {
		maxValue[i] = 'a'
	}
	assert.NoError(t, h.Put([]byte("key"), maxValue))

	assert.NoError(t, h.Put([]byte("key"), []byte{}))
}

func TestClosedHeap(t *testing.T) {
	t.Parallel()

	h := openTemp(t)
	require.NoError(t, h.Close())

	assert.ErrorIs(t, h.Put([]byte("k"), []byte("v")), ErrClosed)
	_, _, err := h.Get([]byte("k"))
	assert.ErrorIs(t, err, ErrClosed)
	_, err = h.Iterate()
	assert.ErrorIs(t, err, ErrClosed)

	// Close is idempotent.
	assert.NoError(t, h.Close())
}

func TestReopenSeesPriorWrites(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "heap.db")

	h1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, h1.Put([]byte("key"), []byte("value")))
	require.NoError(t, h1.Close())

	h2, err := Open(path)
	require.NoError(t, err)
	defer h2.Close()

	got, ok, err := h2.Get([]byte("key"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("value"), got)
}
