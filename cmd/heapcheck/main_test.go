package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dergut/zomdb/pkg/heap"
)

func TestRunCleanHeap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "heap.db")
	h, err := heap.Open(path)
	require.NoError(t, err)
	require.NoError(t, h.Put([]byte("a"), []byte("1")))
	require.NoError(t, h.Close())

	var stdout, stderr bytes.Buffer
	code := run([]string{path}, &stdout, &stderr)

	assert.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), "1 live key")
	assert.Empty(t, stderr.String())
}

func TestRunVerboseListsKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "heap.db")
	h, err := heap.Open(path)
	require.NoError(t, err)
	require.NoError(t, h.Put([]byte("a"), []byte("1")))
	require.NoError(t, h.Close())

	var stdout, stderr bytes.Buffer
	code := run([]string{"-v", path}, &stdout, &stderr)

	assert.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), "a\n")
}

func TestRunCorruptHeap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "heap.db")
	h, err := heap.Open(path)
	require.NoError(t, err)
	require.NoError(t, h.Put([]byte("a"), []byte("1")))
	require.NoError(t, h.Close())

	fi, err := os.Stat(path)
	require.NoError(t, err)
	require.NoError(t, os.Truncate(path, fi.Size()-1))

	var stdout, stderr bytes.Buffer
	code := run([]string{path}, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "corrupt")
}

func TestRunUsageError(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(nil, &stdout, &stderr)
	assert.Equal(t, 2, code)
}
