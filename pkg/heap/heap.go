package heap

import (
	"io"
	"os"
)

// Heap is an append-only, single-file key-value log. The zero value is not
// usable; construct one with [Open].
//
// A Heap is not safe for concurrent use. See the package doc for the
// concurrency rules between [Heap.Put] and an active [Iterator].
type Heap struct {
	file   *os.File
	closed bool
}

// Open opens the heap file at path, creating it if it does not exist.
// The file is opened for reading and appending; existing content is never
// truncated.
func Open(path string) (*Heap, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	return &Heap{file: f}, nil
}

// Close closes the underlying file. Idempotent: a second call returns nil.
// Any subsequent call on h other than Close returns [ErrClosed].
func (h *Heap) Close() error {
	if h.closed {
		return nil
	}
	h.closed = true
	return h.file.Close()
}

// Put appends a record mapping key to value. Key and value are opaque
// byte strings; key must be 1..[MaxKeySize] bytes and value 0..
// [MaxValueSize] bytes, with no other restriction.
//
// A previous value for key, if any, is not removed: it remains on disk but
// is shadowed by this write and will no longer be returned by [Heap.Get] or
// surfaced by [Heap.Iterate].
//
// Put performs exactly one [os.File.Write] call, so a single record is
// never split across separate writes. A write the OS completes only
// partially leaves a torn trailing record, which the next scan reports as
// corruption.
func (h *Heap) Put(key, value []byte) error {
	if h.closed {
		return ErrClosed
	}
	if len(key) < 1 || len(key) > MaxKeySize {
		return &KeySizeError{Len: len(key)}
	}
	if len(value) > MaxValueSize {
		return &ValueSizeError{Len: len(value)}
	}

	record := encodeTuple(key, value)
	_, err := h.file.Write(record)
	return err
}

// Get returns the most recently put value for key and true, or (nil,
// false, nil) if no record for key exists.
func (h *Heap) Get(key []byte) ([]byte, bool, error) {
	if h.closed {
		return nil, false, ErrClosed
	}

	it, err := newScanner(h.file)
	if err != nil {
		return nil, false, err
	}

	for it.Next() {
		k, v := it.Tuple()
		if string(k) == string(key) {
			out := make([]byte, len(v))
			copy(out, v)
			return out, true, nil
		}
	}
	if err := it.Err(); err != nil {
		return nil, false, err
	}
	return nil, false, nil
}

// Iterate returns an [Iterator] that yields every live key in the heap,
// newest write first, with each key surfaced exactly once.
//
// At most one Iterator may be alive at a time, and [Heap.Put] must not be
// called while one is alive.
func (h *Heap) Iterate() (*Iterator, error) {
	if h.closed {
		return nil, ErrClosed
	}
	return newScanner(h.file)
}

// fileSize returns the current size of f, used by the scanner to seed its
// starting offset.
func fileSize(f *os.File) (int64, error) {
	fi, err := f.Stat()
	if err != nil {
		return 0, err
	}
	return fi.Size(), nil
}

var _ io.Closer = (*Heap)(nil)
