package heap

import (
	"io"
	"iter"
	"os"
)

// Iterator performs a reverse, chunked scan over a heap file, yielding the
// most recent record for each key exactly once, newest write first.
//
// Iterator reads the file backwards in fixed-size windows ([chunkSize]
// bytes) via [os.File.ReadAt], bounding memory use regardless of file size.
// A record whose bytes straddle two windows is reassembled by carrying the
// unresolved tail fragment - the "overflow" - forward and appending it to
// the end of the next (earlier) window read, since a record's length
// trailer sits at its tail and scanning always proceeds from a trailer
// backwards toward a head.
//
// The zero value is not usable; obtain an Iterator via [Heap.Iterate].
type Iterator struct {
	file *os.File

	// pos is the file offset before which no bytes have been read yet.
	pos int64

	// buf holds bytes read from the file but not yet consumed as records,
	// starting at absolute offset pos.
	buf []byte

	seen map[string]struct{}

	curKey, curValue []byte

	err  error
	done bool
}

func newScanner(f *os.File) (*Iterator, error) {
	size, err := fileSize(f)
	if err != nil {
		return nil, err
	}
	return &Iterator{
		file: f,
		pos:  size,
		seen: make(map[string]struct{}),
	}, nil
}

// Next advances the iterator to the next not-yet-seen key, reading further
// chunks of the file as needed. It returns false when the scan is exhausted
// or an error occurred; callers must check [Iterator.Err] to distinguish
// the two.
func (it *Iterator) Next() bool {
	if it.err != nil || it.done {
		return false
	}

	for {
		if len(it.buf) > 0 {
			key, value, recordSize, err := decodeTuple(it.buf)
			if err == nil {
				it.buf = it.buf[:len(it.buf)-recordSize]
				k := string(key)
				if _, dup := it.seen[k]; dup {
					continue
				}
				it.seen[k] = struct{}{}
				it.curKey = append([]byte(nil), key...)
				it.curValue = append([]byte(nil), value...)
				return true
			}
			if err != errDataTooShort {
				// An impossible length field: genuine corruption, never a
				// "need more bytes" signal. Fatal regardless of how much
				// of the file remains unread.
				it.err = &CorruptionError{Offset: it.pos + int64(len(it.buf)), Err: err}
				return false
			}
			if it.pos == 0 {
				it.err = &CorruptionError{Offset: it.pos + int64(len(it.buf)), Err: err}
				return false
			}
			// Record extends before the start of buf: carry buf forward as
			// overflow and pull in the next, earlier chunk.
		} else if it.pos == 0 {
			it.done = true
			return false
		}

		start := it.pos - chunkSize
		if start < 0 {
			start = 0
		}
		n := it.pos - start

		chunk := make([]byte, n)
		if _, err := it.file.ReadAt(chunk, start); err != nil && err != io.EOF {
			it.err = err
			return false
		}

		overflow := it.buf
		it.pos = start
		it.buf = append(chunk, overflow...)
	}
}

// Tuple returns the key and value of the record the most recent call to
// [Iterator.Next] advanced to. The returned slices are owned by the
// iterator's caller and safe to retain.
func (it *Iterator) Tuple() (key, value []byte) {
	return it.curKey, it.curValue
}

// Err returns the first error encountered during the scan, if any. It
// should be checked after [Iterator.Next] returns false.
func (it *Iterator) Err() error {
	return it.err
}

// All adapts the iterator to the range-over-func form introduced in Go
// 1.23, so a heap can be walked with:
//
//	for key, value := range it.All() {
//	    ...
//	}
func (it *Iterator) All() iter.Seq2[[]byte, []byte] {
	return func(yield func([]byte, []byte) bool) {
		for it.Next() {
			k, v := it.Tuple()
			if !yield(k, v) {
				return
			}
		}
	}
}
