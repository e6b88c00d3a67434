// Command libheap is a C-ABI shim exposing pkg/heap to non-Go hosts.
//
// Build with -buildmode=c-archive or -buildmode=c-shared to produce a
// library and a generated header:
//
//	go build -buildmode=c-archive -o libheap.a ./cmd/libheap
//
// Heap and iterator handles are opaque uintptr-sized tokens backed by
// [runtime/cgo.Handle]; the host never dereferences Go memory directly,
// which keeps this package clear of cgo's restriction against passing a
// Go pointer that itself references other Go pointers across the
// boundary. A handle returned by create_heap or heap_iter must eventually
// be released with destroy_heap or heap_iter_destroy respectively, or the
// Go runtime will keep the referenced value alive forever.
//
// Errors are not returned inline - they are reported through
// zomdb_last_error, the Go substitute for a host-visible errno. This
// package assumes the synchronous, single-threaded-per-handle usage
// pattern its callers are expected to follow (see pkg/heap's concurrency
// rules); zomdb_last_error is not safe to read concurrently with another
// call into this library.
//
// Every *C.char this package hands back to the caller (heap_get's return
// value, and a heap_tuple_t's key/value fields from heap_iter_next) is
// allocated with C.CString and must be released with free_cstring.
package main

/*
#include <stdint.h>
#include <stdlib.h>

typedef struct {
	const char *key;
	const char *value;
} heap_tuple_t;
*/
import "C"

import (
	"errors"
	"runtime/cgo"
	"unicode/utf8"
	"unsafe"

	"github.com/dergut/zomdb/pkg/heap"
)

// Stable public error codes. Zero means no error.
const (
	errNone      = 0
	errNotFound  = 1
	errIO        = 10
	errUTF8      = 30
	errKeySize   = 31
	errValueSize = 32
	errData      = 50
)

// lastError holds the error code of the most recently completed ABI call.
// See the package doc for the concurrency assumption this relies on.
var lastError int32

func setLastError(code int32) {
	lastError = code
}

// zomdb_last_error returns the error code set by the most recently
// completed call into this library.
//
//export zomdb_last_error
func zomdb_last_error() C.int32_t {
	return C.int32_t(lastError)
}

// create_heap opens (creating if necessary) the heap file at path and
// returns an opaque handle, or 0 on failure.
//
//export create_heap
func create_heap(path *C.char) C.uintptr_t {
	goPath := C.GoString(path)
	if !utf8.ValidString(goPath) {
		setLastError(errUTF8)
		return 0
	}

	h, err := heap.Open(goPath)
	if err != nil {
		setLastError(errIO)
		return 0
	}
	setLastError(errNone)
	return C.uintptr_t(cgo.NewHandle(h))
}

// destroy_heap closes the heap referenced by h and releases the handle.
// h must not be used again afterward.
//
//export destroy_heap
func destroy_heap(h C.uintptr_t) {
	handle := cgo.Handle(h)
	if v, ok := handle.Value().(*heap.Heap); ok {
		_ = v.Close()
	}
	handle.Delete()
}

// heap_get looks up key and returns a newly allocated C string with its
// value, or NULL (with zomdb_last_error set to ERR_NOT_FOUND, or another
// code on failure).
//
//export heap_get
func heap_get(h C.uintptr_t, key *C.char) *C.char {
	hp, ok := cgo.Handle(h).Value().(*heap.Heap)
	if !ok {
		setLastError(errIO)
		return nil
	}

	value, found, err := hp.Get([]byte(C.GoString(key)))
	if err != nil {
		setLastError(int32(errnoFor(err)))
		return nil
	}
	if !found {
		setLastError(errNotFound)
		return nil
	}
	setLastError(errNone)
	return C.CString(string(value))
}

// heap_set appends a record mapping key to value. Errors are reported via
// zomdb_last_error.
//
//export heap_set
func heap_set(h C.uintptr_t, key, value *C.char) {
	hp, ok := cgo.Handle(h).Value().(*heap.Heap)
	if !ok {
		setLastError(errIO)
		return
	}

	if err := hp.Put([]byte(C.GoString(key)), []byte(C.GoString(value))); err != nil {
		setLastError(int32(errnoFor(err)))
		return
	}
	setLastError(errNone)
}

// heap_iter opens a new reverse, deduplicating iterator over h and
// returns an opaque handle to it, or 0 on failure.
//
//export heap_iter
func heap_iter(h C.uintptr_t) C.uintptr_t {
	hp, ok := cgo.Handle(h).Value().(*heap.Heap)
	if !ok {
		setLastError(errIO)
		return 0
	}

	it, err := hp.Iterate()
	if err != nil {
		setLastError(int32(errnoFor(err)))
		return 0
	}
	setLastError(errNone)
	return C.uintptr_t(cgo.NewHandle(it))
}

// heap_iter_next advances the iterator referenced by it and returns its
// next tuple. Both fields of the returned struct are NULL when the scan
// is exhausted (zomdb_last_error is 0) or failed (zomdb_last_error holds
// the reason).
//
//export heap_iter_next
func heap_iter_next(it C.uintptr_t) C.heap_tuple_t {
	iter, ok := cgo.Handle(it).Value().(*heap.Iterator)
	if !ok {
		setLastError(errIO)
		return C.heap_tuple_t{}
	}

	if !iter.Next() {
		if err := iter.Err(); err != nil {
			setLastError(int32(errnoFor(err)))
		} else {
			setLastError(errNone)
		}
		return C.heap_tuple_t{}
	}

	key, value := iter.Tuple()
	setLastError(errNone)
	return C.heap_tuple_t{
		key:   C.CString(string(key)),
		value: C.CString(string(value)),
	}
}

// heap_iter_destroy releases an iterator handle obtained from heap_iter.
//
//export heap_iter_destroy
func heap_iter_destroy(it C.uintptr_t) {
	cgo.Handle(it).Delete()
}

// free_cstring releases a string returned by heap_get or heap_iter_next.
//
//export free_cstring
func free_cstring(s *C.char) {
	C.free(unsafe.Pointer(s))
}

func errnoFor(err error) int {
	var keyErr *heap.KeySizeError
	var valueErr *heap.ValueSizeError
	var dataErr *heap.CorruptionError

	switch {
	case errors.As(err, &keyErr):
		return errKeySize
	case errors.As(err, &valueErr):
		return errValueSize
	case errors.As(err, &dataErr):
		return errData
	default:
		return errIO
	}
}

func main() {}
