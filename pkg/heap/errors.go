package heap

import (
	"errors"
	"fmt"
)

// Errors returned by this package fall into three kinds: Input (a caller
// precondition was violated), IO (the underlying filesystem failed), and
// Data (the on-disk log could not be parsed). Callers should classify
// errors with [errors.Is] and [errors.As], never by string comparison.
//
// Absence is not an error: [Heap.Get] reports a missing key through its
// bool return, not through a sentinel.
var (
	// ErrClosed is returned by any operation on a [Heap] other than
	// [Heap.Close] after [Heap.Close] has been called.
	ErrClosed = errors.New("heap: closed")
)

// KeySizeError reports that a key was empty or exceeded [MaxKeySize].
type KeySizeError struct {
	// Len is the offending key's length in bytes.
	Len int
}

func (e *KeySizeError) Error() string {
	return fmt.Sprintf("heap: invalid key length %d (must be 1..%d)", e.Len, MaxKeySize)
}

// ValueSizeError reports that a value exceeded [MaxValueSize].
type ValueSizeError struct {
	// Len is the offending value's length in bytes.
	Len int
}

func (e *ValueSizeError) Error() string {
	return fmt.Sprintf("heap: invalid value length %d (must be 0..%d)", e.Len, MaxValueSize)
}

// CorruptionError reports that the on-disk log could not be parsed at the
// given byte offset. It wraps the lower-level reason, which is one of the
// unexported sentinels below.
type CorruptionError struct {
	// Offset is the byte offset into the heap file at which the corrupt
	// record ends (just past its trailer), counting from the start of the
	// file. The reverse scan meets a record at its end.
	Offset int64
	// Err is the underlying reason, typically errDataTooShort,
	// errKeySizeTooBig, or errValueSizeTooBig.
	Err error
}

func (e *CorruptionError) Error() string {
	return fmt.Sprintf("heap: corrupt record at offset %d: %v", e.Offset, e.Err)
}

func (e *CorruptionError) Unwrap() error { return e.Err }

// Reasons a record failed to decode. These are always wrapped in a
// [CorruptionError] before being returned to a caller, except
// errDataTooShort when it signals "need more bytes from an earlier chunk"
// rather than genuine corruption (see scan.go).
var (
	errDataTooShort    = errors.New("data shorter than encoded record")
	errKeySizeTooBig   = errors.New("encoded key length exceeds maximum key size")
	errValueSizeTooBig = errors.New("encoded value length exceeds maximum value size")
)
