package heap

// Size limits enforced on every record written to a heap. The key-length
// field is 1 byte storing length-minus-one, so MaxKeySize is the largest
// key it can represent. The value-length field is 2 bytes (uint16) and can
// encode lengths well past MaxValueSize; the decoder rejects any such
// length as corruption.
const (
	// MaxKeySize is the largest key, in bytes, a heap will accept.
	MaxKeySize = 256

	// MaxValueSize is the largest value, in bytes, a heap will accept.
	MaxValueSize = 1024
)

// trailerSize is the width, in bytes, of the fixed trailer appended after
// every record's value and key bytes: two length bytes for the value and
// one length byte for the key.
const trailerSize = 3

// maxRecordSize is the largest a single encoded record can be: the widest
// value, the widest key, and the trailer.
const maxRecordSize = MaxValueSize + MaxKeySize + trailerSize

// minRecordSize is the smallest a well-formed record can be: an empty value,
// a single-byte key, and the trailer.
const minRecordSize = 0 + 1 + trailerSize

// chunkSize is the width of a single read performed by the reverse scanner.
// It is sized to the largest possible record so that any record can be read
// in at most one extra chunk beyond the one it starts in.
const chunkSize = maxRecordSize
