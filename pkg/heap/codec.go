package heap

import "encoding/binary"

// encodeTuple renders key and value into a single self-framing record:
//
//	[ value bytes ][ key bytes ][ value-len:2 big-endian ][ key-len-1:1 ]
//
// The trailer sits at the tail rather than the head so that a scanner can
// discover a record's boundaries by reading backwards from the end of the
// file, never needing to have first seen its start.
//
// encodeTuple assumes key and value have already been validated by the
// caller (see Heap.Put) and panics if they have not.
func encodeTuple(key, value []byte) []byte {
	if len(key) < 1 || len(key) > MaxKeySize {
		panic("heap: encodeTuple: key size out of range")
	}
	if len(value) > MaxValueSize {
		panic("heap: encodeTuple: value size out of range")
	}

	buf := make([]byte, 0, len(value)+len(key)+trailerSize)
	buf = append(buf, value...)
	buf = append(buf, key...)

	var trailer [trailerSize]byte
	binary.BigEndian.PutUint16(trailer[0:2], uint16(len(value)))
	trailer[2] = byte(len(key) - 1)
	buf = append(buf, trailer[:]...)

	return buf
}

// decodeTuple parses a single trailing record out of data, which must end
// exactly at a record boundary (data may contain leading bytes belonging to
// an earlier record; decodeTuple only looks at the trailer and the bytes it
// addresses).
//
// It returns the key, the value, and the total size in bytes of the record
// consumed from the tail of data.
func decodeTuple(data []byte) (key, value []byte, recordSize int, err error) {
	if len(data) < trailerSize {
		return nil, nil, 0, errDataTooShort
	}

	trailer := data[len(data)-trailerSize:]
	valueLen := int(binary.BigEndian.Uint16(trailer[0:2]))
	keyLen := int(trailer[2]) + 1

	// These bounds are checked independently of how much of data is
	// present: a corrupt length field can claim a value within the bounds
	// of the buffered bytes (the scanner may have several kB buffered)
	// without ever being a legitimately-encoded record, so "enough bytes
	// are available" must never be mistaken for "this length is valid".
	if keyLen > MaxKeySize {
		return nil, nil, 0, errKeySizeTooBig
	}
	if valueLen > MaxValueSize {
		return nil, nil, 0, errValueSizeTooBig
	}

	recordSize = valueLen + keyLen + trailerSize
	if recordSize > len(data) {
		return nil, nil, 0, errDataTooShort
	}

	body := data[len(data)-recordSize : len(data)-trailerSize]
	value = body[:valueLen]
	key = body[valueLen:]

	return key, value, recordSize, nil
}
