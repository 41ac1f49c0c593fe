// Package leb128 implements the variable-length integer encoding used
// throughout DWARF expression and attribute streams (DWARF v4 §7.6).
package leb128

// DecodeULEB128 decodes an unsigned LEB128 value from the front of encoded.
// It returns the value and the number of bytes consumed; a consumed count of
// zero means the stream ended before the terminating byte.
func DecodeULEB128(encoded []byte) (uint64, int) {
	var result uint64
	var shift uint

	for i, b := range encoded {
		if shift < 64 {
			result |= uint64(b&0x7f) << shift
		}
		if b&0x80 == 0 {
			return result, i + 1
		}
		shift += 7
	}

	return 0, 0
}

// DecodeSLEB128 decodes a signed LEB128 value from the front of encoded.
// It returns the value and the number of bytes consumed; a consumed count of
// zero means the stream ended before the terminating byte.
func DecodeSLEB128(encoded []byte) (int64, int) {
	var result int64
	var shift uint

	for i, b := range encoded {
		if shift < 64 {
			result |= int64(b&0x7f) << shift
		}
		shift += 7
		if b&0x80 == 0 {
			// Sign extend from the last payload bit.
			if shift < 64 && b&0x40 != 0 {
				result |= -1 << shift
			}
			return result, i + 1
		}
	}

	return 0, 0
}

// AppendULEB128 appends the ULEB128 encoding of v to buf.
func AppendULEB128(buf []byte, v uint64) []byte {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		buf = append(buf, b)
		if v == 0 {
			return buf
		}
	}
}

// AppendSLEB128 appends the SLEB128 encoding of v to buf.
func AppendSLEB128(buf []byte, v int64) []byte {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		last := (v == 0 && b&0x40 == 0) || (v == -1 && b&0x40 != 0)
		if !last {
			b |= 0x80
		}
		buf = append(buf, b)
		if last {
			return buf
		}
	}
}
