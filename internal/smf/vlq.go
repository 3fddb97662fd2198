package smf

// ReadVLQ decodes a big-endian base-128 variable-length quantity starting at
// off, reading at most 4 bytes. It returns the value and the number of bytes
// consumed. A malformed quantity (buffer exhausted before a terminating byte,
// or no terminator within 4 bytes) returns n == 0; callers treat that as end
// of track rather than an error.
func ReadVLQ(buf []byte, off int) (value uint32, n int) {
	for i := 0; i < 4; i++ {
		if off+i >= len(buf) {
			return 0, 0
		}
		b := buf[off+i]
		value = value<<7 | uint32(b&0x7f)
		if b&0x80 == 0 {
			return value, i + 1
		}
	}
	return 0, 0
}

// ReadU16 and ReadU32 read big-endian fixed-width integers, returning ok=false
// when the buffer is short.
func ReadU16(buf []byte, off int) (uint16, bool) {
	if off+2 > len(buf) {
		return 0, false
	}
	return uint16(buf[off])<<8 | uint16(buf[off+1]), true
}

func ReadU32(buf []byte, off int) (uint32, bool) {
	if off+4 > len(buf) {
		return 0, false
	}
	return uint32(buf[off])<<24 | uint32(buf[off+1])<<16 |
		uint32(buf[off+2])<<8 | uint32(buf[off+3]), true
}
