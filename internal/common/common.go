package common

import (
	"unsafe"
)

// MaxVarUintLen is the longest encoding of a uint64.
const MaxVarUintLen = 10

// WriteVarUintTo appends varint-encoded x to dst using a small stack scratch.
func WriteVarUintTo(dst []byte, x uint64) []byte {
	var scratch [MaxVarUintLen]byte
	i := 0
	for x >= 0x80 {
		scratch[i] = byte(x) | 0x80
		x >>= 7
		i++
	}
	scratch[i] = byte(x)
	i++
	return append(dst, scratch[:i]...)
}

// ReadVarUint decodes a varint from the front of s, returning the value and
// the number of bytes consumed. n is 0 when s ends mid-varint and negative
// when the value overflows 64 bits.
func ReadVarUint(s string) (x uint64, n int) {
	var shift uint
	for i := 0; i < len(s); i++ {
		if i == MaxVarUintLen {
			return 0, -(i + 1)
		}
		c := s[i]
		if c < 0x80 {
			if i == MaxVarUintLen-1 && c > 1 {
				return 0, -(i + 1)
			}
			return x | uint64(c)<<shift, i + 1
		}
		x |= uint64(c&0x7F) << shift
		shift += 7
	}
	return 0, 0
}

// LE32 reads a little-endian uint32 from the front of s.
func LE32(s string) uint32 {
	_ = s[3]
	return uint32(s[0]) | uint32(s[1])<<8 | uint32(s[2])<<16 | uint32(s[3])<<24
}

// StringBytes exposes the bytes of s without copying. The result must
// never be written to.
func StringBytes(s string) []byte {
	return unsafe.Slice(unsafe.StringData(s), len(s))
}
