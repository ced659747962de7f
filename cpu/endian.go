package cpu

import (
	"encoding/binary"
)

// Word combines a little-endian byte pair.
func Word(lo, hi byte) uint16 {
	return uint16(hi)<<8 | uint16(lo)
}

// AppendWord appends v to b in little-endian order.
func AppendWord(b []byte, v uint16) []byte {
	return binary.LittleEndian.AppendUint16(b, v)
}

// SignExtend8 widens an 8-bit value to 16 bits, copying bit 7 into the high byte.
func SignExtend8(b byte) uint16 {
	return uint16(int16(int8(b)))
}
