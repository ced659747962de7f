package cpu

// Field extraction. These are pure masks over a raw byte and do not depend on which
// instruction family the byte belongs to.

// Direction reports the D bit (bit 1): set means the reg field is the destination.
func Direction(op byte) bool {
	return op&0x02 != 0
}

// Wide reports the W bit (bit 0): set means a 16-bit operation.
func Wide(op byte) bool {
	return op&0x01 != 0
}

// SignExtend reports the S bit (bit 1) of the 0x80-0x83 immediate group.
func SignExtend(op byte) bool {
	return op&0x02 != 0
}

// SW returns the combined s:w field (bits 1:0).
func SW(op byte) uint8 {
	return op & 0x03
}

// WideInReg reports the W bit of the 0xB0-0xBF immediate-to-register form (bit 3).
func WideInReg(op byte) bool {
	return op&0x08 != 0
}

// VariableCount reports the V bit (bit 1) of the shift group: set means count in CL.
func VariableCount(op byte) bool {
	return op&0x02 != 0
}

// Mode returns bits 7:6 of a ModRM byte.
func Mode(b byte) uint8 {
	return (b & 0xC0) >> 6
}

// Reg returns bits 5:3 of a ModRM byte.
func Reg(b byte) uint8 {
	return (b & 0x38) >> 3
}

// RM returns bits 2:0 of a ModRM byte.
func RM(b byte) uint8 {
	return b & 0x07
}

// OpcodeReg returns the register encoded in the low three bits of an opcode.
func OpcodeReg(op byte) uint8 {
	return op & 0x07
}

// OpcodeSegment returns the 2-bit sr field at bits 4:3 of an opcode.
func OpcodeSegment(op byte) uint8 {
	return (op >> 3) & 0x03
}
