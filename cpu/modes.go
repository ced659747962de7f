package cpu

// ModRM mode field values (bits 7:6 of the second instruction byte).
const (
	// 00: Memory, no displacement (r/m 110 is a direct 16-bit address)
	ModeMemory uint8 = 0

	// 01: Memory with an 8-bit signed displacement
	ModeMemoryDisp8 uint8 = 1

	// 10: Memory with a 16-bit signed displacement
	ModeMemoryDisp16 uint8 = 2

	// 11: Register, r/m names a register
	ModeRegister uint8 = 3
)

// RMDirect is the r/m value that selects direct addressing in ModeMemory.
const RMDirect uint8 = 6

// ModRM is the decoded mode/reg/rm byte.
type ModRM struct {
	Mode uint8
	Reg  uint8
	RM   uint8
}

// ParseModRM splits a ModRM byte into its fields.
func ParseModRM(b byte) ModRM {
	return ModRM{Mode: Mode(b), Reg: Reg(b), RM: RM(b)}
}

// IsRegister reports whether r/m names a register rather than memory.
func (m ModRM) IsRegister() bool {
	return m.Mode == ModeRegister
}

// IsDirect reports whether the operand is a direct 16-bit address.
func (m ModRM) IsDirect() bool {
	return m.Mode == ModeMemory && m.RM == RMDirect
}

// EncodeModRM packs mode, reg and rm into a ModRM byte.
func EncodeModRM(mode, reg, rm uint8) byte {
	return mode<<6 | (reg&7)<<3 | rm&7
}
