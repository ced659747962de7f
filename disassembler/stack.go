package disassembler

import (
	"github.com/Urethramancer/i8086/cpu"
)

// decodeRegInOpcode handles INC, DEC, PUSH and POP with the register in bits 2:0.
func decodeRegInOpcode(d *Decoder, c *Cursor, op byte, p prefixes) (string, []Operand, error) {
	mn, err := mnemonic(op)
	if err != nil {
		return "", nil, err
	}
	return mn, []Operand{registerOperand(cpu.OpcodeReg(op), cpu.SizeWord)}, nil
}

// decodeSegmentStack handles PUSH and POP of a segment register (06, 07, 0E, 16, 17, 1E, 1F).
func decodeSegmentStack(d *Decoder, c *Cursor, op byte, p prefixes) (string, []Operand, error) {
	mn, err := mnemonic(op)
	if err != nil {
		return "", nil, err
	}
	seg := cpu.SegmentFromIndex(cpu.OpcodeSegment(op))
	return mn, []Operand{segmentOperand(seg)}, nil
}

// decodePopRM handles 8F /0.
func decodePopRM(d *Decoder, c *Cursor, op byte, p prefixes) (string, []Operand, error) {
	m, err := readModRM(c)
	if err != nil {
		return "", nil, err
	}
	if m.Reg != 0 {
		return "", nil, unsupported("opcode %02x /%d", op, m.Reg)
	}

	dst, err := decodeRM(c, m, cpu.SizeWord, p.segment)
	if err != nil {
		return "", nil, err
	}
	if dst.IsMemory() {
		dst.Qualifier = QualifierWord
	}

	mn, err := mnemonic(op)
	return mn, []Operand{dst}, err
}
