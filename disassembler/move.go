package disassembler

import (
	"github.com/Urethramancer/i8086/cpu"
)

// decodeImmToReg handles MOV reg, imm (B0-BF). Bit 3 is the width.
func decodeImmToReg(d *Decoder, c *Cursor, op byte, p prefixes) (string, []Operand, error) {
	size := cpu.SizeOf(cpu.WideInReg(op))
	imm, err := readSized(c, size)
	if err != nil {
		return "", nil, err
	}

	mn, err := mnemonic(op)
	return mn, []Operand{registerOperand(cpu.OpcodeReg(op), size), imm}, err
}

// decodeAccMemory handles MOV between the accumulator and a direct address (A0-A3).
// Bit 1 set means memory is the destination.
func decodeAccMemory(d *Decoder, c *Cursor, op byte, p prefixes) (string, []Operand, error) {
	size := cpu.SizeOf(cpu.Wide(op))
	mem, err := directAddress(c, size, p.segment)
	if err != nil {
		return "", nil, err
	}

	acc := registerOperand(cpu.AX, size)
	mn, err := mnemonic(op)
	if cpu.Direction(op) {
		return mn, []Operand{mem, acc}, err
	}
	return mn, []Operand{acc, mem}, err
}

// decodeSegmentMove handles MOV r/m, sr (8C) and MOV sr, r/m (8E).
func decodeSegmentMove(d *Decoder, c *Cursor, op byte, p prefixes) (string, []Operand, error) {
	m, err := readModRM(c)
	if err != nil {
		return "", nil, err
	}
	if m.Reg > 3 {
		return "", nil, unsupported("segment register %d", m.Reg)
	}

	rm, err := decodeRM(c, m, cpu.SizeWord, p.segment)
	if err != nil {
		return "", nil, err
	}

	sr := segmentOperand(cpu.SegmentFromIndex(m.Reg))
	mn, err := mnemonic(op)
	if cpu.Direction(op) {
		return mn, []Operand{sr, rm}, err
	}
	return mn, []Operand{rm, sr}, err
}

// decodeImmToRM handles MOV r/m, imm (C6/C7). Only /0 with a memory operand exists.
func decodeImmToRM(d *Decoder, c *Cursor, op byte, p prefixes) (string, []Operand, error) {
	m, err := readModRM(c)
	if err != nil {
		return "", nil, err
	}
	if m.Reg != 0 {
		return "", nil, unsupported("opcode %02x /%d", op, m.Reg)
	}
	if m.IsRegister() {
		return "", nil, unsupported("opcode %02x with register operand", op)
	}

	size := cpu.SizeOf(cpu.Wide(op))
	dst, err := decodeRM(c, m, size, p.segment)
	if err != nil {
		return "", nil, err
	}

	imm, err := readSized(c, size)
	if err != nil {
		return "", nil, err
	}
	imm.Qualifier = qualifierFor(size)

	mn, err := mnemonic(op)
	return mn, []Operand{dst, imm}, err
}

// decodeLoadAddress handles LEA, LES and LDS. The source must be memory.
func decodeLoadAddress(d *Decoder, c *Cursor, op byte, p prefixes) (string, []Operand, error) {
	m, err := readModRM(c)
	if err != nil {
		return "", nil, err
	}
	if m.IsRegister() {
		return "", nil, unsupported("opcode %02x with register operand", op)
	}

	src, err := decodeRM(c, m, cpu.SizeWord, p.segment)
	if err != nil {
		return "", nil, err
	}

	mn, err := mnemonic(op)
	return mn, []Operand{registerOperand(m.Reg, cpu.SizeWord), src}, err
}

// decodeXchgAcc handles XCHG ax, reg (90-97). 90 prints as xchg ax, ax.
func decodeXchgAcc(d *Decoder, c *Cursor, op byte, p prefixes) (string, []Operand, error) {
	mn, err := mnemonic(op)
	return mn, []Operand{
		registerOperand(cpu.AX, cpu.SizeWord),
		registerOperand(cpu.OpcodeReg(op), cpu.SizeWord),
	}, err
}
