package disassembler

import (
	"github.com/Urethramancer/i8086/cpu"
)

// decodeRegRM handles the register with register/memory forms: the ALU block
// 00-3B, TEST 84/85, XCHG 86/87 and MOV 88-8B. The D bit decides which side the
// reg field is printed on.
func decodeRegRM(d *Decoder, c *Cursor, op byte, p prefixes) (string, []Operand, error) {
	mn, err := mnemonic(op)
	if err != nil {
		return "", nil, err
	}

	m, err := readModRM(c)
	if err != nil {
		return "", nil, err
	}

	size := cpu.SizeOf(cpu.Wide(op))
	rm, err := decodeRM(c, m, size, p.segment)
	if err != nil {
		return "", nil, err
	}

	reg := registerOperand(m.Reg, size)
	if cpu.Direction(op) {
		return mn, []Operand{reg, rm}, nil
	}
	return mn, []Operand{rm, reg}, nil
}

// decodeImmToAcc handles the ALU accumulator forms and TEST A8/A9.
func decodeImmToAcc(d *Decoder, c *Cursor, op byte, p prefixes) (string, []Operand, error) {
	mn, err := mnemonic(op)
	if err != nil {
		return "", nil, err
	}

	size := cpu.SizeOf(cpu.Wide(op))
	imm, err := readSized(c, size)
	if err != nil {
		return "", nil, err
	}
	return mn, []Operand{registerOperand(cpu.AX, size), imm}, nil
}

// decodeImmGroup handles 80-83: ALU op selected by the reg field, immediate width
// selected by s:w. The displacement precedes the immediate.
func decodeImmGroup(d *Decoder, c *Cursor, op byte, p prefixes) (string, []Operand, error) {
	m, err := readModRM(c)
	if err != nil {
		return "", nil, err
	}
	sw := cpu.SW(op)
	if sw == 2 {
		return "", nil, unsupported("opcode %02x", op)
	}

	size := cpu.SizeOf(cpu.Wide(op))
	dst, err := decodeRM(c, m, size, p.segment)
	if err != nil {
		return "", nil, err
	}

	imm, err := readImmediate(c, sw)
	if err != nil {
		return "", nil, err
	}
	if dst.IsMemory() {
		imm.Qualifier = qualifierFor(size)
	}

	mn, err := groupMnemonic(cpu.ArithmeticOps, op, m.Reg)
	return mn, []Operand{dst, imm}, err
}

// decodeUnary handles F6/F7: TEST, NOT, NEG, MUL, IMUL, DIV and IDIV. Only TEST
// carries an immediate.
func decodeUnary(d *Decoder, c *Cursor, op byte, p prefixes) (string, []Operand, error) {
	m, err := readModRM(c)
	if err != nil {
		return "", nil, err
	}
	mn, err := groupMnemonic(cpu.UnaryOps, op, m.Reg)
	if err != nil {
		return "", nil, err
	}

	size := cpu.SizeOf(cpu.Wide(op))
	dst, err := decodeRM(c, m, size, p.segment)
	if err != nil {
		return "", nil, err
	}
	if dst.IsMemory() {
		dst.Qualifier = qualifierFor(size)
	}

	ops := []Operand{dst}
	if m.Reg == 0 {
		imm, err := readSized(c, size)
		if err != nil {
			return "", nil, err
		}
		ops = append(ops, imm)
	}
	return mn, ops, nil
}

// decodeIncDec handles FE/FF. FE only has INC and DEC; FF adds CALL, JMP (near
// and far) and PUSH.
func decodeIncDec(d *Decoder, c *Cursor, op byte, p prefixes) (string, []Operand, error) {
	m, err := readModRM(c)
	if err != nil {
		return "", nil, err
	}
	wide := cpu.Wide(op)
	if !wide && m.Reg > 1 {
		return "", nil, unsupported("opcode %02x /%d", op, m.Reg)
	}
	mn, err := groupMnemonic(cpu.IncDecOps, op, m.Reg)
	if err != nil {
		return "", nil, err
	}

	size := cpu.SizeOf(wide)
	dst, err := decodeRM(c, m, size, p.segment)
	if err != nil {
		return "", nil, err
	}

	switch m.Reg {
	case 3, 5:
		if !dst.IsMemory() {
			return "", nil, unsupported("far %s through a register", mn)
		}
		dst.Qualifier = QualifierFar
	case 2, 4:
		if dst.IsMemory() {
			dst.Qualifier = QualifierNear
		}
	default:
		if dst.IsMemory() {
			dst.Qualifier = qualifierFor(size)
		}
	}
	return mn, []Operand{dst}, nil
}
