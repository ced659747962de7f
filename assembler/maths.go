package assembler

import (
	"github.com/Urethramancer/i8086/cpu"
)

var arithmeticIndex = tableIndex(cpu.ArithmeticOps[:])

// assembleArithmetic encodes ADD, OR, ADC, SBB, AND, SUB, XOR and CMP.
//
// Word immediates in [-128, 127] use the sign-extended 83 form for every
// destination; other accumulator immediates use the short accumulator form.
func assembleArithmetic(mn string, ops []Operand) ([]byte, error) {
	if err := expectOperands(mn, ops, 2); err != nil {
		return nil, err
	}
	dst, src := ops[0], ops[1]
	n := arithmeticIndex[mn]

	size, err := operationSize(dst, src)
	if err != nil {
		return nil, err
	}
	w := wBit(size)

	switch {
	case src.Kind == OpImmediate && dst.IsRM():
		if size == cpu.SizeWord && fitsSignedByte(src.Value) {
			code, err := opModRM(cpu.OPArithImmToRM|0x03, n, dst)
			if err != nil {
				return nil, err
			}
			return append(code, byte(src.Value)), nil
		}
		if dst.IsAccumulator() {
			code := []byte{n<<3 | cpu.OPArithImmToAcc | w}
			return appendImmediate(code, src.Value, size)
		}
		code, err := opModRM(cpu.OPArithImmToRM|w, n, dst)
		if err != nil {
			return nil, err
		}
		return appendImmediate(code, src.Value, size)

	case dst.IsRM() && src.Kind == OpRegister:
		return opModRM(n<<3|w, src.Reg, dst)

	case dst.Kind == OpRegister && src.Kind == OpMemory:
		return opModRM(n<<3|0x02|w, dst.Reg, src)
	}

	return nil, invalid(mn, dst, src)
}

var unaryIndex = tableIndex(cpu.UnaryOps[:])

// assembleUnary encodes NOT, NEG, MUL, IMUL, DIV and IDIV (F6/F7 group).
func assembleUnary(mn string, ops []Operand) ([]byte, error) {
	if err := expectOperands(mn, ops, 1); err != nil {
		return nil, err
	}
	dst := ops[0]
	if !dst.IsRM() {
		return nil, invalid(mn, dst)
	}

	size, err := operationSize(dst)
	if err != nil {
		return nil, err
	}
	return opModRM(cpu.OPGroupUnary|wBit(size), unaryIndex[mn], dst)
}

// assembleIncDec encodes INC and DEC. Word registers use the one-byte forms.
func assembleIncDec(mn string, ops []Operand) ([]byte, error) {
	if err := expectOperands(mn, ops, 1); err != nil {
		return nil, err
	}
	dst := ops[0]
	if !dst.IsRM() {
		return nil, invalid(mn, dst)
	}

	size, err := operationSize(dst)
	if err != nil {
		return nil, err
	}

	var reg uint8
	base := byte(cpu.OPINCReg)
	if mn == "dec" {
		reg = 1
		base = cpu.OPDECReg
	}
	if dst.Kind == OpRegister && size == cpu.SizeWord {
		return []byte{base | dst.Reg}, nil
	}
	return opModRM(cpu.OPGroupIncDec|wBit(size), reg, dst)
}
