package assembler

import (
	"github.com/Urethramancer/i8086/cpu"
)

// assembleMove encodes every MOV form.
func assembleMove(ops []Operand) ([]byte, error) {
	if err := expectOperands("mov", ops, 2); err != nil {
		return nil, err
	}
	dst, src := ops[0], ops[1]

	// Segment registers
	if dst.Kind == OpSegment || src.Kind == OpSegment {
		return moveSegment(dst, src)
	}

	size, err := operationSize(dst, src)
	if err != nil {
		return nil, err
	}
	w := wBit(size)

	switch {
	case dst.Kind == OpRegister && src.Kind == OpImmediate:
		code := []byte{cpu.OPMOVImmToReg | w<<3 | dst.Reg}
		return appendImmediate(code, src.Value, size)

	case dst.Kind == OpMemory && src.Kind == OpImmediate:
		code, err := opModRM(cpu.OPMOVImmToRM|w, 0, dst)
		if err != nil {
			return nil, err
		}
		return appendImmediate(code, src.Value, size)

	case dst.IsAccumulator() && src.Kind == OpMemory && src.Direct:
		code := []byte{cpu.OPMOVMemToAcc | w}
		return cpu.AppendWord(code, uint16(src.Value)), nil

	case dst.Kind == OpMemory && dst.Direct && src.IsAccumulator():
		code := []byte{cpu.OPMOVAccToMem | w}
		return cpu.AppendWord(code, uint16(dst.Value)), nil

	case dst.IsRM() && src.Kind == OpRegister:
		return opModRM(cpu.OPMOVRegRM|w, src.Reg, dst)

	case dst.Kind == OpRegister && src.Kind == OpMemory:
		return opModRM(cpu.OPMOVRegRM|0x02|w, dst.Reg, src)
	}

	return nil, invalid("mov", dst, src)
}

// moveSegment encodes MOV r/m16, sr (8C) and MOV sr, r/m16 (8E).
func moveSegment(dst, src Operand) ([]byte, error) {
	switch {
	case dst.Kind == OpSegment && src.IsRM():
		if src.Size == cpu.SizeByte {
			return nil, ErrSizeMismatch
		}
		return opModRM(cpu.OPMOVRMToSR, dst.Segment.Index(), src)
	case src.Kind == OpSegment && dst.IsRM():
		if dst.Size == cpu.SizeByte {
			return nil, ErrSizeMismatch
		}
		return opModRM(cpu.OPMOVSRToRM, src.Segment.Index(), dst)
	}
	return nil, invalid("mov", dst, src)
}

// assembleXchg encodes XCHG. ax with a word register uses the one-byte 90+r form.
func assembleXchg(ops []Operand) ([]byte, error) {
	if err := expectOperands("xchg", ops, 2); err != nil {
		return nil, err
	}
	a, b := ops[0], ops[1]

	size, err := operationSize(a, b)
	if err != nil {
		return nil, err
	}

	if size == cpu.SizeWord && a.Kind == OpRegister && b.Kind == OpRegister {
		switch {
		case a.Reg == cpu.AX:
			return []byte{cpu.OPXCHGAcc | b.Reg}, nil
		case b.Reg == cpu.AX:
			return []byte{cpu.OPXCHGAcc | a.Reg}, nil
		}
	}

	w := wBit(size)
	switch {
	case a.Kind == OpRegister && b.IsRM():
		return opModRM(cpu.OPXCHGRegRM|w, a.Reg, b)
	case a.Kind == OpMemory && b.Kind == OpRegister:
		return opModRM(cpu.OPXCHGRegRM|w, b.Reg, a)
	}
	return nil, invalid("xchg", a, b)
}
