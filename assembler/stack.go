package assembler

import (
	"fmt"

	"github.com/Urethramancer/i8086/cpu"
)

// assembleStack encodes PUSH and POP of word registers, segment registers and memory.
func assembleStack(mn string, ops []Operand) ([]byte, error) {
	if err := expectOperands(mn, ops, 1); err != nil {
		return nil, err
	}
	op := ops[0]
	push := mn == "push"

	switch op.Kind {
	case OpRegister:
		if op.Size != cpu.SizeWord {
			return nil, fmt.Errorf("%w: %s needs a word register", ErrSizeMismatch, mn)
		}
		if push {
			return []byte{cpu.OPPUSHReg | op.Reg}, nil
		}
		return []byte{cpu.OPPOPReg | op.Reg}, nil

	case OpSegment:
		sr := op.Segment.Index() << 3
		if push {
			return []byte{cpu.OPPUSHSeg | sr}, nil
		}
		if op.Segment == cpu.SegCS {
			return nil, invalid(mn, op)
		}
		return []byte{cpu.OPPOPSeg | sr}, nil

	case OpMemory:
		if op.Size == cpu.SizeByte {
			return nil, fmt.Errorf("%w: %s needs a word operand", ErrSizeMismatch, mn)
		}
		if push {
			return opModRM(cpu.OPGroupIncDec|1, 6, op)
		}
		return opModRM(cpu.OPPOPRM, 0, op)
	}

	return nil, invalid(mn, op)
}
