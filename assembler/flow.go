package assembler

import (
	"fmt"

	"github.com/Urethramancer/i8086/cpu"
)

// shortJumps are the rel8-only jumps with their aliases.
var shortJumps = buildShortJumps()

func buildShortJumps() map[string]byte {
	m := make(map[string]byte)
	for i, name := range cpu.JumpConditions {
		m[name] = byte(cpu.OPJcc + i)
	}
	for i, name := range cpu.LoopOps {
		m[name] = byte(cpu.OPLOOPNZ + i)
	}

	aliases := map[string]string{
		"jc": "jb", "jnae": "jb",
		"jnc": "jnb", "jae": "jnb",
		"jz": "je", "jnz": "jne",
		"jna": "jbe", "jnbe": "ja",
		"jpe": "jp", "jpo": "jnp",
		"jnge": "jl", "jge": "jnl",
		"jng": "jle", "jnle": "jg",
		"loopne": "loopnz", "loope": "loopz",
	}
	for alias, name := range aliases {
		m[alias] = m[name]
	}
	return m
}

// displacement returns the distance from the end of an instruction of the given
// length, starting at pc, to the operand's target.
func (asm *Assembler) displacement(o Operand, pc, length int) (int, error) {
	t, err := asm.target(o, pc)
	if err != nil {
		return 0, err
	}
	return t - (pc + length), nil
}

// rel8 checks that a short displacement fits. While sizing, an out of range value
// only means the labels have not settled yet.
func (asm *Assembler) rel8(disp int) (byte, error) {
	if disp < -128 || disp > 127 {
		if asm.sizing {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: short jump distance %d", ErrOutOfRange, disp)
	}
	return byte(int8(disp)), nil
}

// assembleShortJump encodes Jcc, LOOP*, and JCXZ.
func (asm *Assembler) assembleShortJump(mn string, ops []Operand, pc, prefixLen int) ([]byte, error) {
	if err := expectOperands(mn, ops, 1); err != nil {
		return nil, err
	}

	disp, err := asm.displacement(ops[0], pc, prefixLen+2)
	if err != nil {
		return nil, err
	}
	d, err := asm.rel8(disp)
	if err != nil {
		return nil, err
	}
	return []byte{shortJumps[mn], d}, nil
}

// assembleFlow encodes JMP and CALL in their direct, indirect and far forms.
func (asm *Assembler) assembleFlow(n *Node, pc, prefixLen int) ([]byte, error) {
	mn := n.Mnemonic
	if err := expectOperands(mn, n.Operands, 1); err != nil {
		return nil, err
	}
	o := n.Operands[0]
	call := mn == "call"

	switch o.Kind {
	case OpFar:
		op := byte(cpu.OPJMPFar)
		if call {
			op = cpu.OPCALLFar
		}
		if o.Value < 0 || o.Value > 0xFFFF || o.Selector < 0 || o.Selector > 0xFFFF {
			return nil, fmt.Errorf("%w: far pointer %s", ErrOutOfRange, o.Raw)
		}
		code := cpu.AppendWord([]byte{op}, uint16(o.Value))
		return cpu.AppendWord(code, uint16(o.Selector)), nil

	case OpRegister, OpMemory:
		reg := uint8(4)
		if call {
			reg = 2
		}
		if o.Distance == "far" {
			if o.Kind != OpMemory {
				return nil, invalid(mn, o)
			}
			reg++
		}
		if o.Size == cpu.SizeByte {
			return nil, fmt.Errorf("%w: %s needs a word operand", ErrSizeMismatch, mn)
		}
		return opModRM(cpu.OPGroupIncDec|1, reg, o)

	case OpRelative, OpImmediate, OpLabel:
	default:
		return nil, invalid(mn, o)
	}

	if call {
		disp, err := asm.displacement(o, pc, prefixLen+3)
		if err != nil {
			return nil, err
		}
		return cpu.AppendWord([]byte{cpu.OPCALLNear}, uint16(disp)), nil
	}

	short, err := asm.preferShort(n, o, pc, prefixLen)
	if err != nil {
		return nil, err
	}
	if short {
		disp, err := asm.displacement(o, pc, prefixLen+2)
		if err != nil {
			return nil, err
		}
		d, err := asm.rel8(disp)
		if err != nil {
			return nil, err
		}
		return []byte{cpu.OPJMPShort, d}, nil
	}

	disp, err := asm.displacement(o, pc, prefixLen+3)
	if err != nil {
		return nil, err
	}
	return cpu.AppendWord([]byte{cpu.OPJMPNear}, uint16(disp)), nil
}

// preferShort picks between EB and E9 for a direct JMP. An explicit short/near
// keyword or a $+length+disp target decides; otherwise the short form is used
// while it reaches, and a jump that once needed rel16 keeps it.
func (asm *Assembler) preferShort(n *Node, o Operand, pc, prefixLen int) (bool, error) {
	switch {
	case o.Distance == "short":
		return true, nil
	case o.Distance == "near":
		return false, nil
	case o.Kind == OpRelative && o.Hint == prefixLen+2:
		return true, nil
	case o.Kind == OpRelative && o.Hint == prefixLen+3:
		return false, nil
	case n.Long:
		return false, nil
	}

	disp, err := asm.displacement(o, pc, prefixLen+2)
	if err != nil {
		return false, err
	}
	if !fitsSignedByte(int64(disp)) {
		n.Long = true
		return false, nil
	}
	return true, nil
}

// assembleReturn encodes RET and RETF with an optional stack adjustment.
func assembleReturn(mn string, ops []Operand) ([]byte, error) {
	far := mn == "retf"
	switch len(ops) {
	case 0:
		if far {
			return []byte{cpu.OPRETF}, nil
		}
		return []byte{cpu.OPRET}, nil
	case 1:
		if ops[0].Kind != OpImmediate {
			return nil, invalid(mn, ops[0])
		}
		op := byte(cpu.OPRETImm)
		if far {
			op = cpu.OPRETFImm
		}
		return appendImmediate([]byte{op}, ops[0].Value, cpu.SizeWord)
	}
	return nil, fmt.Errorf("%w: %s takes at most 1", ErrOperandCount, mn)
}
