package assembler

import (
	"errors"
	"fmt"

	"github.com/Urethramancer/i8086/cpu"
)

var (
	// ErrOperandCount is returned when an instruction gets the wrong number of operands.
	ErrOperandCount = errors.New("wrong number of operands")
	// ErrNoSize is returned when neither operand fixes the operation size.
	ErrNoSize = errors.New("operation size not specified")
	// ErrSizeMismatch is returned when operand widths disagree.
	ErrSizeMismatch = errors.New("operand size mismatch")
	// ErrOutOfRange is returned when a value does not fit its encoding.
	ErrOutOfRange = errors.New("value out of range")
	// ErrInvalidOperands is returned for operand combinations the 8086 cannot encode.
	ErrInvalidOperands = errors.New("invalid operand combination")
)

func expectOperands(mn string, ops []Operand, n int) error {
	if len(ops) != n {
		return fmt.Errorf("%w: %s takes %d, got %d", ErrOperandCount, mn, n, len(ops))
	}
	return nil
}

func invalid(mn string, ops ...Operand) error {
	var raw []string
	for _, o := range ops {
		raw = append(raw, o.Raw)
	}
	return fmt.Errorf("%w: %s %v", ErrInvalidOperands, mn, raw)
}

// wBit returns the W bit for a size.
func wBit(size cpu.Size) byte {
	if size == cpu.SizeWord {
		return 1
	}
	return 0
}

// operationSize settles the width of an instruction from its operands. Registers
// fix it; otherwise a byte/word qualifier does. Qualifiers that disagree with
// the settled width are an error.
func operationSize(ops ...Operand) (cpu.Size, error) {
	size := cpu.SizeInvalid
	for _, o := range ops {
		if o.Kind != OpRegister {
			continue
		}
		if size != cpu.SizeInvalid && o.Size != size {
			return 0, ErrSizeMismatch
		}
		size = o.Size
	}

	for _, o := range ops {
		if o.Kind != OpMemory && o.Kind != OpImmediate || o.Size == cpu.SizeInvalid {
			continue
		}
		if size != cpu.SizeInvalid && o.Size != size {
			return 0, ErrSizeMismatch
		}
		size = o.Size
	}

	if size == cpu.SizeInvalid {
		return 0, ErrNoSize
	}
	return size, nil
}

// encodeModRM builds the ModRM byte and displacement for rm with the given reg
// field. Indexed displacements use the shortest form; [bp] needs an explicit
// zero byte since mode 0 r/m 6 means a direct address.
func encodeModRM(reg uint8, rm Operand) ([]byte, error) {
	switch rm.Kind {
	case OpRegister:
		return []byte{cpu.EncodeModRM(cpu.ModeRegister, reg, rm.Reg)}, nil
	case OpMemory:
	default:
		return nil, fmt.Errorf("%w: %s is not a register or memory operand", ErrInvalidOperands, rm.Raw)
	}

	if rm.Value < -32768 || rm.Value > 0xFFFF {
		return nil, fmt.Errorf("%w: displacement %d", ErrOutOfRange, rm.Value)
	}

	if rm.Direct {
		code := []byte{cpu.EncodeModRM(cpu.ModeMemory, reg, cpu.RMDirect)}
		return cpu.AppendWord(code, uint16(rm.Value)), nil
	}

	disp := rm.Value
	if disp > 0x7FFF {
		disp -= 0x10000
	}
	switch {
	case disp == 0 && rm.Reg != cpu.RMDirect:
		return []byte{cpu.EncodeModRM(cpu.ModeMemory, reg, rm.Reg)}, nil
	case disp >= -128 && disp <= 127:
		return []byte{cpu.EncodeModRM(cpu.ModeMemoryDisp8, reg, rm.Reg), byte(int8(disp))}, nil
	}
	code := []byte{cpu.EncodeModRM(cpu.ModeMemoryDisp16, reg, rm.Reg)}
	return cpu.AppendWord(code, uint16(int16(disp))), nil
}

// appendImmediate appends v at the given width after a range check. Both signed
// and unsigned spellings are accepted.
func appendImmediate(code []byte, v int64, size cpu.Size) ([]byte, error) {
	if size == cpu.SizeByte {
		if v < -128 || v > 0xFF {
			return nil, fmt.Errorf("%w: %d does not fit a byte", ErrOutOfRange, v)
		}
		return append(code, byte(v)), nil
	}
	if v < -32768 || v > 0xFFFF {
		return nil, fmt.Errorf("%w: %d does not fit a word", ErrOutOfRange, v)
	}
	return cpu.AppendWord(code, uint16(v)), nil
}

// fitsSignedByte reports whether v can be encoded as a sign-extended byte.
func fitsSignedByte(v int64) bool {
	return v >= -128 && v <= 127
}

// opModRM emits opcode, ModRM and displacement.
func opModRM(op byte, reg uint8, rm Operand) ([]byte, error) {
	m, err := encodeModRM(reg, rm)
	if err != nil {
		return nil, err
	}
	return append([]byte{op}, m...), nil
}
