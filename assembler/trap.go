package assembler

import (
	"github.com/Urethramancer/i8086/cpu"
)

// assembleTrap encodes INT n. INT3, INTO and IRET are single-byte instructions.
func assembleTrap(mn string, ops []Operand) ([]byte, error) {
	if err := expectOperands(mn, ops, 1); err != nil {
		return nil, err
	}
	if ops[0].Kind != OpImmediate {
		return nil, invalid(mn, ops[0])
	}
	if ops[0].Value < 0 {
		return nil, ErrOutOfRange
	}
	return appendImmediate([]byte{cpu.OPINT}, ops[0].Value, cpu.SizeByte)
}
