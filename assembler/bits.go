package assembler

import (
	"fmt"

	"github.com/Urethramancer/i8086/cpu"
)

var shiftIndex = map[string]uint8{
	"rol": 0,
	"ror": 1,
	"rcl": 2,
	"rcr": 3,
	"shl": 4,
	"sal": 4,
	"shr": 5,
	"sar": 7,
}

// assembleShift encodes the D0-D3 group. The 8086 only shifts by 1 or by CL.
func assembleShift(mn string, ops []Operand) ([]byte, error) {
	if err := expectOperands(mn, ops, 2); err != nil {
		return nil, err
	}
	dst, count := ops[0], ops[1]
	if !dst.IsRM() {
		return nil, invalid(mn, dst, count)
	}

	size, err := operationSize(dst)
	if err != nil {
		return nil, err
	}

	op := byte(cpu.OPGroupShift) | wBit(size)
	switch {
	case count.Kind == OpRegister && count.Size == cpu.SizeByte && count.Reg == cpu.CL:
		op |= 0x02
	case count.Kind == OpImmediate && count.Value == 1:
	default:
		return nil, fmt.Errorf("%w: shift count must be 1 or cl, got %s", ErrInvalidOperands, count.Raw)
	}
	return opModRM(op, shiftIndex[mn], dst)
}
