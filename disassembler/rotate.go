package disassembler

import (
	"github.com/Urethramancer/i8086/cpu"
)

// decodeShift handles the D0-D3 shift and rotate group. The V bit selects a count
// of CL over the constant 1.
func decodeShift(d *Decoder, c *Cursor, op byte, p prefixes) (string, []Operand, error) {
	m, err := readModRM(c)
	if err != nil {
		return "", nil, err
	}
	mn, err := groupMnemonic(cpu.ShiftOps, op, m.Reg)
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

	count := immediateOperand(1, cpu.SizeByte, false)
	if cpu.VariableCount(op) {
		count = registerOperand(cpu.CL, cpu.SizeByte)
	}
	return mn, []Operand{dst, count}, nil
}
