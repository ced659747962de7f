package disassembler

import (
	"github.com/Urethramancer/i8086/cpu"
)

// readModRM consumes the ModRM byte following an opcode.
func readModRM(c *Cursor) (cpu.ModRM, error) {
	b, err := c.Next()
	if err != nil {
		return cpu.ModRM{}, err
	}
	return cpu.ParseModRM(b), nil
}

// decodeRM resolves the r/m half of a ModRM byte into a register or memory operand,
// consuming any displacement bytes. Memory operands carry the pending segment override.
func decodeRM(c *Cursor, m cpu.ModRM, size cpu.Size, seg cpu.Segment) (Operand, error) {
	switch {
	case m.IsRegister():
		return registerOperand(m.RM, size), nil
	case m.IsDirect():
		return directAddress(c, size, seg)
	}
	return indexedAddress(c, m, size, seg)
}

// directAddress reads the 16-bit absolute address of mode 0, r/m 6.
func directAddress(c *Cursor, size cpu.Size, seg cpu.Segment) (Operand, error) {
	addr, err := c.Next16()
	if err != nil {
		return Operand{}, err
	}
	return Operand{Kind: OperandDirect, Value: addr, Size: size, Segment: seg}, nil
}

// indexedAddress reads the 0, 8 or 16-bit signed displacement of an indexed address.
func indexedAddress(c *Cursor, m cpu.ModRM, size cpu.Size, seg cpu.Segment) (Operand, error) {
	o := Operand{Kind: OperandIndexed, Index: m.RM, Size: size, Segment: seg}
	switch m.Mode {
	case cpu.ModeMemoryDisp8:
		b, err := c.Next()
		if err != nil {
			return Operand{}, err
		}
		o.Disp = signedValue(uint16(b), cpu.SizeByte)
	case cpu.ModeMemoryDisp16:
		w, err := c.Next16()
		if err != nil {
			return Operand{}, err
		}
		o.Disp = signedValue(w, cpu.SizeWord)
	}
	return o, nil
}
