package disassembler

import (
	"github.com/Urethramancer/i8086/cpu"
)

// decodeShortJump handles the rel8 forms: Jcc, LOOP*, JCXZ and JMP short.
// The target prints as $+length+disp, relative to the first prefix byte.
func decodeShortJump(d *Decoder, c *Cursor, op byte, p prefixes) (string, []Operand, error) {
	mn, err := mnemonic(op)
	if err != nil {
		return "", nil, err
	}

	b, err := c.Next()
	if err != nil {
		return "", nil, err
	}
	return mn, []Operand{{
		Kind:   OperandRelative,
		Length: c.Pos() - p.start,
		Disp:   signedValue(uint16(b), cpu.SizeByte),
	}}, nil
}

// decodeNearCall handles CALL and JMP rel16 (E8/E9).
func decodeNearCall(d *Decoder, c *Cursor, op byte, p prefixes) (string, []Operand, error) {
	mn, err := mnemonic(op)
	if err != nil {
		return "", nil, err
	}

	w, err := c.Next16()
	if err != nil {
		return "", nil, err
	}

	if d.LegacyTargets {
		v := uint16(c.Pos()) + w
		v = (v + 4) - (v % 4)
		return mn, []Operand{{Kind: OperandAbsolute, Value: v}}, nil
	}

	return mn, []Operand{{
		Kind:   OperandRelative,
		Length: c.Pos() - p.start,
		Disp:   signedValue(w, cpu.SizeWord),
	}}, nil
}

// decodeFarDirect handles CALL and JMP ptr16:16 (9A/EA). The offset comes first.
func decodeFarDirect(d *Decoder, c *Cursor, op byte, p prefixes) (string, []Operand, error) {
	mn, err := mnemonic(op)
	if err != nil {
		return "", nil, err
	}

	ip, err := c.Next16()
	if err != nil {
		return "", nil, err
	}
	cs, err := c.Next16()
	if err != nil {
		return "", nil, err
	}
	return mn, []Operand{{Kind: OperandFar, Selector: cs, Value: ip}}, nil
}

// decodeLiteral handles RET imm16 (C2), RETF imm16 (CA) and INT imm8 (CD).
func decodeLiteral(d *Decoder, c *Cursor, op byte, p prefixes) (string, []Operand, error) {
	mn, err := mnemonic(op)
	if err != nil {
		return "", nil, err
	}

	size := cpu.SizeWord
	if op == cpu.OPINT {
		size = cpu.SizeByte
	}
	imm, err := readSized(c, size)
	if err != nil {
		return "", nil, err
	}
	return mn, []Operand{imm}, nil
}
