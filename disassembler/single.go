package disassembler

import (
	"github.com/Urethramancer/i8086/cpu"
)

// decodeSingle handles the one-byte instructions without operands.
func decodeSingle(d *Decoder, c *Cursor, op byte, p prefixes) (string, []Operand, error) {
	mn, err := mnemonic(op)
	return mn, nil, err
}

// decodeAsciiAdjust handles AAM and AAD. Both carry a base byte which must be 10 on
// the 8086 and is not printed.
func decodeAsciiAdjust(d *Decoder, c *Cursor, op byte, p prefixes) (string, []Operand, error) {
	mn, err := mnemonic(op)
	if err != nil {
		return "", nil, err
	}

	base, err := c.Next()
	if err != nil {
		return "", nil, err
	}
	if base != cpu.ASCIIAdjust {
		return "", nil, unsupported("%s base %d", mn, base)
	}
	return mn, nil, nil
}

// decodeString handles MOVS, CMPS, STOS, LODS and SCAS with a b/w suffix.
func decodeString(d *Decoder, c *Cursor, op byte, p prefixes) (string, []Operand, error) {
	mn, err := mnemonic(op)
	if err != nil {
		return "", nil, err
	}
	if cpu.Wide(op) {
		return mn + "w", nil, nil
	}
	return mn + "b", nil, nil
}
