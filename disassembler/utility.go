package disassembler

import (
	"fmt"

	"github.com/Urethramancer/i8086/cpu"
)

// SignMagnitude splits a raw two's complement value of the given width into its
// sign and magnitude. The magnitude of a negative value is ~v + 1.
func SignMagnitude(raw uint16, width cpu.Size) (neg bool, mag uint16) {
	if width == cpu.SizeByte {
		raw &= 0xFF
		if raw&0x80 != 0 {
			return true, (^raw + 1) & 0xFF
		}
		return false, raw
	}
	if raw&0x8000 != 0 {
		return true, ^raw + 1
	}
	return false, raw
}

// signedValue is the integer SignMagnitude describes.
func signedValue(raw uint16, width cpu.Size) int {
	neg, mag := SignMagnitude(raw, width)
	if neg {
		return -int(mag)
	}
	return int(mag)
}

// formatDisplacement renders the offset term of an indexed address: nothing for 0,
// otherwise " + N" or " - N".
func formatDisplacement(disp int) string {
	switch {
	case disp > 0:
		return fmt.Sprintf(" + %d", disp)
	case disp < 0:
		return fmt.Sprintf(" - %d", -disp)
	}
	return ""
}

// readImmediate consumes an immediate according to the s:w field of the opcode.
// sw 0 and 1 are unsigned byte and word; 3 is a byte sign-extended to a word.
func readImmediate(c *Cursor, sw uint8) (Operand, error) {
	switch sw {
	case 0:
		b, err := c.Next()
		if err != nil {
			return Operand{}, err
		}
		return immediateOperand(uint16(b), cpu.SizeByte, false), nil
	case 1:
		w, err := c.Next16()
		if err != nil {
			return Operand{}, err
		}
		return immediateOperand(w, cpu.SizeWord, false), nil
	case 3:
		b, err := c.Next()
		if err != nil {
			return Operand{}, err
		}
		return immediateOperand(cpu.SignExtend8(b), cpu.SizeWord, true), nil
	}
	return Operand{}, unsupported("s:w %d", sw)
}

// readSized consumes an unsigned immediate of the given width.
func readSized(c *Cursor, size cpu.Size) (Operand, error) {
	if size == cpu.SizeByte {
		return readImmediate(c, 0)
	}
	return readImmediate(c, 1)
}

// mnemonic looks up an opcode whose name is fixed by the byte alone.
func mnemonic(op byte) (string, error) {
	mn := cpu.Mnemonics[op]
	if mn == "" {
		return "", internal("no mnemonic for opcode %02x", op)
	}
	return mn, nil
}

// groupMnemonic selects a ModRM-group operation. Unassigned slots are bad input.
func groupMnemonic(table [8]string, op byte, reg uint8) (string, error) {
	mn := table[reg&7]
	if mn == "" {
		return "", unsupported("opcode %02x /%d", op, reg)
	}
	return mn, nil
}
