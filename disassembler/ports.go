package disassembler

import (
	"github.com/Urethramancer/i8086/cpu"
)

// decodeIOFixed handles IN/OUT with an 8-bit port number (E4-E7).
func decodeIOFixed(d *Decoder, c *Cursor, op byte, p prefixes) (string, []Operand, error) {
	mn, err := mnemonic(op)
	if err != nil {
		return "", nil, err
	}

	port, err := readSized(c, cpu.SizeByte)
	if err != nil {
		return "", nil, err
	}

	acc := registerOperand(cpu.AX, cpu.SizeOf(cpu.Wide(op)))
	if cpu.Direction(op) {
		return mn, []Operand{port, acc}, nil
	}
	return mn, []Operand{acc, port}, nil
}

// decodeIOVariable handles IN/OUT through the port in DX (EC-EF).
func decodeIOVariable(d *Decoder, c *Cursor, op byte, p prefixes) (string, []Operand, error) {
	mn, err := mnemonic(op)
	if err != nil {
		return "", nil, err
	}

	acc := registerOperand(cpu.AX, cpu.SizeOf(cpu.Wide(op)))
	dx := registerOperand(cpu.DX, cpu.SizeWord)
	if cpu.Direction(op) {
		return mn, []Operand{dx, acc}, nil
	}
	return mn, []Operand{acc, dx}, nil
}
