package assembler

import (
	"fmt"

	"github.com/Urethramancer/i8086/cpu"
)

// singleOpcodes are the operand-less one-byte instructions. RET and RETF are left
// to assembleReturn since they also take an operand.
var singleOpcodes = buildSingleOpcodes()

func buildSingleOpcodes() map[string]byte {
	m := make(map[string]byte, len(cpu.SingleOps))
	for op, name := range cpu.SingleOps {
		if name == "ret" || name == "retf" {
			continue
		}
		m[name] = op
	}
	return m
}

// stringOpcodes are the string instructions with their b/w suffix.
var stringOpcodes = buildStringOpcodes()

func buildStringOpcodes() map[string]byte {
	m := make(map[string]byte, 2*len(cpu.StringOps))
	for op, name := range cpu.StringOps {
		m[name+"b"] = op
		m[name+"w"] = op | 1
	}
	return m
}

func assembleString(mn string, ops []Operand) ([]byte, error) {
	if err := expectOperands(mn, ops, 0); err != nil {
		return nil, err
	}
	return []byte{stringOpcodes[mn]}, nil
}

// assembleASCIIAdjust encodes AAM and AAD with their fixed base of 10.
func assembleASCIIAdjust(mn string, ops []Operand) ([]byte, error) {
	if err := expectOperands(mn, ops, 0); err != nil {
		return nil, err
	}
	op := byte(cpu.OPAAM)
	if mn == "aad" {
		op = cpu.OPAAD
	}
	return []byte{op, cpu.ASCIIAdjust}, nil
}

// assemblePort encodes IN and OUT with a fixed port or the port in DX.
func assemblePort(mn string, ops []Operand) ([]byte, error) {
	if err := expectOperands(mn, ops, 2); err != nil {
		return nil, err
	}
	acc, port := ops[0], ops[1]
	fixed, variable := byte(cpu.OPINFixed), byte(cpu.OPINVariable)
	if mn == "out" {
		port, acc = ops[0], ops[1]
		fixed, variable = cpu.OPOUTFixed, cpu.OPOUTVariable
	}

	if !acc.IsAccumulator() {
		return nil, fmt.Errorf("%w: %s needs al or ax", ErrInvalidOperands, mn)
	}
	w := wBit(acc.Size)

	switch {
	case port.Kind == OpRegister && port.Size == cpu.SizeWord && port.Reg == cpu.DX:
		return []byte{variable | w}, nil
	case port.Kind == OpImmediate:
		if port.Value < 0 {
			return nil, ErrOutOfRange
		}
		return appendImmediate([]byte{fixed | w}, port.Value, cpu.SizeByte)
	}
	return nil, invalid(mn, ops...)
}
