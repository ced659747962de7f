package assembler

import (
	"github.com/Urethramancer/i8086/cpu"
)

// assembleTest encodes TEST. It has no sign-extended immediate form.
func assembleTest(ops []Operand) ([]byte, error) {
	if err := expectOperands("test", ops, 2); err != nil {
		return nil, err
	}
	a, b := ops[0], ops[1]

	size, err := operationSize(a, b)
	if err != nil {
		return nil, err
	}
	w := wBit(size)

	switch {
	case b.Kind == OpImmediate && a.IsAccumulator():
		return appendImmediate([]byte{cpu.OPTESTImmToAcc | w}, b.Value, size)

	case b.Kind == OpImmediate && a.IsRM():
		code, err := opModRM(cpu.OPGroupUnary|w, 0, a)
		if err != nil {
			return nil, err
		}
		return appendImmediate(code, b.Value, size)

	case a.IsRM() && b.Kind == OpRegister:
		return opModRM(cpu.OPTESTRegRM|w, b.Reg, a)

	case a.Kind == OpRegister && b.Kind == OpMemory:
		return opModRM(cpu.OPTESTRegRM|w, a.Reg, b)
	}

	return nil, invalid("test", a, b)
}
