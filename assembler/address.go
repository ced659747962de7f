package assembler

import (
	"fmt"

	"github.com/Urethramancer/i8086/cpu"
)

var addressOpcodes = map[string]byte{
	"lea": cpu.OPLEA,
	"lds": cpu.OPLDS,
	"les": cpu.OPLES,
}

// assembleAddressMode encodes LEA, LDS and LES: a word register and a memory operand.
func assembleAddressMode(mn string, ops []Operand) ([]byte, error) {
	if err := expectOperands(mn, ops, 2); err != nil {
		return nil, err
	}
	reg, mem := ops[0], ops[1]
	if reg.Kind != OpRegister || mem.Kind != OpMemory {
		return nil, invalid(mn, reg, mem)
	}
	if reg.Size != cpu.SizeWord {
		return nil, fmt.Errorf("%w: %s needs a word register", ErrSizeMismatch, mn)
	}
	return opModRM(addressOpcodes[mn], reg.Reg, mem)
}
