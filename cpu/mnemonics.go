package cpu

// Mnemonics maps every opcode byte whose mnemonic is fixed by the byte alone.
// Prefixes, invalid bytes and the ModRM-selected groups (80-83, D0-D3, F6/F7,
// FE/FF) are left empty.
var Mnemonics = buildMnemonics()

func buildMnemonics() [256]string {
	var t [256]string
	for op := 0; op < 0x40; op++ {
		switch {
		case op&0x04 == 0, op&0x06 == 0x04:
			t[op] = ArithmeticOps[op>>3]
		case op < 0x20 && op&0x07 == 0x06:
			t[op] = "push"
		case op < 0x20 && op&0x07 == 0x07 && op != 0x0F:
			t[op] = "pop"
		}
	}

	for op, name := range SingleOps {
		t[op] = name
	}

	for r := 0; r < 8; r++ {
		t[OPINCReg+r] = "inc"
		t[OPDECReg+r] = "dec"
		t[OPPUSHReg+r] = "push"
		t[OPPOPReg+r] = "pop"
		t[OPXCHGAcc+r] = "xchg"
	}
	for cc := 0; cc < 16; cc++ {
		t[OPJcc+cc] = JumpConditions[cc]
		t[OPMOVImmToReg+cc] = "mov"
	}
	for i, name := range LoopOps {
		t[OPLOOPNZ+i] = name
	}
	for op, name := range StringOps {
		t[op] = name
		t[op+1] = name
	}

	for _, op := range []int{0x88, 0x89, 0x8A, 0x8B, OPMOVSRToRM, OPMOVRMToSR, 0xA0, 0xA1, 0xA2, 0xA3, 0xC6, 0xC7} {
		t[op] = "mov"
	}
	t[0x84], t[0x85], t[0xA8], t[0xA9] = "test", "test", "test", "test"
	t[0x86], t[0x87] = "xchg", "xchg"
	t[OPLEA], t[OPLES], t[OPLDS] = "lea", "les", "lds"
	t[OPPOPRM] = "pop"
	t[OPCALLFar], t[OPCALLNear] = "call", "call"
	t[OPJMPFar], t[OPJMPNear], t[OPJMPShort] = "jmp", "jmp", "jmp"
	t[OPRETImm], t[OPRETFImm], t[OPINT] = "ret", "retf", "int"
	t[OPAAM], t[OPAAD] = "aam", "aad"
	t[OPINFixed], t[OPINFixed+1], t[OPINVariable], t[OPINVariable+1] = "in", "in", "in", "in"
	t[OPOUTFixed], t[OPOUTFixed+1], t[OPOUTVariable], t[OPOUTVariable+1] = "out", "out", "out", "out"

	return t
}
