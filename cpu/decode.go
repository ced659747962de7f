package cpu

// Family groups opcodes that share an operand layout and therefore a decoder.
type Family int

const (
	FamilyInvalid Family = iota
	FamilyPrefix
	FamilySingle
	FamilyAsciiAdjust
	FamilyRegInOpcode
	FamilyXchgAcc
	FamilyString
	FamilyIOVariable
	FamilySegmentStack
	FamilyRegRM
	FamilyImmToRM
	FamilyImmGroup
	FamilyImmToReg
	FamilyImmToAcc
	FamilyAccMemory
	FamilySegmentMove
	FamilyLoadAddress
	FamilyPopRM
	FamilyUnaryGroup
	FamilyIncDecGroup
	FamilyShiftGroup
	FamilyShortJump
	FamilyLiteral
	FamilyNearCall
	FamilyFarDirect
	FamilyIOFixed
)

var familyNames = map[Family]string{
	FamilyInvalid:      "invalid",
	FamilyPrefix:       "prefix",
	FamilySingle:       "single",
	FamilyAsciiAdjust:  "ascii-adjust",
	FamilyRegInOpcode:  "reg-in-opcode",
	FamilyXchgAcc:      "xchg-acc",
	FamilyString:       "string",
	FamilyIOVariable:   "io-variable",
	FamilySegmentStack: "segment-stack",
	FamilyRegRM:        "reg-rm",
	FamilyImmToRM:      "imm-to-rm",
	FamilyImmGroup:     "imm-group",
	FamilyImmToReg:     "imm-to-reg",
	FamilyImmToAcc:     "imm-to-acc",
	FamilyAccMemory:    "acc-memory",
	FamilySegmentMove:  "segment-move",
	FamilyLoadAddress:  "load-address",
	FamilyPopRM:        "pop-rm",
	FamilyUnaryGroup:   "unary-group",
	FamilyIncDecGroup:  "incdec-group",
	FamilyShiftGroup:   "shift-group",
	FamilyShortJump:    "short-jump",
	FamilyLiteral:      "literal",
	FamilyNearCall:     "near-call",
	FamilyFarDirect:    "far-direct",
	FamilyIOFixed:      "io-fixed",
}

func (f Family) String() string {
	if s, ok := familyNames[f]; ok {
		return s
	}
	return "unknown"
}

// Classify maps an opcode byte to its family. Bytes that are not 8086 instructions
// (0x0F, 0x60-0x6F, 0xC0/0xC1, 0xC8/0xC9, 0xD6, the 0xD8-0xDF coprocessor escapes,
// 0xF1) classify as FamilyInvalid.
func Classify(op byte) Family {
	if _, ok := SingleOps[op]; ok {
		return FamilySingle
	}

	switch {
	case op == OPSegES, op == OPSegCS, op == OPSegSS, op == OPSegDS,
		op == OPLock, op == OPRepNE, op == OPRep:
		return FamilyPrefix

	// The ALU block 0x00-0x3F: columns 0-3 are reg/rm, 4-5 accumulator, and
	// 6-7 of the first four rows push/pop a segment register.
	case op < 0x40 && op&0x04 == 0:
		return FamilyRegRM
	case op < 0x40 && op&0x06 == 0x04:
		return FamilyImmToAcc
	case op < 0x20 && op&0x06 == 0x06:
		if op == 0x0F {
			return FamilyInvalid
		}
		return FamilySegmentStack

	case op >= 0x40 && op <= 0x5F:
		return FamilyRegInOpcode
	case op >= OPJcc && op <= OPJcc+0x0F:
		return FamilyShortJump
	case op >= OPArithImmToRM && op <= OPArithImmToRM+3:
		return FamilyImmGroup
	case op >= OPTESTRegRM && op <= OPMOVRegRM+3:
		return FamilyRegRM
	case op == OPMOVSRToRM, op == OPMOVRMToSR:
		return FamilySegmentMove
	case op == OPLEA, op == OPLES, op == OPLDS:
		return FamilyLoadAddress
	case op == OPPOPRM:
		return FamilyPopRM
	case op >= OPXCHGAcc && op <= OPXCHGAcc+7:
		return FamilyXchgAcc
	case op == OPCALLFar, op == OPJMPFar:
		return FamilyFarDirect
	case op >= OPMOVMemToAcc && op <= OPMOVAccToMem+1:
		return FamilyAccMemory
	case op >= OPMOVS && op <= OPCMPS+1, op >= OPSTOS && op <= OPSCAS+1:
		return FamilyString
	case op == OPTESTImmToAcc, op == OPTESTImmToAcc+1:
		return FamilyImmToAcc
	case op >= OPMOVImmToReg && op <= OPMOVImmToReg+0x0F:
		return FamilyImmToReg
	case op == OPRETImm, op == OPRETFImm, op == OPINT:
		return FamilyLiteral
	case op == OPMOVImmToRM, op == OPMOVImmToRM+1:
		return FamilyImmToRM
	case op >= OPGroupShift && op <= OPGroupShift+3:
		return FamilyShiftGroup
	case op == OPAAM, op == OPAAD:
		return FamilyAsciiAdjust
	case op >= OPLOOPNZ && op <= OPJCXZ, op == OPJMPShort:
		return FamilyShortJump
	case op >= OPINFixed && op <= OPOUTFixed+1:
		return FamilyIOFixed
	case op == OPCALLNear, op == OPJMPNear:
		return FamilyNearCall
	case op >= OPINVariable && op <= OPOUTVariable+1:
		return FamilyIOVariable
	case op == OPGroupUnary, op == OPGroupUnary+1:
		return FamilyUnaryGroup
	case op == OPGroupIncDec, op == OPGroupIncDec+1:
		return FamilyIncDecGroup
	}

	return FamilyInvalid
}
