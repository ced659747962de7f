package cpu

// Size defines the data size for an instruction's operation.
type Size int

const (
	// SizeInvalid is the zero value, indicating no size is known.
	SizeInvalid Size = iota
	// SizeByte represents 8-bit data size.
	SizeByte
	// SizeWord represents 16-bit data size.
	SizeWord
)

// SizeOf returns SizeWord when the W bit is set, otherwise SizeByte.
func SizeOf(wide bool) Size {
	if wide {
		return SizeWord
	}
	return SizeByte
}

// Bytes returns the width in bytes.
func (s Size) Bytes() int {
	switch s {
	case SizeByte:
		return 1
	case SizeWord:
		return 2
	}
	return 0
}

// String returns the NASM size keyword.
func (s Size) String() string {
	switch s {
	case SizeByte:
		return "byte"
	case SizeWord:
		return "word"
	}
	return ""
}

// Opcodes and opcode bases. Families whose low bits carry fields (d, w, s, v, reg, sr)
// are listed by the value with those bits clear.
const (
	// Prefixes
	OPSegmentOverride = 0x26 // 001 sr 110
	OPSegES           = 0x26
	OPSegCS           = 0x2E
	OPSegSS           = 0x36
	OPSegDS           = 0x3E
	OPLock            = 0xF0
	OPRepNE           = 0xF2
	OPRep             = 0xF3

	// Data transfer
	OPMOVRegRM      = 0x88 // 100010 d w
	OPMOVSRToRM     = 0x8C
	OPLEA           = 0x8D
	OPMOVRMToSR     = 0x8E
	OPPOPRM         = 0x8F
	OPXCHGAcc       = 0x90 // 10010 reg
	OPMOVMemToAcc   = 0xA0 // 1010000 w
	OPMOVAccToMem   = 0xA2 // 1010001 w
	OPMOVImmToReg   = 0xB0 // 1011 w reg
	OPLES           = 0xC4
	OPLDS           = 0xC5
	OPMOVImmToRM    = 0xC6 // 1100011 w
	OPXCHGRegRM     = 0x86 // 1000011 w
	OPPUSHReg       = 0x50 // 01010 reg
	OPPOPReg        = 0x58 // 01011 reg
	OPPUSHSeg       = 0x06 // 000 sr 110
	OPPOPSeg        = 0x07 // 000 sr 111
	OPINFixed       = 0xE4 // 1110010 w
	OPOUTFixed      = 0xE6 // 1110011 w
	OPINVariable    = 0xEC // 1110110 w
	OPOUTVariable   = 0xEE // 1110111 w
	OPXLAT          = 0xD7
	OPLAHF          = 0x9F
	OPSAHF          = 0x9E
	OPPUSHF         = 0x9C
	OPPOPF          = 0x9D
	OPINCReg        = 0x40 // 01000 reg
	OPDECReg        = 0x48 // 01001 reg
	OPArithRegRM    = 0x00 // 00 op 0 d w
	OPArithImmToAcc = 0x04 // 00 op 10 w
	OPArithImmToRM  = 0x80 // 100000 s w
	OPTESTRegRM     = 0x84 // 1000010 w
	OPTESTImmToAcc  = 0xA8 // 1010100 w

	// Groups selected by the reg field of the ModRM byte
	OPGroupShift  = 0xD0 // 110100 v w
	OPGroupUnary  = 0xF6 // 1111011 w
	OPGroupIncDec = 0xFE // 1111111 w

	// Strings
	OPMOVS = 0xA4
	OPCMPS = 0xA6
	OPSTOS = 0xAA
	OPLODS = 0xAC
	OPSCAS = 0xAE

	// Control transfer
	OPJcc       = 0x70 // 0111 cccc
	OPLOOPNZ    = 0xE0
	OPLOOPZ     = 0xE1
	OPLOOP      = 0xE2
	OPJCXZ      = 0xE3
	OPCALLNear  = 0xE8
	OPJMPNear   = 0xE9
	OPJMPFar    = 0xEA
	OPJMPShort  = 0xEB
	OPCALLFar   = 0x9A
	OPRETImm    = 0xC2
	OPRET       = 0xC3
	OPRETFImm   = 0xCA
	OPRETF      = 0xCB
	OPINT3      = 0xCC
	OPINT       = 0xCD
	OPINTO      = 0xCE
	OPIRET      = 0xCF
	OPAAM       = 0xD4
	OPAAD       = 0xD5
	ASCIIAdjust = 0x0A // literal second byte of AAM and AAD
)

// ArithmeticOps are the ALU operations selected by bits 5:3 of the opcode or by the
// reg field of the 0x80-0x83 immediate group.
var ArithmeticOps = [8]string{"add", "or", "adc", "sbb", "and", "sub", "xor", "cmp"}

// ShiftOps are the shift/rotate operations of the 0xD0-0xD3 group. Slot 6 is unassigned.
var ShiftOps = [8]string{"rol", "ror", "rcl", "rcr", "shl", "shr", "", "sar"}

// UnaryOps are the 0xF6/0xF7 group operations. Slot 1 is unassigned.
var UnaryOps = [8]string{"test", "", "not", "neg", "mul", "imul", "div", "idiv"}

// IncDecOps are the 0xFE/0xFF group operations. 0xFE only assigns slots 0 and 1;
// slot 7 is unassigned for both.
var IncDecOps = [8]string{"inc", "dec", "call", "call", "jmp", "jmp", "push", ""}

// JumpConditions are the conditional jumps 0x70-0x7F indexed by the low nibble.
var JumpConditions = [16]string{
	"jo", "jno", "jb", "jnb", "je", "jne", "jbe", "ja",
	"js", "jns", "jp", "jnp", "jl", "jnl", "jle", "jg",
}

// LoopOps are 0xE0-0xE3 indexed by the low two bits.
var LoopOps = [4]string{"loopnz", "loopz", "loop", "jcxz"}

// StringOps are the string instructions keyed by their byte-width opcode.
var StringOps = map[byte]string{
	OPMOVS: "movs",
	OPCMPS: "cmps",
	OPSTOS: "stos",
	OPLODS: "lods",
	OPSCAS: "scas",
}

// SingleOps are the instructions with no operands and no trailing bytes.
var SingleOps = map[byte]string{
	0x27:    "daa",
	0x2F:    "das",
	0x37:    "aaa",
	0x3F:    "aas",
	0x98:    "cbw",
	0x99:    "cwd",
	0x9B:    "wait",
	OPPUSHF: "pushf",
	OPPOPF:  "popf",
	OPSAHF:  "sahf",
	OPLAHF:  "lahf",
	OPRET:   "ret",
	OPRETF:  "retf",
	OPINT3:  "int3",
	OPINTO:  "into",
	OPIRET:  "iret",
	OPXLAT:  "xlat",
	0xF4:    "hlt",
	0xF5:    "cmc",
	0xF8:    "clc",
	0xF9:    "stc",
	0xFA:    "cli",
	0xFB:    "sti",
	0xFC:    "cld",
	0xFD:    "std",
}
