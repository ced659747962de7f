package cpu

// ByteRegisters are the 8-bit register names indexed by a 3-bit reg or r/m field (W = 0).
var ByteRegisters = [8]string{"al", "cl", "dl", "bl", "ah", "ch", "dh", "bh"}

// WordRegisters are the 16-bit register names indexed by a 3-bit reg or r/m field (W = 1).
var WordRegisters = [8]string{"ax", "cx", "dx", "bx", "sp", "bp", "si", "di"}

// EffectiveAddress holds the base expression for each r/m value in memory modes 0-2.
// r/m 6 in mode 0 is the direct address escape and never uses its entry.
var EffectiveAddress = [8]string{"bx + si", "bx + di", "bp + si", "bp + di", "si", "di", "bp", "bx"}

// SegmentRegisters are the segment register names indexed by a 2-bit sr field.
var SegmentRegisters = [4]string{"es", "cs", "ss", "ds"}

// Register numbers.
const (
	AX = 0
	CX = 1
	DX = 2
	BX = 3
	SP = 4
	BP = 5
	SI = 6
	DI = 7

	AL = 0
	CL = 1
	DL = 2
	BL = 3
	AH = 4
	CH = 5
	DH = 6
	BH = 7
)

// RegisterName returns the name of register index reg at the given width.
func RegisterName(reg uint8, size Size) string {
	if size == SizeByte {
		return ByteRegisters[reg&7]
	}
	return WordRegisters[reg&7]
}

// Segment identifies a segment register. The zero value means no segment.
type Segment uint8

const (
	// SegNone means no segment register (no override pending).
	SegNone Segment = iota
	// SegES is the extra segment.
	SegES
	// SegCS is the code segment.
	SegCS
	// SegSS is the stack segment.
	SegSS
	// SegDS is the data segment.
	SegDS
)

// SegmentFromIndex converts a 2-bit sr field into a Segment.
func SegmentFromIndex(sr uint8) Segment {
	return Segment(sr&3) + SegES
}

// Index returns the 2-bit sr encoding of the segment.
func (s Segment) Index() uint8 {
	return uint8(s - SegES)
}

// String returns the register name, or an empty string for SegNone.
func (s Segment) String() string {
	if s == SegNone || s > SegDS {
		return ""
	}
	return SegmentRegisters[s.Index()]
}

// Prefix returns the "es:" style override text, or nothing for SegNone.
func (s Segment) Prefix() string {
	if s == SegNone {
		return ""
	}
	return s.String() + ":"
}

// OverrideByte returns the prefix byte that selects this segment.
func (s Segment) OverrideByte() byte {
	return OPSegmentOverride | s.Index()<<3
}
