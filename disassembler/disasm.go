package disassembler

import (
	"strings"

	"github.com/Urethramancer/i8086/cpu"
)

// Instruction is one decoded statement.
type Instruction struct {
	Offset   int
	Bytes    []byte
	Prefix   string
	Mnemonic string
	Operands []Operand
}

// Size returns the number of bytes the instruction occupies, prefixes included.
func (i Instruction) Size() int {
	return len(i.Bytes)
}

// String renders the instruction as one line of assembly without a newline.
func (i Instruction) String() string {
	var b strings.Builder
	if i.Prefix != "" {
		b.WriteString(i.Prefix)
		b.WriteByte(' ')
	}
	b.WriteString(i.Mnemonic)
	for n, o := range i.Operands {
		if n == 0 {
			b.WriteByte(' ')
		} else {
			b.WriteString(", ")
		}
		b.WriteString(o.String())
	}
	return b.String()
}

// prefixes collected in front of one instruction. They are handed to exactly one
// handler and then dropped.
type prefixes struct {
	start   int
	segment cpu.Segment
	repeat  string
	lock    bool
	// order holds the keywords in the order their bytes appeared.
	order []string
}

// text returns what is printed in front of the mnemonic, in byte order. A segment
// override that no memory operand consumed is kept as a prefix keyword so the byte
// is not lost.
func (p prefixes) text(ops []Operand) string {
	used := false
	for _, o := range ops {
		if o.IsMemory() {
			used = true
			break
		}
	}

	var parts []string
	for _, k := range p.order {
		if used && k == p.segment.String() {
			continue
		}
		parts = append(parts, k)
	}
	return strings.Join(parts, " ")
}

type handler func(d *Decoder, c *Cursor, op byte, p prefixes) (string, []Operand, error)

var handlers = map[cpu.Family]handler{
	cpu.FamilySingle:       decodeSingle,
	cpu.FamilyAsciiAdjust:  decodeAsciiAdjust,
	cpu.FamilyRegInOpcode:  decodeRegInOpcode,
	cpu.FamilyXchgAcc:      decodeXchgAcc,
	cpu.FamilyString:       decodeString,
	cpu.FamilyIOVariable:   decodeIOVariable,
	cpu.FamilySegmentStack: decodeSegmentStack,
	cpu.FamilyRegRM:        decodeRegRM,
	cpu.FamilyImmToRM:      decodeImmToRM,
	cpu.FamilyImmGroup:     decodeImmGroup,
	cpu.FamilyImmToReg:     decodeImmToReg,
	cpu.FamilyImmToAcc:     decodeImmToAcc,
	cpu.FamilyAccMemory:    decodeAccMemory,
	cpu.FamilySegmentMove:  decodeSegmentMove,
	cpu.FamilyLoadAddress:  decodeLoadAddress,
	cpu.FamilyPopRM:        decodePopRM,
	cpu.FamilyUnaryGroup:   decodeUnary,
	cpu.FamilyIncDecGroup:  decodeIncDec,
	cpu.FamilyShiftGroup:   decodeShift,
	cpu.FamilyShortJump:    decodeShortJump,
	cpu.FamilyLiteral:      decodeLiteral,
	cpu.FamilyNearCall:     decodeNearCall,
	cpu.FamilyFarDirect:    decodeFarDirect,
	cpu.FamilyIOFixed:      decodeIOFixed,
}

// Decoder turns bytes under a Cursor into instructions. It keeps no state between
// calls, so one Decoder can serve any number of cursors.
type Decoder struct {
	// LegacyTargets prints near call/jmp targets as absolute offsets rounded up to
	// the next multiple of 4 instead of $-relative expressions.
	LegacyTargets bool
}

// Decode reads exactly one instruction, prefixes included. On failure the cursor is
// left where decoding stopped and the error is a *DecodeError.
func (d *Decoder) Decode(c *Cursor) (Instruction, error) {
	start := c.Pos()
	p, op, err := readPrefixes(c)
	if err != nil {
		return Instruction{}, decodeError(c, start, err)
	}

	family := cpu.Classify(op)
	h, ok := handlers[family]
	if !ok {
		return Instruction{}, decodeError(c, start, unsupported("opcode %02x", op))
	}

	mn, ops, err := h(d, c, op, p)
	if err != nil {
		return Instruction{}, decodeError(c, start, err)
	}

	return Instruction{
		Offset:   start,
		Bytes:    append([]byte(nil), c.Slice(start)...),
		Prefix:   p.text(ops),
		Mnemonic: mn,
		Operands: ops,
	}, nil
}

// readPrefixes consumes prefix bytes and returns them with the opcode that follows.
// Each kind of prefix may appear once; a repeated or conflicting one is unsupported.
func readPrefixes(c *Cursor) (prefixes, byte, error) {
	p := prefixes{start: c.Pos()}
	for {
		op, err := c.Next()
		if err != nil {
			return p, 0, err
		}

		switch op {
		case cpu.OPSegES, cpu.OPSegCS, cpu.OPSegSS, cpu.OPSegDS:
			if p.segment != cpu.SegNone {
				return p, 0, unsupported("repeated segment prefix %02x", op)
			}
			p.segment = cpu.SegmentFromIndex(cpu.OpcodeSegment(op))
			p.order = append(p.order, p.segment.String())
		case cpu.OPRep, cpu.OPRepNE:
			if p.repeat != "" {
				return p, 0, unsupported("repeated repeat prefix %02x", op)
			}
			p.repeat = "rep"
			if op == cpu.OPRepNE {
				p.repeat = "repne"
			}
			p.order = append(p.order, p.repeat)
		case cpu.OPLock:
			if p.lock {
				return p, 0, unsupported("repeated lock prefix")
			}
			p.lock = true
			p.order = append(p.order, "lock")
		default:
			return p, op, nil
		}
	}
}

func decodeError(c *Cursor, start int, err error) error {
	raw := c.Slice(start)
	return &DecodeError{
		Offset: start,
		Bytes:  append([]byte(nil), raw...),
		Err:    err,
	}
}
