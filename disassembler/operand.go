package disassembler

import (
	"fmt"
	"strconv"

	"github.com/Urethramancer/i8086/cpu"
)

// OperandKind tags the variant held by an Operand.
type OperandKind int

const (
	OperandNone OperandKind = iota
	// OperandRegister is a general register; Index and Size select it.
	OperandRegister
	// OperandSegment is a segment register held in Segment.
	OperandSegment
	// OperandDirect is a 16-bit absolute memory address in Value.
	OperandDirect
	// OperandIndexed is a base expression (Index is the r/m value) plus Disp.
	OperandIndexed
	// OperandImmediate is a literal in Value, Signed when it was sign-extended.
	OperandImmediate
	// OperandRelative is a $-relative target: instruction Length plus Disp.
	OperandRelative
	// OperandAbsolute is a resolved numeric code address in Value.
	OperandAbsolute
	// OperandFar is a Selector:Value segment:offset pair.
	OperandFar
)

// Qualifier is the size or distance keyword printed in front of an operand.
type Qualifier int

const (
	QualifierNone Qualifier = iota
	QualifierByte
	QualifierWord
	QualifierNear
	QualifierFar
)

func (q Qualifier) String() string {
	switch q {
	case QualifierByte:
		return "byte"
	case QualifierWord:
		return "word"
	case QualifierNear:
		return "near"
	case QualifierFar:
		return "far"
	}
	return ""
}

// Operand is one printed argument of an instruction.
type Operand struct {
	Kind      OperandKind
	Size      cpu.Size
	Index     uint8
	Segment   cpu.Segment
	Value     uint16
	Signed    bool
	Disp      int
	Length    int
	Selector  uint16
	Qualifier Qualifier
}

// IsMemory reports whether the operand addresses memory.
func (o Operand) IsMemory() bool {
	return o.Kind == OperandDirect || o.Kind == OperandIndexed
}

func (o Operand) String() string {
	var s string
	switch o.Kind {
	case OperandRegister:
		s = cpu.RegisterName(o.Index, o.Size)
	case OperandSegment:
		s = o.Segment.String()
	case OperandDirect:
		s = fmt.Sprintf("%s[%d]", o.Segment.Prefix(), o.Value)
	case OperandIndexed:
		s = fmt.Sprintf("%s[%s%s]", o.Segment.Prefix(), cpu.EffectiveAddress[o.Index&7], formatDisplacement(o.Disp))
	case OperandImmediate:
		s = formatImmediate(o.Value, o.Size, o.Signed)
	case OperandRelative:
		s = fmt.Sprintf("$+%d%+d", o.Length, o.Disp)
	case OperandAbsolute:
		s = strconv.Itoa(int(o.Value))
	case OperandFar:
		s = fmt.Sprintf("%d:%d", o.Selector, o.Value)
	}

	if o.Qualifier != QualifierNone {
		return o.Qualifier.String() + " " + s
	}
	return s
}

func formatImmediate(v uint16, size cpu.Size, signed bool) string {
	if !signed {
		return strconv.Itoa(int(v))
	}
	if size == cpu.SizeByte {
		return strconv.Itoa(int(int8(v)))
	}
	return strconv.Itoa(int(int16(v)))
}

// Operand constructors.

func registerOperand(reg uint8, size cpu.Size) Operand {
	return Operand{Kind: OperandRegister, Index: reg & 7, Size: size}
}

func segmentOperand(s cpu.Segment) Operand {
	return Operand{Kind: OperandSegment, Segment: s}
}

func immediateOperand(v uint16, size cpu.Size, signed bool) Operand {
	return Operand{Kind: OperandImmediate, Value: v, Size: size, Signed: signed}
}

// qualifierFor returns the byte/word keyword for a data size.
func qualifierFor(size cpu.Size) Qualifier {
	if size == cpu.SizeByte {
		return QualifierByte
	}
	return QualifierWord
}
