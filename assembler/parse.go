package assembler

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Urethramancer/i8086/cpu"
)

// OperandKind tags what a parsed operand refers to.
type OperandKind int

const (
	// OpRegister is a general register.
	OpRegister OperandKind = iota
	// OpSegment is a segment register.
	OpSegment
	// OpMemory is a direct or indexed memory reference.
	OpMemory
	// OpImmediate is a numeric constant.
	OpImmediate
	// OpRelative is a $-relative code address.
	OpRelative
	// OpLabel is a code label.
	OpLabel
	// OpFar is a selector:offset pair.
	OpFar
)

// Operand is one parsed instruction argument.
type Operand struct {
	Kind OperandKind
	// Size is the register width or the byte/word qualifier.
	Size cpu.Size
	// Reg is the register number, or the r/m value of an indexed memory reference.
	Reg uint8
	// Segment is the segment register operand or the memory override.
	Segment cpu.Segment
	// Direct marks a memory reference without base registers.
	Direct bool
	// Value is the immediate, address, displacement, $ offset or far offset.
	Value int64
	// Selector is the segment half of a far pointer.
	Selector int64
	// Hint is the instruction length written in a $+length+disp target, or 0.
	Hint int
	// Distance is short, near or far when given.
	Distance string
	Label    string
	Raw      string
}

// IsAccumulator reports whether the operand is al or ax.
func (o Operand) IsAccumulator() bool {
	return o.Kind == OpRegister && o.Reg == cpu.AX
}

// IsRM reports whether the operand can sit in the r/m half of a ModRM byte.
func (o Operand) IsRM() bool {
	return o.Kind == OpRegister || o.Kind == OpMemory
}

var (
	reLabel    = regexp.MustCompile(`(?i)^[a-z_.][a-z0-9_.]*$`)
	reLabelDef = regexp.MustCompile(`(?i)^([a-z_.][a-z0-9_.]*):(.*)$`)
	reMemory   = regexp.MustCompile(`(?i)^(?:(es|cs|ss|ds)\s*:\s*)?\[([^\]]*)\]$`)
	reRelative = regexp.MustCompile(`^\$((?:\s*[+-]\s*[0-9a-fA-Fx]+)*)$`)
	reTerm     = regexp.MustCompile(`([+-])\s*([0-9a-fA-Fx]+)`)
	reFar      = regexp.MustCompile(`^([0-9a-fA-Fx]+)\s*:\s*([0-9a-fA-Fx]+)$`)
	reExprTerm = regexp.MustCompile(`([+-]?)\s*([^+\-\s]+)`)
)

var (
	byteRegisters    = tableIndex(cpu.ByteRegisters[:])
	wordRegisters    = tableIndex(cpu.WordRegisters[:])
	segmentRegisters = tableIndex(cpu.SegmentRegisters[:])
)

func tableIndex(names []string) map[string]uint8 {
	m := make(map[string]uint8, len(names))
	for i, n := range names {
		m[n] = uint8(i)
	}
	return m
}

// baseCombos maps the sorted base registers of an indexed address to its r/m value.
var baseCombos = map[string]uint8{
	"bx+si": 0,
	"bx+di": 1,
	"bp+si": 2,
	"bp+di": 3,
	"si":    4,
	"di":    5,
	"bp":    6,
	"bx":    7,
}

// parseOperand converts one operand string into an Operand, trying each group of
// forms in turn.
func parseOperand(s string) (Operand, error) {
	s = strings.TrimSpace(s)
	op := Operand{Raw: s}

	// Leading size and distance keywords.
keywords:
	for {
		word, rest, found := strings.Cut(s, " ")
		if !found {
			break
		}
		switch strings.ToLower(word) {
		case "byte":
			op.Size = cpu.SizeByte
		case "word":
			op.Size = cpu.SizeWord
		case "short", "near", "far":
			op.Distance = strings.ToLower(word)
		default:
			break keywords
		}
		s = strings.TrimSpace(rest)
	}

	if ok := tryParseRegister(s, &op); ok {
		return op, nil
	}
	if ok, err := tryParseMemory(s, &op); ok || err != nil {
		return op, err
	}
	if ok, err := tryParseRelative(s, &op); ok || err != nil {
		return op, err
	}
	if ok, err := tryParseFar(s, &op); ok || err != nil {
		return op, err
	}
	if v, err := parseConstant(s); err == nil {
		op.Kind = OpImmediate
		op.Value = v
		return op, nil
	}
	if reLabel.MatchString(s) {
		op.Kind = OpLabel
		op.Label = strings.ToLower(s)
		return op, nil
	}

	return Operand{}, fmt.Errorf("unknown operand format: %s", s)
}

// tryParseRegister handles general and segment registers.
func tryParseRegister(s string, op *Operand) bool {
	name := strings.ToLower(s)
	if r, ok := byteRegisters[name]; ok {
		op.Kind, op.Reg, op.Size = OpRegister, r, cpu.SizeByte
		return true
	}
	if r, ok := wordRegisters[name]; ok {
		op.Kind, op.Reg, op.Size = OpRegister, r, cpu.SizeWord
		return true
	}
	if r, ok := segmentRegisters[name]; ok {
		op.Kind, op.Segment, op.Size = OpSegment, cpu.SegmentFromIndex(r), cpu.SizeWord
		return true
	}
	return false
}

// tryParseMemory handles seg:[expr] and [seg:expr], where expr is a sum of base
// registers and numbers.
func tryParseMemory(s string, op *Operand) (bool, error) {
	m := reMemory.FindStringSubmatch(s)
	if m == nil {
		return false, nil
	}

	op.Kind = OpMemory
	expr := strings.TrimSpace(m[2])
	seg := strings.ToLower(m[1])
	if seg == "" {
		if before, after, found := strings.Cut(expr, ":"); found {
			seg = strings.ToLower(strings.TrimSpace(before))
			expr = strings.TrimSpace(after)
		}
	}
	if seg != "" {
		r, ok := segmentRegisters[seg]
		if !ok {
			return true, fmt.Errorf("invalid segment override: %s", seg)
		}
		op.Segment = cpu.SegmentFromIndex(r)
	}

	var bases []string
	for _, t := range reExprTerm.FindAllStringSubmatch(expr, -1) {
		sign, term := t[1], strings.ToLower(t[2])
		switch term {
		case "bx", "bp", "si", "di":
			if sign == "-" {
				return true, fmt.Errorf("cannot subtract register %s", term)
			}
			bases = append(bases, term)
		default:
			v, err := parseConstant(term)
			if err != nil {
				return true, err
			}
			if sign == "-" {
				v = -v
			}
			op.Value += v
		}
	}

	switch len(bases) {
	case 0:
		op.Direct = true
		return true, nil
	case 2:
		if bases[0] == "si" || bases[0] == "di" {
			bases[0], bases[1] = bases[1], bases[0]
		}
	}

	rm, ok := baseCombos[strings.Join(bases, "+")]
	if !ok {
		return true, fmt.Errorf("invalid base registers in %s", s)
	}
	op.Reg = rm
	return true, nil
}

// tryParseRelative handles $, $+N and the $+length+disp form.
func tryParseRelative(s string, op *Operand) (bool, error) {
	m := reRelative.FindStringSubmatch(s)
	if m == nil {
		return false, nil
	}

	op.Kind = OpRelative
	terms := reTerm.FindAllStringSubmatch(m[1], -1)
	for i, t := range terms {
		v, err := parseConstant(t[2])
		if err != nil {
			return true, err
		}
		if t[1] == "-" {
			v = -v
		}
		if i == 0 && len(terms) == 2 && v > 0 {
			op.Hint = int(v)
		}
		op.Value += v
	}
	return true, nil
}

// tryParseFar handles selector:offset.
func tryParseFar(s string, op *Operand) (bool, error) {
	m := reFar.FindStringSubmatch(s)
	if m == nil {
		return false, nil
	}

	sel, err := parseConstant(m[1])
	if err != nil {
		return true, err
	}
	off, err := parseConstant(m[2])
	if err != nil {
		return true, err
	}
	op.Kind, op.Selector, op.Value = OpFar, sel, off
	return true, nil
}

// parseConstant converts decimal, 0x hex, trailing-h hex, 0b binary and 'c'
// character literals.
func parseConstant(s string) (int64, error) {
	s = strings.TrimSpace(s)

	if len(s) == 3 && (s[0] == '\'' || s[0] == '"') && s[2] == s[0] {
		return int64(s[1]), nil
	}

	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = strings.TrimSpace(s[1:])
	}

	base := 10
	lower := strings.ToLower(s)
	switch {
	case strings.HasPrefix(lower, "0x"):
		s = s[2:]
		base = 16
	case strings.HasPrefix(lower, "0b"):
		s = s[2:]
		base = 2
	case len(lower) > 1 && strings.HasSuffix(lower, "h") && lower[0] >= '0' && lower[0] <= '9':
		s = s[:len(s)-1]
		base = 16
	}

	val, err := strconv.ParseInt(s, base, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number format: %s", s)
	}
	if neg {
		val = -val
	}
	return val, nil
}

// splitOperands splits an operand string by commas, ignoring commas inside
// brackets or quotes.
func splitOperands(s string) []string {
	var result []string
	level := 0
	var quote rune
	last := 0
	for i, r := range s {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"':
			quote = r
		case r == '[':
			level++
		case r == ']':
			level--
		case r == ',' && level == 0:
			result = append(result, strings.TrimSpace(s[last:i]))
			last = i + 1
		}
	}
	result = append(result, strings.TrimSpace(s[last:]))
	return result
}
