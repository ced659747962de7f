package assembler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Urethramancer/i8086/cpu"
)

// ErrUndefinedLabel is returned when a jump names a label that is never defined.
var ErrUndefinedLabel = errors.New("undefined label")

// ErrRepeatedPrefix is returned when two prefixes of the same kind precede one instruction.
var ErrRepeatedPrefix = errors.New("repeated prefix")

// Assembler holds the state for the assembly process.
type Assembler struct {
	labels map[string]int
	// sizing is set while node sizes are still being resolved; unknown labels
	// then stand in for the current address instead of failing.
	sizing bool
}

// New creates a new Assembler instance.
func New() *Assembler {
	return &Assembler{
		labels: make(map[string]int),
	}
}

// Assemble takes 8086 assembly source and returns the flat binary.
func (asm *Assembler) Assemble(src string) ([]byte, error) {
	lines := strings.Split(strings.ReplaceAll(src, "\r\n", "\n"), "\n")
	asm.labels = make(map[string]int)

	nodes, err := asm.parseLines(lines)
	if err != nil {
		return nil, fmt.Errorf("parsing error: %w", err)
	}

	// Pass: resolve label addresses and node sizes until stable.
	asm.sizing = true
	for {
		pc := 0
		changed := false
		for _, n := range nodes {
			switch n.Type {
			case NodeLabel:
				if addr, ok := asm.labels[n.Label]; !ok || addr != pc {
					asm.labels[n.Label] = pc
					changed = true
				}
				continue
			case NodeDirective:
				if origin, ok, err := n.origin(); err != nil {
					return nil, fmt.Errorf("line %d: %w", n.Line, err)
				} else if ok {
					pc = origin
					continue
				}
			}

			code, err := asm.generate(n, pc)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", n.Line, err)
			}
			if len(code) != n.Size {
				n.Size = len(code)
				changed = true
			}
			pc += n.Size
		}
		if !changed {
			break
		}
	}
	asm.sizing = false

	// Generate machine code.
	var machineCode []byte
	pc := 0
	for _, n := range nodes {
		if n.Type == NodeLabel {
			continue
		}
		if origin, ok, _ := n.origin(); ok {
			pc = origin
			continue
		}

		code, err := asm.generate(n, pc)
		if err != nil {
			return nil, fmt.Errorf("line %d: error generating code for '%s': %w", n.Line, strings.Join(n.Parts, " "), err)
		}
		machineCode = append(machineCode, code...)
		pc += len(code)
	}

	return machineCode, nil
}

// Labels returns the address of every label after the last Assemble call.
func (asm *Assembler) Labels() map[string]int {
	out := make(map[string]int, len(asm.labels))
	for k, v := range asm.labels {
		out[k] = v
	}
	return out
}

// Instruction prefixes written in front of a mnemonic.
var prefixBytes = map[string]byte{
	"lock":  cpu.OPLock,
	"rep":   cpu.OPRep,
	"repe":  cpu.OPRep,
	"repz":  cpu.OPRep,
	"repne": cpu.OPRepNE,
	"repnz": cpu.OPRepNE,
	"es":    cpu.OPSegES,
	"cs":    cpu.OPSegCS,
	"ss":    cpu.OPSegSS,
	"ds":    cpu.OPSegDS,
}

// prefixKind groups prefix keywords that may not be combined with each other.
func prefixKind(p string) string {
	switch p {
	case "lock":
		return "lock"
	case "es", "cs", "ss", "ds":
		return "segment"
	}
	return "repeat"
}

// parseLines converts raw source lines into a slice of Node objects.
func (asm *Assembler) parseLines(lines []string) ([]*Node, error) {
	var nodes []*Node
	seen := make(map[string]int)
	for i, line := range lines {
		lineNo := i + 1
		if commentIndex := strings.IndexRune(line, ';'); commentIndex != -1 {
			line = line[:commentIndex]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if m := reLabelDef.FindStringSubmatch(line); m != nil {
			label := strings.ToLower(m[1])
			rest := strings.TrimSpace(m[2])
			if _, isSeg := segmentRegisters[label]; !isSeg && !strings.HasPrefix(rest, "[") {
				if first, dup := seen[label]; dup {
					return nil, fmt.Errorf("line %d: label %s already defined on line %d", lineNo, label, first)
				}
				seen[label] = lineNo
				nodes = append(nodes, &Node{Type: NodeLabel, Line: lineNo, Label: label, Parts: []string{m[1] + ":"}})
				line = rest
			}
		}
		if line == "" {
			continue
		}

		var prefixes []string
		kinds := make(map[string]bool)
		for {
			word, rest, found := strings.Cut(line, " ")
			word = strings.ToLower(word)
			if _, ok := prefixBytes[word]; !ok || !found {
				break
			}
			if kinds[prefixKind(word)] {
				return nil, fmt.Errorf("line %d: %w: %s", lineNo, ErrRepeatedPrefix, word)
			}
			kinds[prefixKind(word)] = true
			prefixes = append(prefixes, word)
			line = strings.TrimSpace(rest)
		}

		var mnemonic, operandStr string
		firstSpace := strings.IndexAny(line, " \t")
		if firstSpace == -1 {
			mnemonic = line
		} else {
			mnemonic = line[:firstSpace]
			operandStr = strings.TrimSpace(line[firstSpace:])
		}
		mnemonic = strings.ToLower(mnemonic)

		nodeParts := []string{mnemonic}
		if operandStr != "" {
			nodeParts = append(nodeParts, operandStr)
		}

		switch mnemonic {
		case "bits", "db", "dw", "org":
			if len(prefixes) > 0 {
				return nil, fmt.Errorf("line %d: prefix on directive %s", lineNo, mnemonic)
			}
			nodes = append(nodes, &Node{Type: NodeDirective, Line: lineNo, Mnemonic: mnemonic, Parts: nodeParts})
			continue
		}

		var operands []Operand
		if operandStr != "" {
			for _, s := range splitOperands(operandStr) {
				op, err := parseOperand(s)
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNo, err)
				}
				operands = append(operands, op)
			}
		}
		nodes = append(nodes, &Node{
			Type:     NodeInstruction,
			Line:     lineNo,
			Prefixes: prefixes,
			Mnemonic: mnemonic,
			Operands: operands,
			Parts:    nodeParts,
		})
	}
	return nodes, nil
}

// generate encodes a node at address pc, prefixes included.
func (asm *Assembler) generate(n *Node, pc int) ([]byte, error) {
	if n.Type == NodeDirective {
		return asm.generateDirectiveCode(n)
	}

	var code []byte
	for _, p := range n.Prefixes {
		code = append(code, prefixBytes[p])
	}
	for _, op := range n.Operands {
		if op.Kind == OpMemory && op.Segment != cpu.SegNone {
			for _, p := range n.Prefixes {
				if prefixKind(p) == "segment" {
					return nil, fmt.Errorf("%w: %s prefix with %s", ErrRepeatedPrefix, p, op.Raw)
				}
			}
			code = append(code, op.Segment.OverrideByte())
			break
		}
	}

	body, err := asm.generateInstructionCode(n, pc, len(code))
	if err != nil {
		return nil, err
	}
	return append(code, body...), nil
}

// generateInstructionCode dispatches to the encoder for the mnemonic. pc is the
// address of the first prefix byte and prefixLen the number of prefix bytes.
func (asm *Assembler) generateInstructionCode(n *Node, pc, prefixLen int) ([]byte, error) {
	ops := n.Operands
	mn := n.Mnemonic

	if op, ok := singleOpcodes[mn]; ok {
		if len(ops) != 0 {
			return nil, fmt.Errorf("%s takes no operands", mn)
		}
		return []byte{op}, nil
	}
	if _, ok := arithmeticIndex[mn]; ok {
		return assembleArithmetic(mn, ops)
	}
	if _, ok := shiftIndex[mn]; ok {
		return assembleShift(mn, ops)
	}
	if _, ok := shortJumps[mn]; ok {
		return asm.assembleShortJump(mn, ops, pc, prefixLen)
	}
	if _, ok := stringOpcodes[mn]; ok {
		return assembleString(mn, ops)
	}

	switch mn {
	case "mov":
		return assembleMove(ops)
	case "xchg":
		return assembleXchg(ops)
	case "test":
		return assembleTest(ops)
	case "not", "neg", "mul", "imul", "div", "idiv":
		return assembleUnary(mn, ops)
	case "inc", "dec":
		return assembleIncDec(mn, ops)
	case "push", "pop":
		return assembleStack(mn, ops)
	case "lea", "lds", "les":
		return assembleAddressMode(mn, ops)
	case "jmp", "call":
		return asm.assembleFlow(n, pc, prefixLen)
	case "ret", "retf":
		return assembleReturn(mn, ops)
	case "int":
		return assembleTrap(mn, ops)
	case "in", "out":
		return assemblePort(mn, ops)
	case "aam", "aad":
		return assembleASCIIAdjust(mn, ops)
	case "nop":
		return []byte{cpu.OPXCHGAcc}, nil
	}

	return nil, fmt.Errorf("unknown instruction: %s", mn)
}

// target resolves a jump operand to an absolute code address.
func (asm *Assembler) target(op Operand, pc int) (int, error) {
	switch op.Kind {
	case OpRelative:
		return pc + int(op.Value), nil
	case OpImmediate:
		return int(op.Value), nil
	case OpLabel:
		addr, ok := asm.labels[op.Label]
		if !ok {
			if asm.sizing {
				return pc, nil
			}
			return 0, fmt.Errorf("%w: %s", ErrUndefinedLabel, op.Label)
		}
		return addr, nil
	}
	return 0, fmt.Errorf("invalid jump target: %s", op.Raw)
}
