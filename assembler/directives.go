package assembler

import (
	"fmt"
	"strings"

	"github.com/Urethramancer/i8086/cpu"
)

// origin reports the address set by an org directive.
func (n *Node) origin() (int, bool, error) {
	if n.Type != NodeDirective || n.Mnemonic != "org" {
		return 0, false, nil
	}
	if len(n.Parts) != 2 {
		return 0, false, fmt.Errorf("org requires a single address")
	}
	v, err := parseConstant(n.Parts[1])
	if err != nil {
		return 0, false, err
	}
	if v < 0 || v > 0xFFFF {
		return 0, false, fmt.Errorf("%w: org %d", ErrOutOfRange, v)
	}
	return int(v), true, nil
}

// generateDirectiveCode generates the binary data for assembler directives.
func (asm *Assembler) generateDirectiveCode(n *Node) ([]byte, error) {
	switch n.Mnemonic {
	case "org":
		return nil, nil

	case "bits":
		if len(n.Parts) != 2 || strings.TrimSpace(n.Parts[1]) != "16" {
			return nil, fmt.Errorf("only bits 16 is supported")
		}
		return nil, nil

	case "db", "dw":
		if len(n.Parts) < 2 {
			return nil, fmt.Errorf("%s requires at least one value", n.Mnemonic)
		}
		size := cpu.SizeByte
		if n.Mnemonic == "dw" {
			size = cpu.SizeWord
		}
		return assembleData(n.Parts[1], size)
	}

	return nil, fmt.Errorf("unknown directive: %s", n.Mnemonic)
}

// assembleData encodes a comma separated list of numbers and, for db, quoted strings.
func assembleData(values string, size cpu.Size) ([]byte, error) {
	var out []byte
	for _, v := range splitOperands(values) {
		if len(v) >= 2 && (v[0] == '"' || v[0] == '\'') && v[len(v)-1] == v[0] && len(v) != 3 {
			if size != cpu.SizeByte {
				return nil, fmt.Errorf("strings are only allowed in db")
			}
			out = append(out, v[1:len(v)-1]...)
			continue
		}

		val, err := parseConstant(v)
		if err != nil {
			return nil, err
		}
		out, err = appendImmediate(out, val, size)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}
