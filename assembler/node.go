package assembler

// NodeType defines the type of an assembly node.
type NodeType int

const (
	// NodeInstruction type.
	NodeInstruction NodeType = iota
	// NodeLabel type.
	NodeLabel
	// NodeDirective type.
	NodeDirective
)

// Node represents one parsed element from the assembly source.
type Node struct {
	Type     NodeType
	Line     int
	Label    string
	Prefixes []string
	Mnemonic string
	Operands []Operand
	Parts    []string
	Size     int
	// Long is set once a jump has needed its rel16 form; it never shrinks back.
	Long bool
}
