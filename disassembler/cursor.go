package disassembler

import (
	"github.com/Urethramancer/i8086/cpu"
)

// Cursor walks a machine-code image one byte at a time. The position never moves
// past the end of the image; a read that would do so returns ErrUnexpectedEnd.
type Cursor struct {
	code []byte
	pos  int
}

// NewCursor returns a cursor positioned at the first byte of code.
func NewCursor(code []byte) *Cursor {
	return &Cursor{code: code}
}

// Pos returns the offset of the next unread byte.
func (c *Cursor) Pos() int {
	return c.pos
}

// Len returns the size of the image.
func (c *Cursor) Len() int {
	return len(c.code)
}

// Done reports whether every byte has been consumed.
func (c *Cursor) Done() bool {
	return c.Remaining() <= 0
}

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int {
	return len(c.code) - c.pos
}

// Peek returns the current byte without advancing.
func (c *Cursor) Peek() (byte, error) {
	return c.PeekAt(0)
}

// PeekAt returns the byte offset positions ahead of the current one without advancing.
func (c *Cursor) PeekAt(offset int) (byte, error) {
	i := c.pos + offset
	if offset < 0 || i >= len(c.code) {
		return 0, ErrUnexpectedEnd
	}
	return c.code[i], nil
}

// Next returns the current byte and advances past it.
func (c *Cursor) Next() (byte, error) {
	if c.pos >= len(c.code) {
		return 0, ErrUnexpectedEnd
	}
	b := c.code[c.pos]
	c.pos++
	return b, nil
}

// Next16 reads a little-endian word.
func (c *Cursor) Next16() (uint16, error) {
	lo, err := c.Next()
	if err != nil {
		return 0, err
	}
	hi, err := c.Next()
	if err != nil {
		return 0, err
	}
	return cpu.Word(lo, hi), nil
}

// Slice returns the bytes consumed since offset from.
func (c *Cursor) Slice(from int) []byte {
	if from < 0 {
		from = 0
	}
	if from > c.pos {
		return nil
	}
	return c.code[from:c.pos]
}
