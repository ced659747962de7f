package disassembler

import (
	"errors"
	"fmt"
)

var (
	// ErrUnexpectedEnd means an instruction ran past the end of the image.
	ErrUnexpectedEnd = errors.New("unexpected end of input")
	// ErrUnsupported means the bytes are not an instruction this decoder knows.
	ErrUnsupported = errors.New("unsupported encoding")
	// ErrInternal means a handler reached an unassigned table slot.
	ErrInternal = errors.New("internal decoder error")
)

// DecodeError ties a fatal decoding condition to the offset where the failing
// instruction started and the raw bytes read for it so far.
type DecodeError struct {
	Offset int
	Bytes  []byte
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%v at offset %d (% x)", e.Err, e.Offset, e.Bytes)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func unsupported(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrUnsupported}, args...)...)
}

func internal(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInternal}, args...)...)
}
