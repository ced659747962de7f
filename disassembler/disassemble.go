package disassembler

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/sirupsen/logrus"
)

// Header is written once in front of the first instruction.
const Header = "bits 16\n"

// dumpConfig prints the fields of decoded instructions instead of their listing text.
var dumpConfig = spew.ConfigState{
	Indent:                " ",
	DisableMethods:        true,
	DisablePointerMethods: true,
	DisableCapacities:     true,
	SortKeys:              true,
}

// Disassembler drives a Decoder over a whole image and writes the listing.
type Disassembler struct {
	log     logrus.FieldLogger
	decoder Decoder
	dump    io.Writer
}

// Option configures a Disassembler.
type Option func(*Disassembler)

// WithLogger sets the logger used for decode traces and failures.
func WithLogger(l logrus.FieldLogger) Option {
	return func(d *Disassembler) {
		d.log = l
	}
}

// WithLegacyTargets prints near call/jmp targets as absolute offsets rounded up
// to a multiple of 4.
func WithLegacyTargets(on bool) Option {
	return func(d *Disassembler) {
		d.decoder.LegacyTargets = on
	}
}

// WithDump writes a structured dump of every decoded instruction to w.
func WithDump(w io.Writer) Option {
	return func(d *Disassembler) {
		d.dump = w
	}
}

// New returns a Disassembler logging to the standard logrus logger unless told otherwise.
func New(opts ...Option) *Disassembler {
	d := &Disassembler{log: logrus.StandardLogger()}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Write decodes code and writes the header followed by one line per instruction.
// An empty image produces no output. Decoding stops at the first error; lines
// already written stay written.
func (d *Disassembler) Write(w io.Writer, code []byte) error {
	if len(code) == 0 {
		return nil
	}

	if _, err := io.WriteString(w, Header); err != nil {
		return err
	}

	return d.walk(code, func(inst Instruction) error {
		_, err := fmt.Fprintln(w, inst.String())
		return err
	})
}

// Disassemble returns the listing for code. On failure the listing up to the
// failing instruction is returned along with the error.
func (d *Disassembler) Disassemble(code []byte) (string, error) {
	var out strings.Builder
	err := d.Write(&out, code)
	return out.String(), err
}

// Instructions decodes code without rendering it.
func (d *Disassembler) Instructions(code []byte) ([]Instruction, error) {
	var list []Instruction
	err := d.walk(code, func(inst Instruction) error {
		list = append(list, inst)
		return nil
	})
	return list, err
}

func (d *Disassembler) walk(code []byte, emit func(Instruction) error) error {
	c := NewCursor(code)
	for !c.Done() {
		inst, err := d.decoder.Decode(c)
		if err != nil {
			d.logFailure(err)
			return err
		}

		d.log.WithFields(logrus.Fields{
			"offset": inst.Offset,
			"bytes":  fmt.Sprintf("% x", inst.Bytes),
			"text":   inst.String(),
		}).Debug("decoded")
		if d.dump != nil {
			dumpConfig.Fdump(d.dump, inst)
		}

		if err := emit(inst); err != nil {
			return err
		}
	}
	return nil
}

func (d *Disassembler) logFailure(err error) {
	var de *DecodeError
	if !errors.As(err, &de) {
		d.log.WithError(err).Error("decode failed")
		return
	}
	d.log.WithFields(logrus.Fields{
		"offset": de.Offset,
		"bytes":  fmt.Sprintf("% x", de.Bytes),
		"error":  de.Err,
	}).Error("decode failed")
}

// Disassemble decodes code with the default settings.
func Disassemble(code []byte) (string, error) {
	return New().Disassemble(code)
}
