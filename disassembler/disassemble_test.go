package disassembler_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Urethramancer/i8086/disassembler"
)

func quiet() disassembler.Option {
	logger, _ := test.NewNullLogger()
	return disassembler.WithLogger(logger)
}

// decodeOne decodes code followed by a ret and checks that the first instruction
// used every byte of code.
func decodeOne(t *testing.T, code []byte, opts ...disassembler.Option) string {
	t.Helper()
	image := append(append([]byte(nil), code...), 0xC3)
	list, err := disassembler.New(append(opts, quiet())...).Instructions(image)
	require.NoError(t, err, "% x", code)
	require.Len(t, list, 2, "% x", code)
	assert.Equal(t, len(code), list[0].Size(), "length of % x", code)
	assert.Equal(t, "ret", list[1].String())
	return list[0].String()
}

func TestSpecimens(t *testing.T) {
	tests := []struct {
		code []byte
		want string
	}{
		// Register/memory with register
		{[]byte{0x89, 0xD8}, "mov ax, bx"},
		{[]byte{0x8B, 0xC3}, "mov ax, bx"},
		{[]byte{0x88, 0x00}, "mov [bx + si], al"},
		{[]byte{0x26, 0x8B, 0x07}, "mov ax, es:[bx]"},
		{[]byte{0x8B, 0x46, 0xFE}, "mov ax, [bp - 2]"},
		{[]byte{0x8B, 0x46, 0x02}, "mov ax, [bp + 2]"},
		{[]byte{0x8B, 0x46, 0x00}, "mov ax, [bp]"},
		{[]byte{0x8B, 0x06, 0x34, 0x12}, "mov ax, [4660]"},
		{[]byte{0x8A, 0x80, 0x00, 0x01}, "mov al, [bx + si + 256]"},
		{[]byte{0x8B, 0x87, 0x00, 0x80}, "mov ax, [bx - 32768]"},
		{[]byte{0x01, 0xD8}, "add ax, bx"},
		{[]byte{0x2A, 0x4E, 0x10}, "sub cl, [bp + 16]"},
		{[]byte{0x39, 0x1E, 0x00, 0x02}, "cmp [512], bx"},
		{[]byte{0x85, 0xD8}, "test ax, bx"},
		{[]byte{0x86, 0xC3}, "xchg al, bl"},

		// Immediates
		{[]byte{0xB8, 0x01, 0x00}, "mov ax, 1"},
		{[]byte{0xB1, 0xFF}, "mov cl, 255"},
		{[]byte{0xC6, 0x07, 0x05}, "mov [bx], byte 5"},
		{[]byte{0xC7, 0x06, 0x10, 0x00, 0x2C, 0x01}, "mov [16], word 300"},
		{[]byte{0x83, 0xC0, 0xFF}, "add ax, -1"},
		{[]byte{0x83, 0xC0, 0x7F}, "add ax, 127"},
		{[]byte{0x80, 0xC3, 0xFF}, "add bl, 255"},
		{[]byte{0x81, 0xC3, 0x34, 0x12}, "add bx, 4660"},
		{[]byte{0x83, 0x3E, 0x10, 0x00, 0x05}, "cmp [16], word 5"},
		{[]byte{0x80, 0x2F, 0x01}, "sub [bx], byte 1"},
		{[]byte{0x05, 0xE8, 0x03}, "add ax, 1000"},
		{[]byte{0x3C, 0x09}, "cmp al, 9"},
		{[]byte{0xA8, 0x01}, "test al, 1"},

		// Accumulator and segment moves
		{[]byte{0xA1, 0x10, 0x00}, "mov ax, [16]"},
		{[]byte{0xA2, 0x10, 0x00}, "mov [16], al"},
		{[]byte{0x8E, 0xD8}, "mov ds, ax"},
		{[]byte{0x8C, 0xC0}, "mov ax, es"},
		{[]byte{0x8C, 0x5F, 0x02}, "mov [bx + 2], ds"},

		// Address loads and pop
		{[]byte{0x8D, 0x40, 0x04}, "lea ax, [bx + si + 4]"},
		{[]byte{0xC4, 0x1E, 0x10, 0x00}, "les bx, [16]"},
		{[]byte{0xC5, 0x37}, "lds si, [bx]"},
		{[]byte{0x8F, 0x06, 0x10, 0x00}, "pop word [16]"},

		// Groups
		{[]byte{0xF6, 0xD8}, "neg al"},
		{[]byte{0xF7, 0x27}, "mul word [bx]"},
		{[]byte{0xF6, 0x07, 0x05}, "test byte [bx], 5"},
		{[]byte{0xF7, 0xC1, 0x00, 0x01}, "test cx, 256"},
		{[]byte{0xFE, 0x07}, "inc byte [bx]"},
		{[]byte{0xFF, 0x4E, 0xFC}, "dec word [bp - 4]"},
		{[]byte{0xFF, 0x17}, "call near [bx]"},
		{[]byte{0xFF, 0x1F}, "call far [bx]"},
		{[]byte{0xFF, 0xE0}, "jmp ax"},
		{[]byte{0xFF, 0x2E, 0x10, 0x00}, "jmp far [16]"},
		{[]byte{0xFF, 0x36, 0x10, 0x00}, "push word [16]"},
		{[]byte{0xD1, 0xE0}, "shl ax, 1"},
		{[]byte{0xD3, 0x2F}, "shr word [bx], cl"},
		{[]byte{0xD2, 0xC8}, "ror al, cl"},
		{[]byte{0xD0, 0x3F}, "sar byte [bx], 1"},

		// Control transfer
		{[]byte{0x74, 0x02}, "je $+2+2"},
		{[]byte{0x7C, 0xFE}, "jl $+2-2"},
		{[]byte{0xE2, 0xFC}, "loop $+2-4"},
		{[]byte{0xE3, 0x00}, "jcxz $+2+0"},
		{[]byte{0xEB, 0x10}, "jmp $+2+16"},
		{[]byte{0xE8, 0x00, 0x01}, "call $+3+256"},
		{[]byte{0xE9, 0xFD, 0xFF}, "jmp $+3-3"},
		{[]byte{0x9A, 0x34, 0x12, 0x00, 0xF0}, "call 61440:4660"},
		{[]byte{0xEA, 0x00, 0x00, 0xFF, 0xFF}, "jmp 65535:0"},
		{[]byte{0xC2, 0x04, 0x00}, "ret 4"},
		{[]byte{0xCA, 0x08, 0x00}, "retf 8"},
		{[]byte{0xCD, 0x21}, "int 33"},

		// Ports
		{[]byte{0xE4, 0x60}, "in al, 96"},
		{[]byte{0xE7, 0x43}, "out 67, ax"},
		{[]byte{0xEC}, "in al, dx"},
		{[]byte{0xEF}, "out dx, ax"},

		// Strings and prefixes
		{[]byte{0xA4}, "movsb"},
		{[]byte{0xAD}, "lodsw"},
		{[]byte{0xF3, 0xA5}, "rep movsw"},
		{[]byte{0xF2, 0xAE}, "repne scasb"},
		{[]byte{0xF0, 0x86, 0x07}, "lock xchg al, [bx]"},
		{[]byte{0x2E, 0xA4}, "cs movsb"},
		{[]byte{0xF3, 0x3E, 0xA6}, "rep ds cmpsb"},
		{[]byte{0x3E, 0xF3, 0xA6}, "ds rep cmpsb"},
		{[]byte{0xF3, 0xF0, 0xA4}, "rep lock movsb"},
		{[]byte{0x26, 0xF0, 0x86, 0x07}, "lock xchg al, es:[bx]"},

		// Register in opcode and single byte
		{[]byte{0x50}, "push ax"},
		{[]byte{0x5B}, "pop bx"},
		{[]byte{0x41}, "inc cx"},
		{[]byte{0x4F}, "dec di"},
		{[]byte{0x91}, "xchg ax, cx"},
		{[]byte{0x90}, "xchg ax, ax"},
		{[]byte{0x06}, "push es"},
		{[]byte{0x1F}, "pop ds"},
		{[]byte{0xD4, 0x0A}, "aam"},
		{[]byte{0xD5, 0x0A}, "aad"},
		{[]byte{0xF4}, "hlt"},
		{[]byte{0x9C}, "pushf"},
		{[]byte{0xD7}, "xlat"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, decodeOne(t, tt.code), "% x", tt.code)
	}
}

func TestLegacyTargets(t *testing.T) {
	// next = 3, target 259, rounded up to 260
	assert.Equal(t, "call 260", decodeOne(t, []byte{0xE8, 0x00, 0x01}, disassembler.WithLegacyTargets(true)))
	assert.Equal(t, "jmp 4", decodeOne(t, []byte{0xE9, 0x00, 0x00}, disassembler.WithLegacyTargets(true)))
}

func TestListing(t *testing.T) {
	code := []byte{
		0x89, 0xD8, // mov ax, bx
		0x26, 0x88, 0x00, // mov es:[bx + si], al
		0x88, 0x00, // mov [bx + si], al
		0x74, 0xFA, // je $+2-6
		0xC3, // ret
	}
	want := "bits 16\n" +
		"mov ax, bx\n" +
		"mov es:[bx + si], al\n" +
		"mov [bx + si], al\n" +
		"je $+2-6\n" +
		"ret\n"

	got, err := disassembler.New(quiet()).Disassemble(code)
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("listing mismatch (-want +got):\n%s", diff)
	}
}

func TestEmptyImage(t *testing.T) {
	got, err := disassembler.New(quiet()).Disassemble(nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name   string
		code   []byte
		want   error
		offset int
		raw    []byte
	}{
		{"invalid opcode", []byte{0x0F}, disassembler.ErrUnsupported, 0, []byte{0x0F}},
		{"coprocessor escape", []byte{0x90, 0xD8, 0x00}, disassembler.ErrUnsupported, 1, []byte{0xD8}},
		{"truncated modrm", []byte{0x89}, disassembler.ErrUnexpectedEnd, 0, []byte{0x89}},
		{"truncated displacement", []byte{0x8B, 0x86, 0x01}, disassembler.ErrUnexpectedEnd, 0, []byte{0x8B, 0x86, 0x01}},
		{"truncated immediate", []byte{0xB8, 0x01}, disassembler.ErrUnexpectedEnd, 0, []byte{0xB8, 0x01}},
		{"prefix at end", []byte{0x26}, disassembler.ErrUnexpectedEnd, 0, []byte{0x26}},
		{"mov imm to register via c6", []byte{0xC6, 0xC0, 0x05}, disassembler.ErrUnsupported, 0, []byte{0xC6, 0xC0}},
		{"c6 with nonzero reg", []byte{0xC6, 0x08, 0x05}, disassembler.ErrUnsupported, 0, []byte{0xC6, 0x08}},
		{"pop with nonzero reg", []byte{0x8F, 0xC8}, disassembler.ErrUnsupported, 0, []byte{0x8F, 0xC8}},
		{"segment register 4", []byte{0x8E, 0xE0}, disassembler.ErrUnsupported, 0, []byte{0x8E, 0xE0}},
		{"lea from register", []byte{0x8D, 0xC0}, disassembler.ErrUnsupported, 0, []byte{0x8D, 0xC0}},
		{"aam with other base", []byte{0xD4, 0x10}, disassembler.ErrUnsupported, 0, []byte{0xD4, 0x10}},
		{"s:w 2", []byte{0x82, 0xC0, 0x01}, disassembler.ErrUnsupported, 0, []byte{0x82, 0xC0}},
		{"unary slot 1", []byte{0xF6, 0xC8}, disassembler.ErrUnsupported, 0, []byte{0xF6, 0xC8}},
		{"fe call", []byte{0xFE, 0x10}, disassembler.ErrUnsupported, 0, []byte{0xFE, 0x10}},
		{"ff slot 7", []byte{0xFF, 0xF8}, disassembler.ErrUnsupported, 0, []byte{0xFF, 0xF8}},
		{"far call through register", []byte{0xFF, 0xD8}, disassembler.ErrUnsupported, 0, []byte{0xFF, 0xD8}},
		{"shift slot 6", []byte{0xD0, 0x30}, disassembler.ErrUnsupported, 0, []byte{0xD0, 0x30}},
		{"two segment prefixes", []byte{0x26, 0x2E, 0x2E, 0x7B, 0x3E}, disassembler.ErrUnsupported, 0, []byte{0x26, 0x2E}},
		{"rep and repne", []byte{0xF3, 0xF2, 0xA4}, disassembler.ErrUnsupported, 0, []byte{0xF3, 0xF2}},
		{"lock twice", []byte{0x90, 0xF0, 0xF0, 0x86, 0x07}, disassembler.ErrUnsupported, 1, []byte{0xF0, 0xF0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := disassembler.New(quiet()).Instructions(tt.code)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)

			var de *disassembler.DecodeError
			require.True(t, errors.As(err, &de))
			assert.Equal(t, tt.offset, de.Offset)
			assert.Equal(t, tt.raw, de.Bytes)
		})
	}
}

// Output for instructions before a failure is kept, and a prefix never reaches
// past the instruction it belongs to.
func TestPartialOutput(t *testing.T) {
	code := []byte{0x89, 0xD8, 0x26, 0x0F, 0x88, 0x00}
	got, err := disassembler.New(quiet()).Disassemble(code)
	require.ErrorIs(t, err, disassembler.ErrUnsupported)
	assert.Equal(t, "bits 16\nmov ax, bx\n", got)

	var de *disassembler.DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, 2, de.Offset)
	assert.Equal(t, []byte{0x26, 0x0F}, de.Bytes)
	assert.Equal(t, "unsupported encoding: opcode 0f at offset 2 (26 0f)", de.Error())
}

func TestFailureIsLogged(t *testing.T) {
	logger, hook := test.NewNullLogger()
	_, err := disassembler.New(disassembler.WithLogger(logger)).Disassemble([]byte{0x90, 0x0F})
	require.Error(t, err)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.Equal(t, 1, entry.Data["offset"])
	assert.Equal(t, "0f", entry.Data["bytes"])
}

func TestDebugTrace(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	_, err := disassembler.New(disassembler.WithLogger(logger)).Disassemble([]byte{0x89, 0xD8})
	require.NoError(t, err)

	require.Len(t, hook.AllEntries(), 1)
	entry := hook.LastEntry()
	assert.Equal(t, logrus.DebugLevel, entry.Level)
	assert.Equal(t, "mov ax, bx", entry.Data["text"])
	assert.Equal(t, "89 d8", entry.Data["bytes"])
}

func TestDump(t *testing.T) {
	var buf bytes.Buffer
	_, err := disassembler.New(quiet(), disassembler.WithDump(&buf)).Disassemble([]byte{0x26, 0x8B, 0x07})
	require.NoError(t, err)

	out := buf.String()
	for _, field := range []string{"Offset", "Bytes", "Prefix", "Mnemonic", "Operands", "Kind", "Segment"} {
		assert.Contains(t, out, field+":")
	}
	assert.Contains(t, out, `"mov"`)
	assert.NotContains(t, out, "mov ax, es:[bx]")
}

func TestInstructionBytesAreCopied(t *testing.T) {
	code := []byte{0x89, 0xD8, 0xC3}
	list, err := disassembler.New(quiet()).Instructions(code)
	require.NoError(t, err)
	require.Len(t, list, 2)

	code[0], code[1] = 0, 0
	assert.Equal(t, []byte{0x89, 0xD8}, list[0].Bytes)
	assert.Equal(t, "mov ax, bx", list[0].String())
}

func TestPackageDisassemble(t *testing.T) {
	got, err := disassembler.Disassemble([]byte{0xF8, 0xF9})
	require.NoError(t, err)
	assert.Equal(t, "bits 16\nclc\nstc\n", got)
}
