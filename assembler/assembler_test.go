package assembler_test

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Urethramancer/i8086/assembler"
	"github.com/Urethramancer/i8086/disassembler"
)

// assembleAndMatchHex assembles src and checks it against the expected bytes in hex.
func assembleAndMatchHex(t *testing.T, name, src, expectedHex string) {
	t.Helper()

	expected, err := hex.DecodeString(strings.ToLower(strings.Join(strings.Fields(expectedHex), "")))
	require.NoError(t, err, "[%s] invalid expected hex string", name)

	code, err := assembler.New().Assemble(src)
	require.NoError(t, err, "[%s] failed to assemble:\n%s", name, src)
	assert.Equal(t, expected, code, "[%s]\nexpected: % X\ngot:      % X", name, expected, code)
}

func TestBasicEncodings(t *testing.T) {
	tests := []struct {
		name, src, hex string
	}{
		{"MOV_RegReg", "mov ax, bx", "89 D8"},
		{"MOV_ByteImm", "mov cl, 255", "B1 FF"},
		{"MOV_WordImm", "mov ax, 1", "B8 01 00"},
		{"MOV_HexImm", "mov dx, 0x1234", "BA 34 12"},
		{"MOV_TrailingH", "mov dx, 0ABCDh", "BA CD AB"},
		{"MOV_Char", "mov al, 'A'", "B0 41"},
		{"MOV_MemImmByte", "mov byte [bx], 5", "C6 07 05"},
		{"MOV_MemImmWord", "mov [16], word 300", "C7 06 10 00 2C 01"},
		{"MOV_AccDirect", "mov ax, [16]", "A1 10 00"},
		{"MOV_DirectAcc", "mov [16], al", "A2 10 00"},
		{"MOV_BpZero", "mov ax, [bp]", "8B 46 00"},
		{"MOV_BpNeg", "mov ax, [bp - 2]", "8B 46 FE"},
		{"MOV_Disp16", "mov al, [bx + si + 256]", "8A 80 00 01"},
		{"MOV_SiBx", "mov al, [si + bx]", "8A 00"},
		{"MOV_SegOverride", "mov ax, es:[bx]", "26 8B 07"},
		{"MOV_SegInside", "mov ax, [es:bx]", "26 8B 07"},
		{"MOV_ToSeg", "mov ds, ax", "8E D8"},
		{"MOV_FromSeg", "mov [bx + 2], ds", "8C 5F 02"},
		{"XCHG_Acc", "xchg ax, cx", "91"},
		{"XCHG_AccSecond", "xchg cx, ax", "91"},
		{"XCHG_Byte", "xchg al, bl", "86 C3"},
		{"NOP", "nop", "90"},
		{"LEA", "lea ax, [bx + si + 4]", "8D 40 04"},
		{"LES", "les bx, [16]", "C4 1E 10 00"},
		{"LDS", "lds si, [bx]", "C5 37"},
		{"HLT", "hlt", "F4"},
		{"XLAT", "xlat", "D7"},
		{"AAM", "aam", "D4 0A"},
		{"AAD", "aad", "D5 0A"},
		{"INT", "int 33", "CD 21"},
		{"INT3", "int3", "CC"},
		{"IRET", "iret", "CF"},
	}
	for _, tc := range tests {
		assembleAndMatchHex(t, tc.name, tc.src, tc.hex)
	}
}

func TestArithmeticEncodings(t *testing.T) {
	tests := []struct {
		name, src, hex string
	}{
		{"ADD_RegReg", "add ax, bx", "01 D8"},
		{"ADD_RegMem", "sub cl, [bp + 16]", "2A 4E 10"},
		{"CMP_MemReg", "cmp [512], bx", "39 1E 00 02"},
		{"ADD_AccSignExt", "add ax, -1", "83 C0 FF"},
		{"ADD_AccSmall", "add ax, 127", "83 C0 7F"},
		{"ADD_AccWord", "add ax, 1000", "05 E8 03"},
		{"CMP_AccByte", "cmp al, 9", "3C 09"},
		{"ADD_ByteReg", "add bl, 255", "80 C3 FF"},
		{"ADD_WordReg", "add bx, 4660", "81 C3 34 12"},
		{"CMP_MemWordSmall", "cmp word [16], 5", "83 3E 10 00 05"},
		{"SUB_MemByte", "sub byte [bx], 1", "80 2F 01"},
		{"TEST_RegReg", "test ax, bx", "85 D8"},
		{"TEST_Acc", "test al, 1", "A8 01"},
		{"TEST_Reg", "test cx, 256", "F7 C1 00 01"},
		{"TEST_Mem", "test byte [bx], 5", "F6 07 05"},
		{"NEG", "neg al", "F6 D8"},
		{"MUL", "mul word [bx]", "F7 27"},
		{"INC_Reg", "inc cx", "41"},
		{"DEC_Reg", "dec di", "4F"},
		{"INC_Mem", "inc byte [bx]", "FE 07"},
		{"DEC_Mem", "dec word [bp - 4]", "FF 4E FC"},
		{"SHL", "shl ax, 1", "D1 E0"},
		{"SAL", "sal ax, 1", "D1 E0"},
		{"SHR_CL", "shr word [bx], cl", "D3 2F"},
		{"ROR_CL", "ror al, cl", "D2 C8"},
		{"SAR", "sar byte [bx], 1", "D0 3F"},
	}
	for _, tc := range tests {
		assembleAndMatchHex(t, tc.name, tc.src, tc.hex)
	}
}

func TestStackAndFlowEncodings(t *testing.T) {
	tests := []struct {
		name, src, hex string
	}{
		{"PUSH_Reg", "push ax", "50"},
		{"POP_Reg", "pop bx", "5B"},
		{"PUSH_Seg", "push es", "06"},
		{"POP_Seg", "pop ds", "1F"},
		{"PUSH_Mem", "push word [16]", "FF 36 10 00"},
		{"POP_Mem", "pop word [16]", "8F 06 10 00"},
		{"JE_Rel", "je $+2+2", "74 02"},
		{"JL_Back", "jl $+2-2", "7C FE"},
		{"JZ_Alias", "jz $+2+2", "74 02"},
		{"LOOP", "loop $+2-4", "E2 FC"},
		{"JCXZ", "jcxz $+2+0", "E3 00"},
		{"JMP_Short", "jmp $+2+16", "EB 10"},
		{"JMP_NearHint", "jmp $+3-3", "E9 FD FF"},
		{"JMP_NearKeyword", "jmp near $+3", "E9 00 00"},
		{"CALL_Rel", "call $+3+256", "E8 00 01"},
		{"CALL_Far", "call 61440:4660", "9A 34 12 00 F0"},
		{"JMP_Far", "jmp 65535:0", "EA 00 00 FF FF"},
		{"CALL_Indirect", "call near [bx]", "FF 17"},
		{"CALL_FarIndirect", "call far [bx]", "FF 1F"},
		{"JMP_Reg", "jmp ax", "FF E0"},
		{"JMP_FarIndirect", "jmp far [16]", "FF 2E 10 00"},
		{"RET", "ret", "C3"},
		{"RET_Imm", "ret 4", "C2 04 00"},
		{"RETF", "retf", "CB"},
		{"RETF_Imm", "retf 8", "CA 08 00"},
		{"IN_Fixed", "in al, 96", "E4 60"},
		{"OUT_Fixed", "out 67, ax", "E7 43"},
		{"IN_DX", "in al, dx", "EC"},
		{"OUT_DX", "out dx, ax", "EF"},
		{"MOVSB", "movsb", "A4"},
		{"LODSW", "lodsw", "AD"},
		{"REP_MOVSW", "rep movsw", "F3 A5"},
		{"REPNE_SCASB", "repne scasb", "F2 AE"},
		{"LOCK_XCHG", "lock xchg al, [bx]", "F0 86 07"},
		{"CS_MOVSB", "cs movsb", "2E A4"},
		{"REP_DS_CMPSB", "rep ds cmpsb", "F3 3E A6"},
		{"DS_REP_CMPSB", "ds rep cmpsb", "3E F3 A6"},
		{"REP_LOCK_MOVSB", "rep lock movsb", "F3 F0 A4"},
	}
	for _, tc := range tests {
		assembleAndMatchHex(t, tc.name, tc.src, tc.hex)
	}
}

func TestDirectives(t *testing.T) {
	tests := []struct {
		name, src, hex string
	}{
		{"BITS", "bits 16\nnop", "90"},
		{"DB", "db 1, 2, 0xFF", "01 02 FF"},
		{"DB_String", "db \"Hi\", 0", "48 69 00"},
		{"DB_Char", "db 'A', 'B'", "41 42"},
		{"DW", "dw 0x1234, 5", "34 12 05 00"},
		{"ORG", "org 0x100\nstart: jmp start", "EB FE"},
		{"Comment", "nop ; idle\n\n  ; nothing", "90"},
	}
	for _, tc := range tests {
		assembleAndMatchHex(t, tc.name, tc.src, tc.hex)
	}
}

func TestLabels(t *testing.T) {
	src := `
start:
	mov cx, 3
again:
	dec cx
	jnz again
	call done
	jmp start
done:
	ret
`
	asm := assembler.New()
	code, err := asm.Assemble(src)
	require.NoError(t, err)

	want := []byte{
		0xB9, 0x03, 0x00, // mov cx, 3
		0x49,       // dec cx
		0x75, 0xFD, // jnz again
		0xE8, 0x02, 0x00, // call done
		0xEB, 0xF5, // jmp start
		0xC3, // ret
	}
	assert.Equal(t, want, code)
	assert.Equal(t, map[string]int{"start": 0, "again": 3, "done": 11}, asm.Labels())
}

// A forward jmp starts short and grows to rel16 once the gap is too wide.
func TestJumpGrowth(t *testing.T) {
	src := "jmp far_away\n" + strings.Repeat("nop\n", 200) + "far_away: ret"
	code, err := assembler.New().Assemble(src)
	require.NoError(t, err)

	require.Len(t, code, 3+200+1)
	assert.Equal(t, []byte{0xE9, 200, 0}, code[:3])

	src = "jmp near_by\n" + strings.Repeat("nop\n", 100) + "near_by: ret"
	code, err = assembler.New().Assemble(src)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xEB, 100}, code[:2])
}

func TestShortJumpOutOfRange(t *testing.T) {
	src := "je far_away\n" + strings.Repeat("nop\n", 200) + "far_away: ret"
	_, err := assembler.New().Assemble(src)
	require.ErrorIs(t, err, assembler.ErrOutOfRange)
	assert.Contains(t, err.Error(), "line 1")
}

func TestAssembleErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"undefined label", "jmp nowhere", assembler.ErrUndefinedLabel},
		{"no size", "inc [bx]", assembler.ErrNoSize},
		{"size mismatch", "mov al, bx", assembler.ErrSizeMismatch},
		{"byte overflow", "mov al, 300", assembler.ErrOutOfRange},
		{"operand count", "neg", assembler.ErrOperandCount},
		{"lea from register", "lea ax, bx", assembler.ErrInvalidOperands},
		{"byte lea", "lea al, [bx]", assembler.ErrSizeMismatch},
		{"far register", "jmp far ax", assembler.ErrInvalidOperands},
		{"in to bx", "in bx, dx", assembler.ErrInvalidOperands},
		{"rep twice", "rep repne movsb", assembler.ErrRepeatedPrefix},
		{"segment twice", "es cs movsb", assembler.ErrRepeatedPrefix},
		{"segment prefix and override", "es mov ax, ds:[bx]", assembler.ErrRepeatedPrefix},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := assembler.New().Assemble(tt.src)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestErrorLineNumbers(t *testing.T) {
	_, err := assembler.New().Assemble("nop\nnop\nfrobnicate ax\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3")
	assert.Contains(t, err.Error(), "unknown instruction: frobnicate")

	_, err = assembler.New().Assemble("a: nop\nb: nop\na: ret")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3")
	assert.Contains(t, err.Error(), "already defined on line 1")
}

// Disassembler output assembles back to bytes that disassemble to the same text.
func TestDisassemblyRoundTrip(t *testing.T) {
	lines := []string{
		"mov ax, bx",
		"mov [bx + si], al",
		"mov ax, es:[bx]",
		"mov ax, [bp - 2]",
		"mov ax, [bp]",
		"mov ax, [4660]",
		"mov al, [bx + si + 256]",
		"mov ax, [bx - 32768]",
		"sub cl, [bp + 16]",
		"cmp [512], bx",
		"xchg al, bl",
		"mov [bx], byte 5",
		"mov [16], word 300",
		"add ax, -1",
		"add bl, 255",
		"add bx, 4660",
		"add ax, 1000",
		"cmp [16], word 5",
		"sub [bx], byte 1",
		"test al, 1",
		"test cx, 256",
		"mov ds, ax",
		"mov ax, es",
		"mov [bx + 2], ds",
		"lea ax, [bx + si + 4]",
		"les bx, [16]",
		"pop word [16]",
		"neg al",
		"mul word [bx]",
		"test byte [bx], 5",
		"inc byte [bx]",
		"dec word [bp - 4]",
		"call near [bx]",
		"call far [bx]",
		"jmp ax",
		"jmp far [16]",
		"push word [16]",
		"shl ax, 1",
		"shr word [bx], cl",
		"je $+2+2",
		"jl $+2-2",
		"loop $+2-4",
		"jmp $+2+16",
		"call $+3+256",
		"jmp $+3-3",
		"call 61440:4660",
		"jmp 65535:0",
		"ret 4",
		"retf 8",
		"int 33",
		"in al, 96",
		"out 67, ax",
		"in al, dx",
		"out dx, ax",
		"rep movsw",
		"repne scasb",
		"lock xchg al, [bx]",
		"cs movsb",
		"rep ds cmpsb",
		"ds rep cmpsb",
		"rep lock movsb",
		"lock xchg al, es:[bx]",
		"xchg ax, cx",
		"xchg ax, ax",
		"push es",
		"pop ds",
		"aam",
		"hlt",
		"ret",
	}
	want := disassembler.Header + strings.Join(lines, "\n") + "\n"

	code, err := assembler.New().Assemble(want)
	require.NoError(t, err)

	logger, _ := test.NewNullLogger()
	got, err := disassembler.New(disassembler.WithLogger(logger)).Disassemble(code)
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}
