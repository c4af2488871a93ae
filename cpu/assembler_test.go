package cpu

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func assemble(t *testing.T, asm *Assembler, program ...string) (prog *Program) {
	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	if err != nil {
		t.Fatal(err)
	}
	return
}

func TestAssembler(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	prog, err := asm.Parse(strings.NewReader(""))
	assert.NoError(err)
	assert.Equal(0, len(prog.Opcodes))
	assert.Equal(0, len(prog.Binary()))

	assert.Equal("64", asm.Equate["MEMORY_SIZE"])
	assert.Equal("15", asm.Equate["PC_REG"])
}

func TestAssemblerProgram(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	prog := assemble(t, asm,
		"; compute ten",
		"start:  MOV_REG_IMM r0, 5",
		"        add r0, r0, 0",
		"",
		"        SYSCALL 1   # putc",
	)

	expected := []Opcode{
		{2, 0, []string{"MOV_REG_IMM", "r0", "5"}, MakeCodeRegImm(OP_MOV_REG_IMM, 0, 5)},
		{3, 2, []string{"add", "r0", "r0", "0"}, MakeCodeRegRegImm(OP_ADD, 0, 0, 0)},
		{5, 4, []string{"SYSCALL", "1"}, MakeCodeImm(OP_SYSCALL, 1)},
	}

	assert.Equal(expected, prog.Opcodes)
	assert.Equal(0, asm.Label["start"])
	assert.Equal([]byte{0x02, 0x05, 0x08, 0x00, 0x11, 0x00}, prog.Binary())

	st := NewState()
	st.Run(prog.Binary(), 10, false)
	assert.Equal(Interrupt(1), st.Interrupt)
	assert.Equal(uint8(10), st.Register[0])
}

func TestAssemblerData(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	prog := assemble(t, asm,
		".data",
		"  byte 3, 9",
		`  str 10, "h;\n"   ; greeting`,
		".text",
		"LOOP:",
		"  MOV_REG_IMM r6, loop",
		"  JMP r6, 0",
	)

	assert.Equal([]Datum{
		{2, 3, 9},
		{3, 10, 'h'},
		{3, 11, ';'},
		{3, 12, '\n'},
	}, prog.Data)
	assert.Equal(12, prog.DataLength())
	assert.Equal(12, asm.Label["loop"])

	assert.Equal([]byte{
		0xf0, 0xff, 3, 9, 10, 'h', 11, ';', 12, '\n', 0, 0,
		0x62, 12,
		0x6e, 0,
	}, prog.Binary())

	st := NewState()
	st.Run(prog.Binary(), 10, false)
	assert.Equal(INTERRUPT_MAX_STEPS, st.Interrupt)
	assert.Equal(uint8(9), st.Memory[3])
	assert.Equal(uint8('h'), st.Memory[10])
	assert.Equal(uint8('\n'), st.Memory[12])
	// Steps alternate MOV and JMP after the data block; step 10 is a MOV.
	assert.Equal(uint16(14), st.Pc)
}

func TestAssemblerOperands(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	asm.Predefine("BASE", "0x20")

	prog := assemble(t, asm,
		".equ COUNT 3",
		".equ CHAR 'A'",
		".EQU SHIFT 2",
		"MOV_REG_IMM r0, 'a'",
		`MOV_REG_IMM r1, '\n'`,
		"MOV_REG_IMM r2, -1",
		"MOV_REG_IMM r3, 0x10",
		"MOV_REG_IMM r4, 0b101",
		"MOV_REG_IMM r5, COUNT",
		"MOV_REG_IMM r6, CHAR",
		"MOV_REG_IMM r7, $(COUNT * 4 + 1)",
		"LD_REG_MEM r1, [r2], 3",
		"MOV_REG_IMM r8, $(end - 2)",
		"MOV_REG_IMM r9, BASE",
		"MOV_REG_IMM r10, ';'",
		"MOV_REG_IMM r11, $(CHAR + 1)",
		"MOV_REG_IMM r12, SHIFT",
		"end: SYSCALL 0",
	)

	expected := []Code{
		MakeCodeRegImm(OP_MOV_REG_IMM, 0, 'a'),
		MakeCodeRegImm(OP_MOV_REG_IMM, 1, '\n'),
		MakeCodeRegImm(OP_MOV_REG_IMM, 2, 0xff),
		MakeCodeRegImm(OP_MOV_REG_IMM, 3, 0x10),
		MakeCodeRegImm(OP_MOV_REG_IMM, 4, 5),
		MakeCodeRegImm(OP_MOV_REG_IMM, 5, 3),
		MakeCodeRegImm(OP_MOV_REG_IMM, 6, 'A'),
		MakeCodeRegImm(OP_MOV_REG_IMM, 7, 13),
		MakeCodeRegRegImm(OP_LD_REG_MEM, 1, 2, 3),
		MakeCodeRegImm(OP_MOV_REG_IMM, 8, 26),
		MakeCodeRegImm(OP_MOV_REG_IMM, 9, 0x20),
		MakeCodeRegImm(OP_MOV_REG_IMM, 10, ';'),
		MakeCodeRegImm(OP_MOV_REG_IMM, 11, 'B'),
		MakeCodeRegImm(OP_MOV_REG_IMM, 12, 2),
		MakeCodeImm(OP_SYSCALL, 0),
	}

	var codes []Code
	for _, code := range prog.Codes() {
		codes = append(codes, code)
	}
	assert.Equal(expected, codes)
	assert.Equal(28, asm.Label["end"])
}

func TestAssemblerJumps(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	prog := assemble(t, asm,
		"    MOV_REG_IMM r0, 0",
		"    MOV_REG_IMM r1, 1",
		"    MOV_REG_IMM r6, skip",
		"    JZ r0, r6, 0",
		"    MOV_REG_IMM r2, 99",
		"skip:",
		"    MOV_REG_IMM r3, 100",
		"    JZ r1, r6, 0",
		"    MOV_REG_IMM r4, 101",
		"    SYSCALL 0",
	)

	st := NewState()
	st.Run(prog.Binary(), 20, false)

	assert.Equal(Interrupt(0), st.Interrupt)
	assert.Equal(uint8(0), st.Register[2])
	assert.Equal(uint8(100), st.Register[3])
	assert.Equal(uint8(101), st.Register[4])
}

func TestAssemblerErrors(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name   string
		source string
		lineno int
		err    error
	}){
		{"mnemonic", "NOP\nHALT 1", 2, ErrMnemonic("HALT")},
		{"label_missing", "JMP r0, nowhere", 1, ErrLabelMissing("nowhere")},
		{"label_duplicate", "a: NOP\na: NOP", 2, ErrLabelDuplicate},
		{"equ_syntax", ".equ A", 1, ErrEquateSyntax},
		{"equ_duplicate", ".equ A 1\n.equ A 2", 2, ErrEquateDuplicate},
		{"equ_define", ".equ MEMORY_SIZE 2", 1, ErrEquateDuplicate},
		{"extra_args", "ADD r0, r1, 2, 3", 1, ErrOpcodeExtraArgs},
		{"value_missing", "ADD r0, , 2", 1, ErrOpcodeValueMissing},
		{"number", "MOV_REG_IMM r0, 0xzz", 1, ErrParseNumber("0xzz")},
		{"character", "MOV_REG_IMM r0, 'ab'", 1, ErrParseCharacter("'ab'")},
		{"data_syntax", ".data\nbyte 1", 2, ErrDataSyntax},
		{"data_directive", ".data\nword 1, 2", 2, ErrDataSyntax},
		{"data_string", ".data\nstr 1, 2", 2, ErrParseString("2")},
		{"data_terminator", ".data\nbyte 5, 7\nbyte 0, 0", 3, ErrDataSyntax},
		{"data_terminator_str", ".data\nstr 0, \"\\x00a\"", 2, ErrDataSyntax},
	}

	for _, entry := range table {
		asm := &Assembler{}
		_, err := asm.Parse(strings.NewReader(entry.source))

		var es *ErrSyntax
		if !assert.True(errors.As(err, &es), entry.name) {
			continue
		}
		assert.Equal(entry.lineno, es.LineNo, entry.name)
		assert.ErrorIs(err, entry.err, entry.name)
	}
}

func TestAssemblerExpression(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	_, err := asm.Parse(strings.NewReader("MOV_REG_IMM r0, $(1 +)"))

	var ee ErrParseExpression
	assert.True(errors.As(err, &ee))
	assert.Equal(ErrParseExpression("1 +"), ee)

	_, err = asm.Parse(strings.NewReader(`MOV_REG_IMM r0, $("text")`))
	assert.ErrorIs(err, ErrParseExpression(`"text"`))
}

func TestAssemblerDisassemble(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	prog := assemble(t, asm,
		".data",
		"byte 1, 2",
		".text",
		"MOV_REG_IMM r0, 5",
		"ST_MEM_REG [r0], r1, 2",
		"SYSCALL 0",
	)

	assert.Equal(strings.Join([]string{
		"0000:  .data",
		"         byte 1, 2",
		"0006:  MOV_REG_IMM r0, 5",
		"0008:  ST_MEM_REG [r0], r1, 2",
		"000A:  SYSCALL 0",
		"",
	}, "\n"), Disassemble(prog.Binary()))
}
