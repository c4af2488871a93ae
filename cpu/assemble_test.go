package cpu

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssemble(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		mnemonic      string
		op1, op2, op3 uint16
		code          Code
	}){
		{"NOP", 1, 2, 3, MakeCodeImm(OP_NOP, 0)},
		{"SYSCALL", 0x1234, 0, 0, MakeCodeImm(OP_SYSCALL, 0x234)},
		{"mov_reg_imm", 0, 0x1ff, 0, MakeCodeRegImm(OP_MOV_REG_IMM, 0, 0xff)},
		{"Jmp", 6, 10, 99, MakeCodeRegImm(OP_JMP, 6, 10)},
		{"NOT", 5, 1, 1, MakeCodeRegImm(OP_NOT, 5, 0)},
		{"AND", 2, 0, 1, MakeCodeRegRegImm(OP_AND, 2, 0, 0)},
		{"or", 3, 1, 7, MakeCodeRegRegImm(OP_OR, 3, 1, 0)},
		{"ADD", 0, 0, 0, MakeCodeRegRegImm(OP_ADD, 0, 0, 0)},
		{"SUB", 1, 0, 0x15, MakeCodeRegRegImm(OP_SUB, 1, 0, 5)},
		{"LD_REG_MEM", 2, 1, 5, MakeCodeRegRegImm(OP_LD_REG_MEM, 2, 1, 5)},
		{"JZ", 0x10, 6, 0, MakeCodeRegRegImm(OP_JZ, 0, 6, 0)},
	}

	for _, entry := range table {
		var code Code
		err := Assemble(entry.mnemonic, entry.op1, entry.op2, entry.op3, &code)
		assert.NoError(err, entry.mnemonic)
		assert.Equal(entry.code, code, entry.mnemonic)
	}
}

func TestAssemble_Unknown(t *testing.T) {
	assert := assert.New(t)

	code := Code(0x1234)
	err := Assemble("HALT", 1, 2, 3, &code)

	var em ErrMnemonic
	assert.True(errors.As(err, &em))
	assert.Equal(ErrMnemonic("HALT"), em)
	assert.Contains(err.Error(), "HALT")
	assert.Equal(Code(0x1234), code)
}

func TestAssemble_NoAlloc(t *testing.T) {
	assert := assert.New(t)

	var code Code
	allocs := testing.AllocsPerRun(100, func() {
		_ = Assemble("mov_reg_reg_add", 1, 2, 3, &code)
	})
	assert.Equal(0.0, allocs)
}

func TestAssemble_RoundTrip(t *testing.T) {
	assert := assert.New(t)

	operands := []uint16{0, 1, 7, 0xf, 0x10, 0xff, 0xfff, 0xffff}

	for n := range OP_COUNT {
		op := Op(n)
		for _, op1 := range operands {
			for _, op2 := range operands {
				op3 := op2 ^ op1
				var code Code
				err := Assemble(op.String(), op1, op2, op3, &code)
				assert.NoError(err)

				// The listing shows the operands as stored, after masking.
				rd, rs, imm4 := op1&0xf, op2&0xf, op3&0xf
				var text string
				switch op {
				case OP_NOP:
					text = "NOP 0"
				case OP_SYSCALL:
					text = fmt.Sprintf("SYSCALL %d", op1&0xfff)
				case OP_MOV_REG_IMM, OP_JMP:
					text = fmt.Sprintf("%v r%d, %d", op, rd, op2&0xff)
				case OP_NOT:
					text = fmt.Sprintf("NOT r%d", rd)
				case OP_AND, OP_OR, OP_XOR:
					text = fmt.Sprintf("%v r%d, r%d", op, rd, rs)
				case OP_LD_REG_MEM:
					text = fmt.Sprintf("LD_REG_MEM r%d, [r%d], %d", rd, rs, imm4)
				case OP_ST_MEM_REG:
					text = fmt.Sprintf("ST_MEM_REG [r%d], r%d, %d", rd, rs, imm4)
				default:
					text = fmt.Sprintf("%v r%d, r%d, %d", op, rd, rs, imm4)
				}

				bin := code.Bytes()
				assert.Equal(fmt.Sprintf("0000:  %s\n", text), Disassemble(bin[:]))
			}
		}
	}
}
