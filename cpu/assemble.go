package cpu

import (
	"strings"
)

// LookupOp finds the opcode for a mnemonic, ignoring case.
func LookupOp(mnemonic string) (op Op, ok bool) {
	for n := range OP_COUNT {
		op = Op(n)
		if strings.EqualFold(op.String(), mnemonic) {
			return op, true
		}
	}

	op = 0

	return
}

// Assemble encodes one instruction into code.
//
// The meaning of the operands depends on the mnemonic:
//
//	SYSCALL id                 op1 = imm12
//	NOP                        (operands ignored)
//	MOV_REG_IMM, JMP rd, imm   op1 = rd, op2 = imm8
//	NOT rd                     op1 = rd
//	AND, OR, XOR rd, rs        op1 = rd, op2 = rs
//	all others rd, rs, imm     op1 = rd, op2 = rs, op3 = imm4
//
// Operands are masked to their field width and never rejected. An unknown
// mnemonic returns ErrMnemonic and leaves code untouched.
func Assemble(mnemonic string, op1, op2, op3 uint16, code *Code) (err error) {
	op, ok := LookupOp(mnemonic)
	if !ok {
		err = ErrMnemonic(mnemonic)
		return
	}

	switch op {
	case OP_NOP:
		*code = MakeCodeImm(op, 0)
	case OP_SYSCALL:
		*code = MakeCodeImm(op, op1)
	case OP_MOV_REG_IMM, OP_JMP:
		*code = MakeCodeRegImm(op, uint8(op1), uint8(op2))
	case OP_NOT:
		*code = MakeCodeRegImm(op, uint8(op1), 0)
	case OP_AND, OP_OR, OP_XOR:
		*code = MakeCodeRegRegImm(op, uint8(op1), uint8(op2), 0)
	default:
		*code = MakeCodeRegRegImm(op, uint8(op1), uint8(op2), uint8(op3))
	}

	return
}
