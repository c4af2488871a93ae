package cpu

import (
	"encoding/binary"
	"fmt"
)

// Op is the 4-bit operation selector held in the low bits of a Code.
type Op int

//go:generate go tool stringer -linecomment -type=Op
const (
	OP_NOP             = Op(0x0) // NOP
	OP_SYSCALL         = Op(0x1) // SYSCALL
	OP_MOV_REG_IMM     = Op(0x2) // MOV_REG_IMM
	OP_MOV_REG_REG_SHR = Op(0x3) // MOV_REG_REG_SHR
	OP_MOV_REG_REG_SHL = Op(0x4) // MOV_REG_REG_SHL
	OP_MOV_REG_REG_ADD = Op(0x5) // MOV_REG_REG_ADD
	OP_LD_REG_MEM      = Op(0x6) // LD_REG_MEM
	OP_ST_MEM_REG      = Op(0x7) // ST_MEM_REG
	OP_ADD             = Op(0x8) // ADD
	OP_SUB             = Op(0x9) // SUB
	OP_AND             = Op(0xa) // AND
	OP_OR              = Op(0xb) // OR
	OP_XOR             = Op(0xc) // XOR
	OP_NOT             = Op(0xd) // NOT
	OP_JMP             = Op(0xe) // JMP
	OP_JZ              = Op(0xf) // JZ
)

// OP_COUNT is the number of encodable opcodes.
const OP_COUNT = 16

// RAW_DUMP is the NOP immediate that introduces an inline raw-data block.
const RAW_DUMP = 0xfff

// INSTRUCTION_LENGTH is the size of a Code in the program buffer, in bytes.
const INSTRUCTION_LENGTH = 2

// Shape is the operand layout carried by an instruction word.
type Shape int

const (
	SHAPE_IMM         = Shape(0) // op:4 imm:12
	SHAPE_REG_IMM     = Shape(1) // op:4 rd:4 imm:8
	SHAPE_REG_REG_IMM = Shape(2) // op:4 rd:4 rs:4 imm:4
)

var opShape = [OP_COUNT]Shape{
	OP_NOP:             SHAPE_IMM,
	OP_SYSCALL:         SHAPE_IMM,
	OP_MOV_REG_IMM:     SHAPE_REG_IMM,
	OP_MOV_REG_REG_SHR: SHAPE_REG_REG_IMM,
	OP_MOV_REG_REG_SHL: SHAPE_REG_REG_IMM,
	OP_MOV_REG_REG_ADD: SHAPE_REG_REG_IMM,
	OP_LD_REG_MEM:      SHAPE_REG_REG_IMM,
	OP_ST_MEM_REG:      SHAPE_REG_REG_IMM,
	OP_ADD:             SHAPE_REG_REG_IMM,
	OP_SUB:             SHAPE_REG_REG_IMM,
	OP_AND:             SHAPE_REG_REG_IMM,
	OP_OR:              SHAPE_REG_REG_IMM,
	OP_XOR:             SHAPE_REG_REG_IMM,
	OP_NOT:             SHAPE_REG_IMM,
	OP_JMP:             SHAPE_REG_IMM,
	OP_JZ:              SHAPE_REG_REG_IMM,
}

// Shape returns the operand layout used by the opcode.
func (op Op) Shape() Shape {
	return opShape[op&0xf]
}

// Code is a single 16-bit instruction word.
//
//	bit  15 .. 12 | 11 .. 8 | 7 .. 4 | 3 .. 0
//	     imm12                       | op      SHAPE_IMM
//	     imm8               | rd     | op      SHAPE_REG_IMM
//	     imm4     | rs      | rd     | op      SHAPE_REG_REG_IMM
type Code uint16

// MakeCodeImm creates an instruction with a 12-bit immediate.
func MakeCodeImm(op Op, imm12 uint16) Code {
	return Code((imm12&0xfff)<<4 | uint16(op&0xf))
}

// MakeCodeRegImm creates an instruction with a destination register and an 8-bit immediate.
func MakeCodeRegImm(op Op, rd uint8, imm8 uint8) Code {
	return Code(uint16(imm8)<<8 | uint16(rd&0xf)<<4 | uint16(op&0xf))
}

// MakeCodeRegRegImm creates an instruction with destination and source registers and a 4-bit immediate.
func MakeCodeRegRegImm(op Op, rd, rs uint8, imm4 uint8) Code {
	return Code(uint16(imm4&0xf)<<12 | uint16(rs&0xf)<<8 | uint16(rd&0xf)<<4 | uint16(op&0xf))
}

// CodeAt fetches the instruction word at byte offset pc. The caller checks
// that pc+INSTRUCTION_LENGTH is within the program.
func CodeAt(program []byte, pc int) Code {
	return Code(binary.LittleEndian.Uint16(program[pc:]))
}

// Bytes returns the wire encoding of the instruction.
func (code Code) Bytes() (out [INSTRUCTION_LENGTH]byte) {
	binary.LittleEndian.PutUint16(out[:], uint16(code))
	return
}

// Op returns the opcode.
func (code Code) Op() Op {
	return Op(code & 0xf)
}

// ImmDecode decodes the SHAPE_IMM view.
func (code Code) ImmDecode() (op Op, imm12 uint16) {
	word := uint16(code)
	op = Op(word & 0xf)
	imm12 = (word >> 4) & 0xfff
	return
}

// RegImmDecode decodes the SHAPE_REG_IMM view.
func (code Code) RegImmDecode() (op Op, rd uint8, imm8 uint8) {
	word := uint16(code)
	op = Op(word & 0xf)
	rd = uint8((word >> 4) & 0xf)
	imm8 = uint8((word >> 8) & 0xff)
	return
}

// RegRegImmDecode decodes the SHAPE_REG_REG_IMM view.
func (code Code) RegRegImmDecode() (op Op, rd, rs uint8, imm4 uint8) {
	word := uint16(code)
	op = Op(word & 0xf)
	rd = uint8((word >> 4) & 0xf)
	rs = uint8((word >> 8) & 0xf)
	imm4 = uint8((word >> 12) & 0xf)
	return
}

// Decoded holds every field view of an instruction word at once. The
// executing opcode selects which of them it reads.
type Decoded struct {
	Op    Op     // Opcode.
	Rd    uint8  // Destination register (SHAPE_REG_IMM, SHAPE_REG_REG_IMM).
	Rs    uint8  // Source register (SHAPE_REG_REG_IMM).
	Imm4  uint8  // Immediate of SHAPE_REG_REG_IMM.
	Imm8  uint8  // Immediate of SHAPE_REG_IMM.
	Imm12 uint16 // Immediate of SHAPE_IMM.
}

// Decode splits the word into all of its field views.
func (code Code) Decode() (dec Decoded) {
	dec.Op, dec.Imm12 = code.ImmDecode()
	_, dec.Rd, dec.Imm8 = code.RegImmDecode()
	_, _, dec.Rs, dec.Imm4 = code.RegRegImmDecode()
	return
}

// Code re-encodes the decoded fields.
func (dec Decoded) Code() Code {
	return MakeCodeRegRegImm(dec.Op, dec.Rd, dec.Rs, dec.Imm4)
}

// IsRawDump reports whether the instruction introduces a raw-data block.
// This is the only place the block marker is recognized.
func (dec Decoded) IsRawDump() bool {
	return dec.Op == OP_NOP && dec.Imm12 == RAW_DUMP
}

// IsRawDump reports whether the instruction introduces a raw-data block.
func (code Code) IsRawDump() bool {
	return code.Decode().IsRawDump()
}

// String returns the assembly language representation of the instruction.
func (dec Decoded) String() (str string) {
	switch dec.Op {
	case OP_NOP:
		if dec.IsRawDump() {
			str = ".data"
		} else {
			str = fmt.Sprintf("%v %d", dec.Op, dec.Imm12)
		}
	case OP_SYSCALL:
		str = fmt.Sprintf("%v %d", dec.Op, dec.Imm12)
	case OP_MOV_REG_IMM, OP_JMP:
		str = fmt.Sprintf("%v r%d, %d", dec.Op, dec.Rd, dec.Imm8)
	case OP_NOT:
		str = fmt.Sprintf("%v r%d", dec.Op, dec.Rd)
	case OP_LD_REG_MEM:
		str = fmt.Sprintf("%v r%d, [r%d], %d", dec.Op, dec.Rd, dec.Rs, dec.Imm4)
	case OP_ST_MEM_REG:
		str = fmt.Sprintf("%v [r%d], r%d, %d", dec.Op, dec.Rd, dec.Rs, dec.Imm4)
	case OP_AND, OP_OR, OP_XOR:
		str = fmt.Sprintf("%v r%d, r%d", dec.Op, dec.Rd, dec.Rs)
	case OP_MOV_REG_REG_SHR, OP_MOV_REG_REG_SHL, OP_MOV_REG_REG_ADD,
		OP_ADD, OP_SUB, OP_JZ:
		str = fmt.Sprintf("%v r%d, r%d, %d", dec.Op, dec.Rd, dec.Rs, dec.Imm4)
	default:
		code := dec.Code().Bytes()
		str = fmt.Sprintf("DB 0x%02X%02X", code[0], code[1])
	}

	return
}

// String returns the assembly language representation of the instruction.
func (code Code) String() string {
	return code.Decode().String()
}
