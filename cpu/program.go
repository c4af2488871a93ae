package cpu

import (
	"encoding/hex"
	"iter"
	"strings"
)

// Opcode is a line of assembled code with its source location.
type Opcode struct {
	LineNo int      // Source line.
	Pc     int      // Byte offset of the instruction in the binary.
	Words  []string // Mnemonic followed by its operands, as written.
	Code   Code     // Encoded instruction.
}

// Datum is one (address, value) pair of the raw-data block.
type Datum struct {
	LineNo  int
	Address uint8
	Value   uint8
}

// Program is the output of the Assembler.
type Program struct {
	Data    []Datum  // Memory preload, emitted as a raw-data block.
	Opcodes []Opcode // Instructions, in program order.
}

// Debug locates the opcode at a program counter.
type Debug struct {
	*Opcode
}

// DataLength returns the size in bytes of the raw-data block, including
// its marker and terminator. It is zero when there is no data.
func (prog *Program) DataLength() int {
	if len(prog.Data) == 0 {
		return 0
	}

	return INSTRUCTION_LENGTH + 2*len(prog.Data) + 2
}

// Debug finds the opcode whose instruction starts at pc.
func (prog *Program) Debug(pc uint16) (dbg Debug) {
	for n, op := range prog.Opcodes {
		if int(pc) == op.Pc {
			dbg = Debug{
				Opcode: &prog.Opcodes[n],
			}
			break
		}
	}

	return
}

// Codes iterates over the instructions and their byte offsets.
func (prog *Program) Codes() iter.Seq2[uint16, Code] {
	return func(yield func(pc uint16, code Code) bool) {
		for _, op := range prog.Opcodes {
			if !yield(uint16(op.Pc), op.Code) {
				return
			}
		}
	}
}

// Binary returns the machine code of the program.
func (prog *Program) Binary() (bin []byte) {
	bin = make([]byte, 0, prog.DataLength()+INSTRUCTION_LENGTH*len(prog.Opcodes))

	if len(prog.Data) != 0 {
		marker := MakeCodeImm(OP_NOP, RAW_DUMP).Bytes()
		bin = append(bin, marker[:]...)
		for _, datum := range prog.Data {
			bin = append(bin, datum.Address, datum.Value)
		}
		bin = append(bin, 0, 0)
	}

	for _, code := range prog.Codes() {
		word := code.Bytes()
		bin = append(bin, word[:]...)
	}

	return
}

// ParseHex decodes a program written as hex digits. Whitespace is ignored,
// and '#' starts a comment that runs to the end of the line.
func ParseHex(text string) (bin []byte, err error) {
	var digits strings.Builder

	for line := range strings.Lines(text) {
		line, _, _ = strings.Cut(line, "#")
		for _, word := range strings.Fields(line) {
			digits.WriteString(word)
		}
	}

	if digits.Len()%2 != 0 {
		err = ErrHexOdd
		return
	}

	bin, err = hex.DecodeString(digits.String())
	return
}
