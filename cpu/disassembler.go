package cpu

import (
	"io"
	"strings"

	"github.com/ezrec/misc/internal"
)

// Disassemble returns the listing of a program, one line per instruction.
//
// Raw-data blocks are listed as a .data line followed by one byte line per
// (address, value) pair. Bytes that do not form an instruction are listed
// as DB literals. Disassemble never fails.
func Disassemble(program []byte) string {
	var sb strings.Builder

	// strings.Builder never returns a write error.
	_ = DisassembleTo(&sb, program)

	return sb.String()
}

// DisassembleTo writes the listing of a program to w, returning the first
// write error.
func DisassembleTo(w io.Writer, program []byte) error {
	ls := internal.NewListing(w)

	pc := 0
	for pc < len(program) && ls.Err == nil {
		if pc+INSTRUCTION_LENGTH > len(program) {
			ls.Line(pc, "DB 0x%02X", program[pc])
			break
		}

		code := CodeAt(program, pc)
		ls.Line(pc, "%v", code)
		block := pc
		pc += INSTRUCTION_LENGTH

		if !code.IsRawDump() {
			continue
		}

		for pc+2 <= len(program) {
			addr := program[pc]
			val := program[pc+1]
			pc += 2
			if addr == 0 && val == 0 {
				break
			}
			ls.Cont(block, "byte %d, %d", addr, val)
		}
	}

	return ls.Err
}
