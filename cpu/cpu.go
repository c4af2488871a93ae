package cpu

import (
	"fmt"
	"iter"
	"maps"
	"strings"
)

const (
	REGISTER_COUNT = 16 // General purpose registers.
	PC_REG         = 15 // Register mirroring the low byte of the PC; write protected.
	MEMORY_SIZE    = 64 // Bytes of data memory.
)

var _cpu_defines = map[string]string{
	"REGISTER_COUNT": fmt.Sprintf("%d", REGISTER_COUNT),
	"PC_REG":         fmt.Sprintf("%d", PC_REG),
	"MEMORY_SIZE":    fmt.Sprintf("%d", MEMORY_SIZE),
	"RAW_DUMP":       fmt.Sprintf("0x%x", RAW_DUMP),
}

// Defines returns the machine constants as assembler equates.
func Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// State is the complete machine state. The host owns it; Run borrows it
// for the duration of a call.
type State struct {
	Pc        uint16                // Program counter, a byte offset into the program.
	Register  [REGISTER_COUNT]uint8 // Register bank.
	Memory    [MEMORY_SIZE]uint8    // Data memory.
	Interrupt Interrupt             // Reason the last Run returned.
	Flags     uint8                 // Arithmetic status. Not computed by any opcode.
	Steps     uint32                // Instructions retired since creation.

	// Pending is the instruction fetched, but not yet executed, when
	// Interrupt is INTERRUPT_DEBUG.
	Pending Decoded
}

// NewState creates a machine ready for its first Run.
func NewState() (st *State) {
	st = &State{}
	st.Reset()
	return
}

// Reset clears the machine to its initial state.
func (st *State) Reset() {
	*st = State{Interrupt: INTERRUPT_NONE}
}

// resumePoint selects where Run continues from.
type resumePoint int

const (
	RESUME_TERMINAL = resumePoint(iota) // Fatal interrupt; no further execution.
	RESUME_FETCH                        // Fresh start, or a serviced syscall.
	RESUME_EXECUTE                      // Pending instruction after a debug pause.
)

func (st *State) resumePoint() resumePoint {
	switch {
	case st.Interrupt.Fatal():
		return RESUME_TERMINAL
	case st.Interrupt.Debug():
		return RESUME_EXECUTE
	default:
		return RESUME_FETCH
	}
}

// Run executes the program until a syscall, a debug pause, the step budget
// or a fatal error. The outcome is left in st.Interrupt.
//
// With debug set, each call fetches one instruction and pauses before
// executing it with INTERRUPT_DEBUG. The next call executes it; if still
// stepping, that call returns as soon as the instruction retires, so N
// instructions take 2N calls. maxSteps bounds the cumulative st.Steps.
func (st *State) Run(program []byte, maxSteps uint32, debug bool) {
	switch st.resumePoint() {
	case RESUME_TERMINAL:
		return
	case RESUME_EXECUTE:
		st.Interrupt = INTERRUPT_NONE
		st.execute(program, st.Pending.Code().Decode())
		if debug {
			return
		}
	case RESUME_FETCH:
		st.Interrupt = INTERRUPT_NONE
	}

	for st.Steps < maxSteps && st.Interrupt == INTERRUPT_NONE {
		if int(st.Pc)+INSTRUCTION_LENGTH > len(program) {
			st.Interrupt = INTERRUPT_ILLEGAL_PC
			return
		}

		dec := CodeAt(program, int(st.Pc)).Decode()

		if debug {
			st.Pending = dec
			st.Interrupt = INTERRUPT_DEBUG
			return
		}

		st.execute(program, dec)
	}

	if st.Interrupt == INTERRUPT_NONE {
		st.Interrupt = INTERRUPT_MAX_STEPS
	}
}

// jump sets the PC and its mirror register.
func (st *State) jump(pc uint16) {
	st.Pc = pc
	st.Register[PC_REG] = uint8(pc)
}

// rawDump copies (address, value) pairs from the program into memory, up
// to the (0, 0) terminator or the end of the program.
func (st *State) rawDump(program []byte) {
	for int(st.Pc)+2 <= len(program) {
		addr := program[st.Pc]
		val := program[st.Pc+1]
		st.jump(st.Pc + 2)
		if addr == 0 && val == 0 {
			return
		}
		if int(addr) >= MEMORY_SIZE {
			st.Interrupt = INTERRUPT_MEMORY_ACCESS
			return
		}
		st.Memory[addr] = val
	}
}

// execute retires one decoded instruction fetched from st.Pc.
func (st *State) execute(program []byte, dec Decoded) {
	st.jump(st.Pc + INSTRUCTION_LENGTH)
	st.Steps++

	if dec.IsRawDump() {
		st.rawDump(program)
		return
	}

	if dec.Rd == PC_REG {
		st.Interrupt = INTERRUPT_PROTECTED_REG
		return
	}

	reg := &st.Register

	switch dec.Op {
	case OP_NOP:
		// pass
	case OP_SYSCALL:
		st.Interrupt = Interrupt(dec.Imm12 & 0xff)
	case OP_MOV_REG_IMM:
		reg[dec.Rd] = dec.Imm8
	case OP_MOV_REG_REG_SHR:
		reg[dec.Rd] = reg[dec.Rs] >> dec.Imm4
	case OP_MOV_REG_REG_SHL:
		reg[dec.Rd] = reg[dec.Rs] << dec.Imm4
	case OP_MOV_REG_REG_ADD:
		reg[dec.Rd] = reg[dec.Rs] + dec.Imm4*2
	case OP_LD_REG_MEM:
		addr := uint16(reg[dec.Rs]) + uint16(dec.Imm4)
		if addr >= MEMORY_SIZE {
			st.Interrupt = INTERRUPT_MEMORY_ACCESS
			return
		}
		reg[dec.Rd] = st.Memory[addr]
	case OP_ST_MEM_REG:
		addr := uint16(reg[dec.Rs]) + uint16(dec.Imm4)
		if addr >= MEMORY_SIZE {
			st.Interrupt = INTERRUPT_MEMORY_ACCESS
			return
		}
		st.Memory[addr] = reg[dec.Rd]
	case OP_ADD:
		// Signed, wrapping. Flags are not updated.
		res := int16(int8(reg[dec.Rd])) + int16(int8(reg[dec.Rs])) + int16(dec.Imm4)
		reg[dec.Rd] = uint8(res)
	case OP_SUB:
		res := int16(int8(reg[dec.Rd])) - int16(int8(reg[dec.Rs])) - int16(dec.Imm4)
		reg[dec.Rd] = uint8(res)
	case OP_AND:
		reg[dec.Rd] &= reg[dec.Rs]
	case OP_OR:
		reg[dec.Rd] |= reg[dec.Rs]
	case OP_XOR:
		reg[dec.Rd] ^= reg[dec.Rs]
	case OP_NOT:
		reg[dec.Rd] = ^reg[dec.Rd]
	case OP_JMP:
		st.jump(uint16(reg[dec.Rd]) + uint16(dec.Imm8))
	case OP_JZ:
		if reg[dec.Rd] == 0 {
			st.jump(uint16(reg[dec.Rs]) + uint16(dec.Imm4))
		}
	default:
		st.Interrupt = INTERRUPT_UNKNOWN_OPCODE
	}
}

// String returns the machine state as a multi-line report.
func (st *State) String() (text string) {
	var sb strings.Builder

	fmt.Fprintf(&sb, "   pc: 0x%04x\n", st.Pc)
	fmt.Fprintf(&sb, "  irq: %d (%v)\n", int16(st.Interrupt), st.Interrupt)
	fmt.Fprintf(&sb, "steps: %d\n", st.Steps)
	for n, val := range st.Register {
		fmt.Fprintf(&sb, "% 5s: 0x%02x %v\n", fmt.Sprintf("r%d", n), val, val)
	}
	if st.Interrupt.Debug() {
		fmt.Fprintf(&sb, " next: %v\n", st.Pending)
	}
	for row := 0; row < MEMORY_SIZE; row += 8 {
		chunk := st.Memory[row : row+8]
		fmt.Fprintf(&sb, "   %02x:", row)
		for _, val := range chunk {
			fmt.Fprintf(&sb, " %02x", val)
		}
		sb.WriteString("  |")
		for _, val := range chunk {
			if val >= 0x20 && val <= 0x7e {
				sb.WriteByte(val)
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteString("|\n")
	}

	return sb.String()
}
