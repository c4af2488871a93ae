// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/misc/cpu"
	"github.com/ezrec/misc/internal"
	"github.com/ezrec/misc/io"
)

const (
	DEFAULT_MAX_STEPS = 1 << 24 // Default instruction budget of a run.
)

var _emulator_defines = map[string]string{
	"DEFAULT_MAX_STEPS": fmt.Sprintf("%v", DEFAULT_MAX_STEPS),
}

// Emulator state. Machine + program + syscalls + console tape.
type Emulator struct {
	Verbose    bool         // If set, enables verbose logging.
	*cpu.State              // Machine state.
	Program    *cpu.Program // Listing of the loaded program, if assembled.
	Binary     []byte       // Machine code being run.
	MaxSteps   uint32       // Instruction budget, counted from Reset.

	Syscall map[uint8]Syscall // Syscall table.
	Tape    io.Tape           // Console tape for SYS_PUTC and SYS_GETC.
}

// Result describes how a run ended.
type Result struct {
	Halted   bool   // True if the machine stopped without SYS_EXIT.
	Err      error  // Reason for a halt.
	ExitCode int    // Exit code from SYS_EXIT.
	Steps    uint32 // Instructions retired since Reset.
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		State:    cpu.NewState(),
		Program:  &cpu.Program{},
		MaxSteps: DEFAULT_MAX_STEPS,
		Syscall:  DefaultSyscalls(),
	}

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.Concat2(maps.All(_emulator_defines),
		cpu.Defines(),
		maps.All(_syscall_defines),
	)
}

// Load a machine code program, and reset.
func (emu *Emulator) Load(binary []byte) {
	emu.Program = &cpu.Program{}
	emu.Binary = binary
	emu.Reset()
}

// LoadProgram loads an assembled program, and resets.
func (emu *Emulator) LoadProgram(prog *cpu.Program) {
	emu.Program = prog
	emu.Binary = prog.Binary()
	emu.Reset()
}

// Reset the machine and rewind the tape.
func (emu *Emulator) Reset() {
	emu.State.Reset()
	emu.Tape.Rewind()
}

// lineAt returns the source line of the instruction at pc, or 0.
func (emu *Emulator) lineAt(pc uint16) int {
	dbg := emu.Program.Debug(pc)
	if dbg.Opcode == nil {
		return 0
	}

	return dbg.LineNo
}

// LineNo returns the source line of the next instruction to execute.
func (emu *Emulator) LineNo() int {
	return emu.lineAt(emu.Pc)
}

// faultLineNo returns the source line of the instruction that raised the
// current interrupt.
func (emu *Emulator) faultLineNo() int {
	switch emu.Interrupt {
	case cpu.INTERRUPT_ILLEGAL_PC, cpu.INTERRUPT_MAX_STEPS:
		return emu.lineAt(emu.Pc)
	default:
		return emu.lineAt(emu.Pc - cpu.INSTRUCTION_LENGTH)
	}
}

// service handles a pending syscall request, if any.
func (emu *Emulator) service() (err error) {
	id, ok := emu.Interrupt.Syscall()
	if !ok {
		return
	}

	if emu.Verbose {
		log.Printf("syscall %d: r0=%#02x", id, emu.Register[0])
	}

	call, ok := emu.Syscall[id]
	if !ok {
		err = ErrSyscall(id)
	} else {
		err = call(emu)
	}

	var exit ErrExit
	if err != nil && !errors.As(err, &exit) {
		err = &ErrRuntime{LineNo: emu.faultLineNo(), Err: err}
	}

	return
}

// check converts a fatal interrupt into a runtime error.
func (emu *Emulator) check() (err error) {
	if !emu.Interrupt.Fatal() {
		return
	}

	if emu.Verbose {
		log.Printf("%v", emu.State)
	}

	return &ErrRuntime{LineNo: emu.faultLineNo(), Err: emu.Interrupt.Err()}
}

// Run the program until SYS_EXIT, a fatal interrupt, or a syscall failure.
func (emu *Emulator) Run() (result Result) {
	defer func() {
		result.Steps = emu.Steps
	}()

	for {
		emu.State.Run(emu.Binary, emu.MaxSteps, false)

		if emu.Verbose {
			log.Printf("%04x: %v (steps %d)", emu.Pc, emu.Interrupt, emu.Steps)
		}

		err := emu.check()
		if err == nil {
			err = emu.service()
		}

		var exit ErrExit
		if errors.As(err, &exit) {
			result.ExitCode = int(exit.Code)
			return
		}

		if err != nil {
			result.Halted = true
			result.Err = err
			return
		}
	}
}

// Debug single-steps the program. Each iteration yields the next
// instruction to execute, before it runs. The sequence ends with the error
// that stopped the machine; a graceful stop yields an ErrExit.
func (emu *Emulator) Debug() iter.Seq2[cpu.Decoded, error] {
	return func(yield func(dec cpu.Decoded, err error) bool) {
		for {
			emu.State.Run(emu.Binary, emu.MaxSteps, true)

			if emu.Interrupt.Debug() {
				if emu.Verbose {
					log.Printf("%04x: %v", emu.Pc, emu.Pending)
				}
				if !yield(emu.Pending, nil) {
					return
				}
				continue
			}

			err := emu.check()
			if err == nil {
				err = emu.service()
			}

			if err != nil {
				yield(emu.Pending, err)
				return
			}
		}
	}
}
