package emulator

import (
	"errors"
	"fmt"

	"github.com/ezrec/misc/io"
)

// Syscall services one syscall request. The machine is paused on the
// instruction after the SYSCALL, and resumes there when the Syscall returns
// nil.
type Syscall func(emu *Emulator) error

const (
	SYS_EXIT = uint8(0) // Stop with exit code r0.
	SYS_PUTC = uint8(1) // Write r0 to the tape.
	SYS_GETC = uint8(2) // Read r0 from the tape; 0xff at end of tape.
)

var _syscall_defines = map[string]string{
	"SYS_EXIT": fmt.Sprintf("%d", SYS_EXIT),
	"SYS_PUTC": fmt.Sprintf("%d", SYS_PUTC),
	"SYS_GETC": fmt.Sprintf("%d", SYS_GETC),
}

// DefaultSyscalls returns a new table of the console syscalls.
func DefaultSyscalls() map[uint8]Syscall {
	return map[uint8]Syscall{
		SYS_EXIT: sysExit,
		SYS_PUTC: sysPutc,
		SYS_GETC: sysGetc,
	}
}

func sysExit(emu *Emulator) error {
	return ErrExit{Code: emu.Register[0]}
}

func sysPutc(emu *Emulator) error {
	return emu.Tape.Putc(emu.Register[0])
}

func sysGetc(emu *Emulator) (err error) {
	value, err := emu.Tape.Getc()
	if errors.Is(err, io.ErrTapeEnd) {
		value = 0xff
		err = nil
	}
	if err != nil {
		return
	}

	emu.Register[0] = value
	return
}
