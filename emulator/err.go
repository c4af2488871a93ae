package emulator

import (
	"github.com/ezrec/misc/translate"
)

var f = translate.From

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	LineNo int
	Err    error
}

func (err *ErrRuntime) Error() string {
	return f("line %d %v", err.LineNo, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}

// ErrExit is returned by the SYS_EXIT syscall to stop the machine.
type ErrExit struct {
	Code uint8
}

func (err ErrExit) Error() string {
	return f("exit %d", err.Code)
}

// ErrSyscall is an unknown syscall id.
type ErrSyscall uint8

func (err ErrSyscall) Error() string {
	return f("unknown syscall %d", uint8(err))
}
