package cpu

import (
	"fmt"
)

// Interrupt is the condition code through which Run reports why it
// returned, and through which the host tells Run how to resume.
//
// Values 0 through 255 are syscall ids. INTERRUPT_NONE and INTERRUPT_DEBUG
// are resumable, as is a syscall id once serviced. All other negative
// values are fatal.
type Interrupt int16

const (
	INTERRUPT_NONE           = Interrupt(-1)
	INTERRUPT_MAX_STEPS      = Interrupt(-2)
	INTERRUPT_ILLEGAL_PC     = Interrupt(-3)
	INTERRUPT_PROTECTED_REG  = Interrupt(-4)
	INTERRUPT_UNKNOWN_OPCODE = Interrupt(-5)
	INTERRUPT_MEMORY_ACCESS  = Interrupt(-6)
	INTERRUPT_DEBUG          = Interrupt(0x7fff)
)

// Fatal returns true if the machine cannot be resumed.
func (irq Interrupt) Fatal() bool {
	return irq < INTERRUPT_NONE
}

// Debug returns true for a single-step pause.
func (irq Interrupt) Debug() bool {
	return irq == INTERRUPT_DEBUG
}

// Syscall returns the syscall id, if the interrupt is a syscall request.
func (irq Interrupt) Syscall() (id uint8, ok bool) {
	if irq < 0 || irq > 0xff {
		return
	}

	return uint8(irq), true
}

// Err returns the error for a fatal interrupt, or nil.
func (irq Interrupt) Err() (err error) {
	switch irq {
	case INTERRUPT_MAX_STEPS:
		err = ErrMaxSteps
	case INTERRUPT_ILLEGAL_PC:
		err = ErrIllegalPc
	case INTERRUPT_PROTECTED_REG:
		err = ErrProtectedRegister
	case INTERRUPT_UNKNOWN_OPCODE:
		err = ErrUnknownOpcode
	case INTERRUPT_MEMORY_ACCESS:
		err = ErrMemoryAccess
	default:
		if irq.Fatal() {
			err = ErrInterrupt
		}
	}

	return
}

func (irq Interrupt) String() string {
	switch irq {
	case INTERRUPT_NONE:
		return "none"
	case INTERRUPT_DEBUG:
		return "debug"
	}

	if id, ok := irq.Syscall(); ok {
		return fmt.Sprintf("syscall %d", id)
	}

	if err := irq.Err(); err != nil {
		return err.Error()
	}

	return fmt.Sprintf("Interrupt(%d)", int16(irq))
}
