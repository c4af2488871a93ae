package cpu

import (
	"errors"

	"github.com/ezrec/misc/translate"
)

var f = translate.From

var (
	// Machine errors, one per fatal interrupt.
	ErrMaxSteps          = errors.New(f("runtime limit exceeded"))
	ErrIllegalPc         = errors.New(f("illegal pc access"))
	ErrProtectedRegister = errors.New(f("protected register write attempt"))
	ErrUnknownOpcode     = errors.New(f("unknown opcode"))
	ErrMemoryAccess      = errors.New(f("illegal memory access"))
	ErrInterrupt         = errors.New(f("unknown interrupt"))

	// Assembler errors
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrDataSyntax         = errors.New(f(".data syntax"))
	ErrOpcodeExtraArgs    = errors.New(f("excessive arguments"))
	ErrOpcodeValueMissing = errors.New(f("value missing"))
	ErrHexOdd             = errors.New(f("hex program has an odd number of digits"))
)

// ErrMnemonic is returned by Assemble for an unknown instruction name.
type ErrMnemonic string

func (em ErrMnemonic) Error() string {
	return f("invalid mnemonic: %v", string(em))
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseCharacter string

func (err ErrParseCharacter) Error() string {
	return f("'%v' is not a character literal", string(err))
}

type ErrParseString string

func (err ErrParseString) Error() string {
	return f("%v is not a string literal", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}
