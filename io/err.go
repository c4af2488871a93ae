package io

import (
	"errors"

	"github.com/ezrec/misc/translate"
)

var f = translate.From

var (
	// Tape errors
	ErrTapeEnd   = errors.New(f("end of tape"))
	ErrTapeWrite = errors.New(f("tape write failed"))
)
