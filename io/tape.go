// Package io provides the byte tape that MISC console syscalls read and
// write.
package io

import (
	"bytes"
	"errors"
	"io"
)

// Tape provides sequential byte I/O over an io.Reader for input and an
// io.Writer for output. Either may be nil: a tape without input is always
// at its end, and a tape without output discards writes.
type Tape struct {
	Input   io.Reader
	Output  io.Writer
	Capture bool // If set, keeps a copy of everything written.

	captured bytes.Buffer
}

// Rewind discards captured output, and seeks the input back to its start
// when the input supports it.
func (tc *Tape) Rewind() {
	tc.captured.Reset()
	if seeker, ok := tc.Input.(io.Seeker); ok {
		_, _ = seeker.Seek(0, io.SeekStart)
	}
}

// Getc reads one byte from the input stream.
func (tc *Tape) Getc() (value byte, err error) {
	if tc.Input == nil {
		err = ErrTapeEnd
		return
	}

	var one [1]byte
	for {
		var n int
		n, err = tc.Input.Read(one[:])
		if n == 1 {
			return one[0], nil
		}
		if errors.Is(err, io.EOF) {
			err = ErrTapeEnd
			return
		}
		if err != nil {
			return
		}
	}
}

// Putc writes one byte to the output stream.
func (tc *Tape) Putc(value byte) (err error) {
	if tc.Capture {
		tc.captured.WriteByte(value)
	}

	if tc.Output == nil {
		return
	}

	_, err = tc.Output.Write([]byte{value})
	if err != nil {
		err = errors.Join(ErrTapeWrite, err)
	}

	return
}

// Captured returns everything written since the last Rewind, if Capture
// is set.
func (tc *Tape) Captured() string {
	return tc.captured.String()
}
