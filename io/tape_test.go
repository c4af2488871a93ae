package io

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTape_Getc(t *testing.T) {
	assert := assert.New(t)

	tape := &Tape{Input: strings.NewReader("hi")}

	value, err := tape.Getc()
	assert.NoError(err)
	assert.Equal(byte('h'), value)

	value, err = tape.Getc()
	assert.NoError(err)
	assert.Equal(byte('i'), value)

	_, err = tape.Getc()
	assert.ErrorIs(err, ErrTapeEnd)

	tape.Rewind()
	value, err = tape.Getc()
	assert.NoError(err)
	assert.Equal(byte('h'), value)
}

func TestTape_Getc_NoInput(t *testing.T) {
	assert := assert.New(t)

	tape := &Tape{}
	_, err := tape.Getc()
	assert.ErrorIs(err, ErrTapeEnd)
}

func TestTape_Putc(t *testing.T) {
	assert := assert.New(t)

	var out bytes.Buffer
	tape := &Tape{Output: &out, Capture: true}

	for _, c := range []byte("ok\n") {
		assert.NoError(tape.Putc(c))
	}

	assert.Equal("ok\n", out.String())
	assert.Equal("ok\n", tape.Captured())

	tape.Rewind()
	assert.Equal("", tape.Captured())
	assert.Equal("ok\n", out.String())
}

func TestTape_Putc_Discard(t *testing.T) {
	assert := assert.New(t)

	tape := &Tape{}
	assert.NoError(tape.Putc('x'))
	assert.Equal("", tape.Captured())
}

type brokenWriter struct{}

var errBroken = errors.New("broken")

func (brokenWriter) Write(p []byte) (int, error) {
	return 0, errBroken
}

func TestTape_Putc_Error(t *testing.T) {
	assert := assert.New(t)

	tape := &Tape{Output: brokenWriter{}}
	err := tape.Putc('x')
	assert.ErrorIs(err, ErrTapeWrite)
	assert.ErrorIs(err, errBroken)
}
