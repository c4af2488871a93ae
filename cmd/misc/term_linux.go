//go:build linux

package main

import (
	"os"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// setRawIO switches a terminal to unbuffered input without echo, so
// SYS_GETC sees each key as it is pressed. The returned function restores
// the terminal.
func setRawIO(f *os.File) (func(), error) {
	fd := int(f.Fd())

	termios, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		return nil, errors.Wrap(err, "TCGETS failed")
	}

	termRestore := *termios
	termstate := *termios

	termstate.Iflag &^= unix.IGNBRK | unix.INLCR | unix.ISTRIP | unix.IXON
	termstate.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.IEXTEN
	termstate.Cflag &^= unix.CSIZE | unix.PARENB
	termstate.Cflag |= unix.CS8

	termstate.Cc[unix.VMIN] = 1
	termstate.Cc[unix.VTIME] = 0

	err = unix.IoctlSetTermios(fd, unix.TCSETS, &termstate)
	if err != nil {
		return nil, errors.Wrap(err, "TCSETS failed")
	}

	return func() {
		_ = unix.IoctlSetTermios(fd, unix.TCSETS, &termRestore)
	}, nil
}
