package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ezrec/misc/emulator"
)

const debugHelp = "s)tep, r)egisters, c)ontinue, q)uit"

// debug single steps the emulator, reading one command per line from
// commands. An empty line steps. At the end of commands the program
// continues to completion.
func debug(emu *emulator.Emulator, commands io.Reader, out io.Writer) (code int, err error) {
	scanner := bufio.NewScanner(commands)
	stepping := true

	for dec, derr := range emu.Debug() {
		if derr != nil {
			var exit emulator.ErrExit
			if errors.As(derr, &exit) {
				fmt.Fprintf(out, "exit %d after %d steps\n", exit.Code, emu.Steps)
				return int(exit.Code), nil
			}
			fmt.Fprint(out, emu.State)
			return 0, derr
		}

		if !stepping {
			continue
		}

		fmt.Fprintf(out, "%04x: %-28v ; line %d\n", emu.Pc, dec, emu.LineNo())

	prompt:
		for {
			fmt.Fprintf(out, "(%s)> ", debugHelp)
			if !scanner.Scan() {
				stepping = false
				break
			}
			switch strings.TrimSpace(scanner.Text()) {
			case "", "s":
				break prompt
			case "r":
				fmt.Fprint(out, emu.State)
			case "c":
				stepping = false
				break prompt
			case "q":
				return 0, nil
			default:
				fmt.Fprintln(out, debugHelp)
			}
		}
	}

	return
}
