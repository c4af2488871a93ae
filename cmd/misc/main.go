// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/ezrec/misc/cpu"
	"github.com/ezrec/misc/emulator"
)

// options holds the command line.
type options struct {
	compile  string
	hex      string
	demo     bool
	binary   string
	save     bool
	list     bool
	debug    bool
	input    string
	output   string
	maxSteps uint
	verbose  bool
	args     []string
}

var errNoProgram = errors.New("no program: use -c, -x, -demo or a program file")
var errManyPrograms = errors.New("only one program source may be given")

func main() {
	var opt options

	flag.StringVar(&opt.compile, "c", "", ".asm file to assemble")
	flag.StringVar(&opt.hex, "x", "", "Program as hex digits")
	flag.BoolVar(&opt.demo, "demo", false, "Run the demo program")
	flag.StringVar(&opt.binary, "b", "", "Write the machine code to a file")
	flag.BoolVar(&opt.save, "s", false, "Save machine code only, do not execute")
	flag.BoolVar(&opt.list, "l", false, "List the disassembled program, do not execute")
	flag.BoolVar(&opt.debug, "g", false, "Single step the program; commands are read from stdin")
	flag.StringVar(&opt.input, "i", "-", "Tape input (ignored as - with -g)")
	flag.StringVar(&opt.output, "o", "-", "Tape output")
	flag.UintVar(&opt.maxSteps, "n", emulator.DEFAULT_MAX_STEPS, "Maximum instructions to execute")
	flag.BoolVar(&opt.verbose, "v", false, "Verbose mode")

	flag.Parse()
	opt.args = flag.Args()

	log.SetFlags(0)
	log.SetPrefix(filepath.Base(os.Args[0]) + ": ")

	code, err := run(&opt)
	if err != nil {
		log.Fatal(err)
	}

	os.Exit(code)
}

// readProgram reads a program file. Files ending in .hex are in hex
// program format, anything else is raw machine code.
func readProgram(path string) (bin []byte, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read failed")
	}

	if strings.HasSuffix(path, ".hex") {
		bin, err = cpu.ParseHex(string(data))
		if err != nil {
			return nil, errors.Wrap(err, path)
		}
		return bin, nil
	}

	return data, nil
}

// assemble compiles a source file with the emulator's defines.
func assemble(emu *emulator.Emulator, path string, verbose bool) (prog *cpu.Program, err error) {
	inf, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open failed")
	}
	defer inf.Close()

	asm := &cpu.Assembler{Verbose: verbose}
	for key, value := range emu.Defines() {
		asm.Predefine(key, value)
	}

	prog, err = asm.Parse(inf)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}

	return prog, nil
}

// load puts the selected program into the emulator.
func load(emu *emulator.Emulator, opt *options) error {
	sources := len(opt.args)
	for _, given := range []bool{len(opt.compile) != 0, len(opt.hex) != 0, opt.demo} {
		if given {
			sources++
		}
	}
	switch {
	case sources == 0:
		return errNoProgram
	case sources > 1:
		return errManyPrograms
	}

	switch {
	case len(opt.compile) != 0:
		prog, err := assemble(emu, opt.compile, opt.verbose)
		if err != nil {
			return err
		}
		emu.LoadProgram(prog)
	case len(opt.hex) != 0:
		bin, err := cpu.ParseHex(opt.hex)
		if err != nil {
			return errors.Wrap(err, "-x")
		}
		emu.Load(bin)
	case opt.demo:
		bin, err := cpu.ParseHex(emulator.DEMO_PROGRAM)
		if err != nil {
			return errors.Wrap(err, "demo")
		}
		emu.Load(bin)
	default:
		bin, err := readProgram(opt.args[0])
		if err != nil {
			return err
		}
		emu.Load(bin)
	}

	return nil
}

// run executes the command line, returning the program's exit code.
func run(opt *options) (code int, err error) {
	emu := emulator.NewEmulator()
	emu.Verbose = opt.verbose
	emu.MaxSteps = uint32(opt.maxSteps)

	err = load(emu, opt)
	if err != nil {
		return
	}

	if len(opt.binary) != 0 {
		err = os.WriteFile(opt.binary, emu.Binary, 0o644)
		if err != nil {
			err = errors.Wrap(err, "write failed")
			return
		}
	}

	if opt.list {
		err = cpu.DisassembleTo(os.Stdout, emu.Binary)
		return
	}

	if opt.save {
		return
	}

	switch {
	case opt.input == "-" && opt.debug:
		// stdin carries debugger commands.
	case opt.input == "-":
		emu.Tape.Input = os.Stdin
		restore, rerr := setRawIO(os.Stdin)
		if rerr != nil {
			if opt.verbose {
				log.Printf("stdin: %v", rerr)
			}
		} else {
			defer restore()
		}
	default:
		inf, oerr := os.Open(opt.input)
		if oerr != nil {
			err = errors.Wrap(oerr, "tape input")
			return
		}
		defer inf.Close()
		emu.Tape.Input = inf
	}

	if opt.output == "-" {
		emu.Tape.Output = os.Stdout
	} else {
		ouf, cerr := os.Create(opt.output)
		if cerr != nil {
			err = errors.Wrap(cerr, "tape output")
			return
		}
		defer ouf.Close()
		emu.Tape.Output = ouf
	}

	if opt.debug {
		return debug(emu, os.Stdin, os.Stderr)
	}

	result := emu.Run()
	if opt.verbose {
		log.Printf("%d steps", result.Steps)
	}
	if result.Halted {
		err = result.Err
		return
	}

	code = result.ExitCode
	return
}
