// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"strconv"
	"strings"
	"unicode"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// MAX_OPERANDS is the most operands an instruction accepts.
const MAX_OPERANDS = 3

// sourceLine is an instruction line held between the two passes.
type sourceLine struct {
	LineNo int
	Line   string
	Words  []string
}

// Assembler is a two pass assembler for the MISC instruction set.
//
// The first pass collects labels, equates and the .data section. The
// second pass encodes each instruction with Assemble. When the program has
// data, the binary starts with a raw-data block and every label is offset
// by its length.
type Assembler struct {
	Verbose bool // If set, verbosely logs the assembler actions.

	predefine map[string]string // Predefines
	Label     map[string]int    // Map of lowercased labels to byte offsets.
	Equate    map[string]string // Map of equates.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// stripComment removes a ';' or '#' comment that is not inside a quote.
func stripComment(line string) string {
	var quote rune
	escaped := false
	for n, c := range line {
		switch {
		case escaped:
			escaped = false
		case quote != 0 && c == '\\':
			escaped = true
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == ';' || c == '#':
			return line[:n]
		}
	}
	return line
}

// cutWord splits off the first whitespace separated word.
func cutWord(line string) (word, rest string) {
	n := strings.IndexFunc(line, unicode.IsSpace)
	if n < 0 {
		return line, ""
	}
	return line[:n], strings.TrimSpace(line[n:])
}

// splitOperands splits on commas that are outside quotes and parentheses.
func splitOperands(text string) (words []string) {
	var quote rune
	escaped := false
	depth := 0
	start := 0
	for n, c := range text {
		switch {
		case escaped:
			escaped = false
		case quote != 0 && c == '\\':
			escaped = true
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '(':
			depth++
		case c == ')':
			depth--
		case c == ',' && depth == 0:
			words = append(words, strings.TrimSpace(text[start:n]))
			start = n + 1
		}
	}
	if last := strings.TrimSpace(text[start:]); len(last) != 0 || len(words) != 0 {
		words = append(words, last)
	}
	return
}

// parseNumber parses a literal integer. Negative values wrap.
func parseNumber(word string) (value uint16, err error) {
	v64, err := strconv.ParseInt(word, 0, 32)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	value = uint16(v64)
	return
}

// parseCharacter parses a quoted single byte character, such as 'a' or '\n'.
func parseCharacter(word string) (value uint16, err error) {
	str, err := strconv.Unquote(word)
	if err != nil || len(str) != 1 {
		err = ErrParseCharacter(word)
		return
	}

	value = uint16(str[0])
	return
}

// parseRegister parses rN, returning ok false if the word is not a register.
func parseRegister(word string) (value uint16, ok bool) {
	if len(word) < 2 || (word[0] != 'r' && word[0] != 'R') {
		return
	}

	n, err := strconv.ParseUint(word[1:], 10, 8)
	if err != nil || n >= REGISTER_COUNT {
		return
	}

	return uint16(n), true
}

// valueOf resolves an operand to its integer value.
func (asm *Assembler) valueOf(word string) (value uint16, err error) {
	word = strings.TrimSpace(word)
	if len(word) == 0 {
		err = ErrOpcodeValueMissing
		return
	}

	// Memory operands are written [rN].
	if strings.HasPrefix(word, "[") && strings.HasSuffix(word, "]") {
		word = strings.TrimSpace(word[1 : len(word)-1])
	}

	if equate, ok := asm.Equate[word]; ok {
		word = equate
	}

	switch {
	case strings.HasPrefix(word, "$(") && strings.HasSuffix(word, ")"):
		return asm.parenEval(word[2 : len(word)-1])
	case strings.HasPrefix(word, "'"):
		return parseCharacter(word)
	}

	if ip, ok := asm.Label[strings.ToLower(word)]; ok {
		value = uint16(ip)
		return
	}

	if reg, ok := parseRegister(word); ok {
		value = reg
		return
	}

	return parseNumber(word)
}

// parenEval does compile-time $(...) evaluations over the labels and the
// integer or character equates.
func (asm *Assembler) parenEval(expr string) (value uint16, err error) {
	thread := starlark.Thread{Name: "asm"}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		if strings.HasPrefix(str, "'") {
			ch, _err := parseCharacter(str)
			if _err == nil {
				pred[key] = starlark.MakeInt(int(ch))
			}
			continue
		}
		v64, _err := strconv.ParseInt(str, 0, 32)
		if _err != nil {
			// Ignore non-literal equates.
			continue
		}
		pred[key] = starlark.MakeInt64(v64)
	}
	for key, ip := range asm.Label {
		pred[key] = starlark.MakeInt(ip)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrParseExpression(expr), err)
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value = uint16(st_int64)
	return
}

// parseData parses a line of the .data section into pairs.
func (asm *Assembler) parseData(line string, lineno int) (data []Datum, err error) {
	directive, args := cutWord(line)
	words := splitOperands(args)
	if len(words) != 2 {
		err = ErrDataSyntax
		return
	}

	addr, err := asm.valueOf(words[0])
	if err != nil {
		return
	}

	switch strings.ToLower(directive) {
	case "byte":
		var val uint16
		val, err = asm.valueOf(words[1])
		if err != nil {
			return
		}
		data = append(data, Datum{LineNo: lineno, Address: uint8(addr), Value: uint8(val)})
	case "str":
		if !strings.HasPrefix(words[1], "\"") {
			err = ErrParseString(words[1])
			return
		}
		var str string
		str, err = strconv.Unquote(words[1])
		if err != nil {
			err = ErrParseString(words[1])
			return
		}
		for n := range len(str) {
			data = append(data, Datum{LineNo: lineno, Address: uint8(int(addr) + n), Value: str[n]})
		}
	default:
		err = ErrDataSyntax
		return
	}

	// A zero pair would end the raw-data block early.
	for _, datum := range data {
		if datum.Address == 0 && datum.Value == 0 {
			data = nil
			err = ErrDataSyntax
			return
		}
	}

	return
}

// parseLabels consumes leading "label:" words, defining each at pc.
func (asm *Assembler) parseLabels(line string, pc int) (rest string, err error) {
	rest = line
	for {
		word, after := cutWord(rest)
		if !strings.HasSuffix(word, ":") || strings.ContainsAny(word, "'\"") {
			return
		}
		label := strings.ToLower(word[:len(word)-1])
		if _, ok := asm.Label[label]; ok {
			err = ErrLabelDuplicate
			return
		}
		asm.Label[label] = pc
		rest = after
	}
}

// Parse assembles an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
			prog = nil
		}
	}()

	asm.Label = make(map[string]int, 16)
	asm.Equate = maps.Collect(Defines())
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	prog = &Program{}

	var code []sourceLine
	in_data := false

	// First pass: labels, equates and data.
	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		line = strings.TrimSpace(stripComment(text))
		if len(line) == 0 {
			continue
		}

		switch strings.ToLower(line) {
		case ".data":
			in_data = true
			continue
		case ".text":
			in_data = false
			continue
		}

		// .equ CONST VALUE
		if words := strings.Fields(line); strings.EqualFold(words[0], ".equ") {
			if len(words) != 3 {
				err = ErrEquateSyntax
				return
			}
			if _, ok := asm.Equate[words[1]]; ok {
				err = ErrEquateDuplicate
				return
			}
			asm.Equate[words[1]] = words[2]
			continue
		}

		if in_data {
			var data []Datum
			data, err = asm.parseData(line, lineno)
			if err != nil {
				return
			}
			prog.Data = append(prog.Data, data...)
			continue
		}

		line, err = asm.parseLabels(line, INSTRUCTION_LENGTH*len(code))
		if err != nil {
			return
		}
		if len(line) == 0 {
			continue
		}

		mnemonic, args := cutWord(line)
		words := append([]string{mnemonic}, splitOperands(args)...)
		code = append(code, sourceLine{LineNo: lineno, Line: line, Words: words})
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	// Labels are relative to the start of the code; move them past the data.
	offset := prog.DataLength()
	for label := range asm.Label {
		asm.Label[label] += offset
	}

	// Second pass: encode instructions.
	for n, src := range code {
		lineno = src.LineNo
		line = src.Line

		args := src.Words[1:]
		if len(args) > MAX_OPERANDS {
			err = ErrOpcodeExtraArgs
			return
		}

		var ops [MAX_OPERANDS]uint16
		for i, arg := range args {
			ops[i], err = asm.valueOf(arg)
			if err != nil {
				if _, ok := err.(ErrParseNumber); ok && !isNumeric(arg) {
					err = ErrLabelMissing(arg)
				}
				return
			}
		}

		var word Code
		err = Assemble(src.Words[0], ops[0], ops[1], ops[2], &word)
		if err != nil {
			return
		}

		if asm.Verbose {
			log.Printf("%04x: %v", offset+INSTRUCTION_LENGTH*n, word)
		}

		prog.Opcodes = append(prog.Opcodes, Opcode{
			LineNo: src.LineNo,
			Pc:     offset + INSTRUCTION_LENGTH*n,
			Words:  src.Words,
			Code:   word,
		})
	}

	return
}

// isNumeric reports whether a word looks like a number rather than a name.
func isNumeric(word string) bool {
	return len(word) != 0 && (word[0] == '-' || word[0] == '+' || (word[0] >= '0' && word[0] <= '9'))
}
