// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO": "0",
}

// Assembler is a single pass assembler for the micro8 instruction set.
// Its syntax is the one written by the listing pass, so a listing
// reassembles to the program it came from.
type Assembler struct {
	Verbose   bool        // If set, verbosely logs the assembler actions.
	Layout    Layout      // rj field layout to encode for.
	Statement []Statement // List of generated statements.

	predefine map[string]string // Predefines
	Label     map[string]int    // Map of jump labels to pc.
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

// valueOf returns the value of a simple word.
func (asm *Assembler) valueOf(word string) (value int64, err error) {
	value, err = strconv.ParseInt(word, 0, 64)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	return
}

// registerOf returns the register index of an Rx word.
func (asm *Assembler) registerOf(word string) (reg uint8, err error) {
	if len(word) != 2 || (word[0] != 'R' && word[0] != 'r') {
		err = ErrRegisterInvalid
		return
	}

	v64, err := strconv.ParseUint(word[1:], 16, 4)
	if err != nil {
		err = ErrRegisterInvalid
		return
	}

	reg = uint8(v64)
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var v64 int64
		v64, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			err = nil
			continue
		}
		pred[key] = starlark.MakeInt64(v64)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
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
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	return
}

// parseLine expands a single line into words.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do $() evaluations
	re := regexp.MustCompile(`\$\([^\$]*\)`)
	line = re.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%d", value)
	})
	if err != nil {
		return
	}

	words = strings.Fields(line)

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for n, word := range words {
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	for len(words) > 0 && strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		asm.Label[label] = asm.currentPc()
		words = words[1:]
	}

	return
}

// currentPc gets the pc of the next statement.
func (asm *Assembler) currentPc() int {
	return len(asm.Statement) * WORD_SIZE
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {

	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	asm.Statement = asm.Statement[:0]
	asm.Label = make(map[string]int, PROGRAM_CAPACITY)
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		text_comment := strings.Split(text, ";")
		line = strings.TrimSpace(text_comment[0])

		var words []string
		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	// Final linking of jump labels.
	for n := range asm.Statement {
		stmt := &asm.Statement[n]

		if len(stmt.LinkLabel) == 0 {
			continue
		}
		label := stmt.LinkLabel
		pc, ok := asm.Label[label]
		if !ok {
			lineno = stmt.LineNo
			line = strings.Join(stmt.Words, " ")
			err = ErrLabelMissing(label)
			return
		}
		if pc > ADDRESS_MAX {
			lineno = stmt.LineNo
			line = strings.Join(stmt.Words, " ")
			err = ErrAddressRange
			return
		}
		stmt.Code |= Code(pc)
	}

	prog = &Program{
		Statements: slices.Clone(asm.Statement),
	}
	for _, stmt := range asm.Statement {
		prog.Code = append(prog.Code, stmt.Code)
	}

	return
}

// getRegisters parses count register words.
func (asm *Assembler) getRegisters(count int, words []string) (regs []uint8, err error) {
	if len(words) < count {
		err = ErrOpcodeValueMissing
		return
	}

	for _, word := range words[:count] {
		var reg uint8
		reg, err = asm.registerOf(word)
		if err != nil {
			return
		}
		regs = append(regs, reg)
	}

	return
}

// getValue parses a numeric operand within [0, limit].
func (asm *Assembler) getValue(word string, limit int64, rangeErr error) (value int64, err error) {
	value, err = asm.valueOf(word)
	if err != nil {
		return
	}

	if value < 0 || value > limit {
		err = rangeErr
		return
	}

	return
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	// no-op
	if len(words) == 0 {
		return
	}

	if len(asm.Statement) >= PROGRAM_CAPACITY {
		err = ErrProgramFull
		return
	}

	stmt := Statement{LineNo: lineno, Pc: asm.currentPc(), Words: words}

	// .word VALUE
	if words[0] == ".word" {
		if len(words) != 2 {
			err = ErrOpcodeValueMissing
			return
		}
		var value int64
		value, err = asm.getValue(words[1], 0xffff, ErrImmediateRange)
		if err != nil {
			return
		}
		stmt.Code = Code(value)
		asm.Statement = append(asm.Statement, stmt)
		return
	}

	op, ok := ParseOpcode(words[0])
	if !ok {
		err = ErrMnemonicInvalid(words[0])
		return
	}

	args := words[1:]
	inst := Instruction{Op: op}

	var regs []uint8
	var want int

	switch {
	case op == OP_LDI:
		want = 2
		regs, err = asm.getRegisters(1, args)
		if err != nil {
			return
		}
		if len(args) < want {
			err = ErrOpcodeValueMissing
			return
		}
		var imm int64
		imm, err = asm.getValue(args[1], 0xff, ErrImmediateRange)
		if err != nil {
			return
		}
		inst.Ri = regs[0]
		inst.Imm = uint8(imm)
	case op.IsAlu():
		want = 3
		regs, err = asm.getRegisters(3, args)
		if err != nil {
			return
		}
		inst.Ri, inst.Rj, inst.Rk = regs[0], regs[1], regs[2]
	case op == OP_PRT, op == OP_RDD:
		want = 1
		regs, err = asm.getRegisters(1, args)
		if err != nil {
			return
		}
		inst.Ri = regs[0]
	case op == OP_BLE:
		want = 3
		regs, err = asm.getRegisters(2, args)
		if err != nil {
			return
		}
		if len(args) < want {
			err = ErrOpcodeValueMissing
			return
		}
		inst.Ri, inst.Rj = regs[0], regs[1]
		if _, perr := asm.valueOf(args[2]); perr != nil {
			// Resolved at link time.
			stmt.LinkLabel = args[2]
		} else {
			var addr int64
			addr, err = asm.getValue(args[2], ADDRESS_MAX, ErrAddressRange)
			if err != nil {
				return
			}
			inst.Addr = uint8(addr)
		}
	}

	if len(args) > want {
		err = ErrOpcodeExtraArgs
		return
	}

	stmt.Code, err = Decoder{Layout: asm.Layout}.Encode(inst)
	if err != nil {
		return
	}

	asm.Statement = append(asm.Statement, stmt)

	return
}
