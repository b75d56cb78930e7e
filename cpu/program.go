package cpu

import (
	"io"
	"iter"

	mio "github.com/ezrec/micro8/io"
)

const (
	WORD_SIZE        = 2  // Bytes per instruction word.
	PROGRAM_CAPACITY = 16 // Maximum instruction words in a program.
)

// Statement is an assembled source line and the word generated for it.
type Statement struct {
	LineNo    int
	Pc        int
	Words     []string
	Code      Code
	LinkLabel string
}

// Program is an immutable sequence of instruction words.
type Program struct {
	Code       []Code      // Instruction words, in order.
	Statements []Statement // Assembler debug records, if assembled.
	Truncated  bool        // Set if the image exceeded PROGRAM_CAPACITY.
}

// LoadProgram reads a binary image of at most PROGRAM_CAPACITY words.
// Longer images are truncated, and a trailing odd byte is dropped.
func LoadProgram(image io.Reader) (prog *Program, err error) {
	rom := &mio.Rom{Capacity: PROGRAM_CAPACITY * WORD_SIZE}
	err = rom.Unmarshal(image)
	if err != nil {
		return
	}

	prog = &Program{Truncated: rom.Truncated}
	for n := range rom.Words(WORD_SIZE) {
		pc := n * WORD_SIZE
		prog.Code = append(prog.Code, MakeCode(rom.Data[pc], rom.Data[pc+1]))
	}

	return
}

// Len returns the number of instruction words.
func (prog *Program) Len() int {
	return len(prog.Code)
}

// End returns the first pc past the program.
func (prog *Program) End() int {
	return len(prog.Code) * WORD_SIZE
}

// Fetch returns the word at pc.
func (prog *Program) Fetch(pc int) (code Code, ok bool) {
	if pc < 0 || pc%WORD_SIZE != 0 || pc >= prog.End() {
		return
	}
	return prog.Code[pc/WORD_SIZE], true
}

// Codes iterates over the program words and their pc.
func (prog *Program) Codes() iter.Seq2[int, Code] {
	return func(yield func(pc int, code Code) bool) {
		for n, code := range prog.Code {
			if !yield(n*WORD_SIZE, code) {
				return
			}
		}
	}
}

// Binary returns the program image, byte 0 of each word first.
func (prog *Program) Binary() (bins []byte) {
	bins = make([]byte, 0, prog.End())
	for _, code := range prog.Code {
		pair := code.Bytes()
		bins = append(bins, pair[:]...)
	}

	return
}

// Debug returns the assembler record for the word at pc.
func (prog *Program) Debug(pc int) (stmt *Statement) {
	for n := range prog.Statements {
		if prog.Statements[n].Pc == pc {
			return &prog.Statements[n]
		}
	}

	return
}
