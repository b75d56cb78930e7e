// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/micro8/cpu"
	"github.com/ezrec/micro8/internal"
	mio "github.com/ezrec/micro8/io"
)

var _emulator_defines = map[string]string{
	"OPCODE_COUNT": fmt.Sprintf("%d", cpu.OPCODE_COUNT),
}

// opcodeDefines yields OP_<mnemonic> for each opcode, so that assembler
// expressions can build raw .word values.
func opcodeDefines() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for op := range cpu.Opcode(cpu.OPCODE_COUNT) {
			if !yield("OP_"+op.String(), fmt.Sprintf("%d", int(op))) {
				return
			}
		}
	}
}

// Emulator state. CPU + Program + console.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently loaded program.

	Tape mio.Tape // Console tape.
}

// NewEmulator creates a new emulator, with the tape as the console.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Program: &cpu.Program{},
	}

	emu.Cpu = cpu.NewCpu(&emu.Tape)

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		opcodeDefines(),
		emu.Cpu.Defines(),
	)
}

// Load reads a program binary image.
func (emu *Emulator) Load(image io.Reader) (err error) {
	prog, err := cpu.LoadProgram(image)
	if err != nil {
		return
	}

	if prog.Truncated {
		log.Printf("emulator: program truncated to %d words", prog.Len())
	}

	emu.Program = prog

	return
}

// Assemble parses assembly source into the program, using the emulator
// defines and the decoder's rj layout.
func (emu *Emulator) Assemble(source io.Reader) (err error) {
	asm := &cpu.Assembler{
		Verbose: emu.Verbose,
		Layout:  emu.Cpu.Decoder.Layout,
	}
	for key, value := range emu.Defines() {
		asm.Predefine(key, value)
	}

	prog, err := asm.Parse(source)
	if err != nil {
		return
	}

	emu.Program = prog

	return
}

// Listing writes the disassembly of the program to w. The listing pass
// decodes with its own copy of the decoder, and never touches the CPU.
func (emu *Emulator) Listing(w io.Writer) (faults []error, err error) {
	dec := emu.Cpu.Decoder

	faults, err = dec.Listing(w, emu.Program)
	if emu.Verbose {
		for _, fault := range faults {
			log.Printf("listing: %v", fault)
		}
	}

	return
}

// Reset the emulator state, and attach the program to the CPU.
func (emu *Emulator) Reset() {
	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Reset(emu.Program)
}

// Code returns the current instruction code.
func (emu *Emulator) Code() (code cpu.Code) {
	code, _ = emu.Program.Fetch(emu.Cpu.Pc)
	return
}

// LineNo returns the current line number for the executing opcode, or 0
// if the program has no assembler records.
func (emu *Emulator) LineNo() int {
	stmt := emu.Program.Debug(emu.Cpu.Pc)
	if stmt == nil {
		return 0
	}

	return stmt.LineNo
}

// Tick performs a single tick of the emulator. done is set once the
// program counter passes the end of the program.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	pc := emu.Cpu.Pc
	lineno := emu.LineNo()

	err = emu.Cpu.Tick()
	if errors.Is(err, cpu.ErrPcEnd) {
		err = nil
		done = true
		return
	}
	if err != nil {
		err = &ErrRuntime{Pc: pc, LineNo: lineno, Err: err}
		return
	}

	return
}

// Run ticks the emulator until the program ends or fails.
func (emu *Emulator) Run() (err error) {
	for done := false; !done; {
		done, err = emu.Tick()
		if err != nil {
			return
		}
	}

	if emu.Verbose {
		log.Printf("emulator: %v", emu.Cpu)
	}

	return
}
