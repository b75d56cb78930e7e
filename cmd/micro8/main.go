// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"log"
	"os"

	"github.com/tebeka/atexit"

	"github.com/ezrec/micro8/cpu"
	"github.com/ezrec/micro8/emulator"
	"github.com/ezrec/micro8/translate"
)

func main() {
	var assemble string
	var input string
	var output string
	var packed bool
	var disable string
	var tick_limit int
	var locale string
	var verbose bool

	flag.StringVar(&assemble, "a", "", ".s file to assemble into the program binary")
	flag.StringVar(&input, "i", "-", "Console input")
	flag.StringVar(&output, "o", "-", "Console output")
	flag.BoolVar(&packed, "p", false, "Use the packed rj register layout")
	flag.StringVar(&disable, "x", "", "Comma separated opcodes to reject as invalid")
	flag.IntVar(&tick_limit, "t", 0, "Maximum instructions to execute, 0 for no limit")
	flag.StringVar(&locale, "l", "", "Message locale")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 2 {
		atexit.Fatalf("usage: %v [options] program.bin listing.txt", os.Args[0])
	}

	program := flag.Arg(0)
	listing := flag.Arg(1)

	if len(locale) != 0 {
		translate.SetLocales(locale)
	}

	emu := emulator.NewEmulator()
	emu.Verbose = verbose
	emu.Cpu.TickLimit = tick_limit

	if packed {
		emu.Cpu.Decoder.Layout = cpu.LAYOUT_PACKED
	}

	if len(disable) != 0 {
		set, err := cpu.ParseOpcodeSet(disable)
		if err != nil {
			atexit.Fatalf("-x %v: %v", disable, err)
		}
		emu.Cpu.Decoder.Disabled = set
	}

	if len(assemble) != 0 {
		// Assemble, and keep the assembled program for its line numbers.
		inf, err := os.Open(assemble)
		if err != nil {
			atexit.Fatalf("%v: %v", assemble, err)
		}
		err = emu.Assemble(inf)
		inf.Close()
		if err != nil {
			atexit.Fatalf("%v: %v", assemble, err)
		}

		err = os.WriteFile(program, emu.Program.Binary(), 0o644)
		if err != nil {
			atexit.Fatalf("%v: %v", program, err)
		}
	} else {
		inf, err := os.Open(program)
		if err != nil {
			atexit.Fatalf("%v: %v", program, err)
		}
		err = emu.Load(inf)
		inf.Close()
		if err != nil {
			atexit.Fatalf("%v: %v", program, err)
		}
	}

	// Listing pass
	ouf, err := os.Create(listing)
	if err != nil {
		atexit.Fatalf("%v: %v", listing, err)
	}
	atexit.Register(func() { ouf.Close() })

	faults, err := emu.Listing(ouf)
	if err != nil {
		atexit.Fatalf("%v: %v", listing, err)
	}
	for _, fault := range faults {
		log.Printf("%v: %v", program, fault)
	}

	// Execution pass
	if input == "-" {
		emu.Tape.Input = os.Stdin
	} else {
		tape_in, err := os.Open(input)
		if err != nil {
			atexit.Fatalf("%v: %v", input, err)
		}
		atexit.Register(func() { tape_in.Close() })
		emu.Tape.Input = tape_in
	}

	if output == "-" {
		emu.Tape.Output = os.Stdout
	} else {
		tape_out, err := os.Create(output)
		if err != nil {
			atexit.Fatalf("%v: %v", output, err)
		}
		atexit.Register(func() { tape_out.Close() })
		emu.Tape.Output = tape_out
	}

	emu.Reset()
	err = emu.Run()
	if err != nil {
		atexit.Fatalf("%v: %v", program, err)
	}

	atexit.Exit(0)
}
