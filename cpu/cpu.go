// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/micro8/io"
)

// Channel is the console interface used by PRT and RDD.
type Channel io.Channel

var _cpu_defines = map[string]string{
	"REGISTER_COUNT":   fmt.Sprintf("%d", REGISTER_COUNT),
	"PROGRAM_CAPACITY": fmt.Sprintf("%d", PROGRAM_CAPACITY),
	"WORD_SIZE":        fmt.Sprintf("%d", WORD_SIZE),
	"ADDRESS_MAX":      fmt.Sprintf("%d", ADDRESS_MAX),
}

// ADDRESS_MAX is the largest BLE jump address.
const ADDRESS_MAX = 0x1f

// Cpu is the execution state of the machine.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Decoder   Decoder   // Instruction decoder.
	Pc        int       // Byte offset of the next instruction.
	Register  Registers // Register bank.
	Console   Channel   // Console for PRT and RDD.
	Ticks     int       // Instructions executed since reset.
	TickLimit int       // If non-zero, maximum instructions per run.

	program *Program
}

// NewCpu creates a new CPU attached to a console.
func NewCpu(console Channel) (cpu *Cpu) {
	cpu = &Cpu{
		Console: console,
		program: &Program{},
	}

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() string {
	return fmt.Sprintf("pc: %d ticks: %d %v", cpu.Pc, cpu.Ticks, &cpu.Register)
}

// Reset the CPU state.
// - Clears the registers.
// - Zeros the program counter and tick counter.
// - Rewinds the console.
// - Attaches the program to execute.
func (cpu *Cpu) Reset(prog *Program) {
	if cpu.Verbose {
		log.Printf("cpu: reset, %d words", prog.Len())
	}

	cpu.Register.Reset()
	cpu.Pc = 0
	cpu.Ticks = 0

	if cpu.Console != nil {
		cpu.Console.Rewind()
	}

	cpu.program = prog
}

// FetchCode fetches the word at the program counter.
// ErrPcEnd is returned once the counter is at or past the program end.
func (cpu *Cpu) FetchCode() (code Code, err error) {
	if cpu.Pc >= cpu.program.End() {
		err = ErrPcEnd
		return
	}

	code, ok := cpu.program.Fetch(cpu.Pc)
	if !ok {
		err = ErrPcAlign
		return
	}

	return
}

// Tick fetches, decodes and executes a single instruction.
// A decode failure stops execution.
func (cpu *Cpu) Tick() (err error) {
	code, err := cpu.FetchCode()
	if err != nil {
		return
	}

	if cpu.TickLimit > 0 && cpu.Ticks >= cpu.TickLimit {
		err = ErrTickLimit
		return
	}

	inst, err := cpu.Decoder.Decode(code)
	if err != nil {
		return
	}

	err = cpu.Execute(inst)

	return
}

// Run ticks until the program counter passes the end of the program.
func (cpu *Cpu) Run() (err error) {
	for {
		err = cpu.Tick()
		if errors.Is(err, ErrPcEnd) {
			return nil
		}
		if err != nil {
			return
		}
	}
}

// Execute executes a single decoded instruction, and advances the
// program counter.
func (cpu *Cpu) Execute(inst Instruction) (err error) {
	if cpu.Verbose {
		log.Printf("%v", inst.Disassemble(cpu.Pc))
	}

	reg := &cpu.Register

	next_pc := cpu.Pc + WORD_SIZE

	switch inst.Op {
	case OP_LDI:
		reg.Write(inst.Ri, inst.Imm)
	case OP_ADD, OP_AND, OP_OR, OP_XOR:
		output := doAlu(inst.Op, reg.Read(inst.Ri), reg.Read(inst.Rj))
		reg.Write(inst.Rk, output)
	case OP_PRT:
		if cpu.Console == nil {
			err = ErrChannelInvalid
			return
		}
		err = cpu.Console.Send(reg.Read(inst.Ri))
		if err != nil {
			return
		}
	case OP_RDD:
		if cpu.Console == nil {
			err = ErrChannelInvalid
			return
		}
		var value uint8
		value, err = cpu.Console.Receive()
		if err != nil {
			return
		}
		reg.Write(inst.Ri, value)
	case OP_BLE:
		if reg.Read(inst.Ri) <= reg.Read(inst.Rj) {
			next_pc = int(inst.Addr)
			if next_pc%WORD_SIZE != 0 {
				err = ErrPcAlign
				return
			}
		}
	default:
		err = ErrOpcodeInvalid
		return
	}

	cpu.Pc = next_pc
	cpu.Ticks += 1

	return
}

// doAlu performs the requested ALU action, and returns the 8-bit result.
func doAlu(op Opcode, a, b uint8) (output uint8) {
	switch op {
	case OP_ADD:
		output = a + b
	case OP_AND:
		output = a & b
	case OP_OR:
		output = a | b
	case OP_XOR:
		output = a ^ b
	}

	return
}
