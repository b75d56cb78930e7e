// Package cpu implements the microprocessor and assembler for the micro8 system.
//
// The CPU has sixteen 8-bit general-purpose registers (R0-Rf) and a
// byte-offset program counter, and talks to a console channel. Instructions are
// fixed 16-bit words holding a 3-bit opcode and its operand fields; a
// program holds at most sixteen of them.
//
// The disassembler renders decoded words as listing lines, and the assembler
// accepts the same syntax back, with labels and equates.
package cpu
