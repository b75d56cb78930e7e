package cpu

import (
	"fmt"
	"strings"
)

// REGISTER_COUNT is the number of general purpose registers.
const REGISTER_COUNT = 16

// Registers is the register file: sixteen independent 8-bit cells.
// Arithmetic written back to a register wraps at 8 bits.
type Registers [REGISTER_COUNT]uint8

// Read returns the value of register r. Only the low 4 bits of r are used.
func (reg *Registers) Read(r uint8) uint8 {
	return reg[r&0xf]
}

// Write stores value into register r. Only the low 4 bits of r are used.
func (reg *Registers) Write(r uint8, value uint8) {
	reg[r&0xf] = value
}

// Reset clears all registers to zero.
func (reg *Registers) Reset() {
	clear(reg[:])
}

// String returns the register file as "Rx=value" pairs.
func (reg *Registers) String() string {
	words := make([]string, 0, len(reg))
	for n, value := range reg {
		words = append(words, fmt.Sprintf("R%x=%d", n, value))
	}
	return strings.Join(words, " ")
}
