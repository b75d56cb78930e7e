package cpu

import (
	"fmt"
	"strings"
)

// Opcode is the 3-bit operation selector of an instruction word.
type Opcode int

const (
	OP_LDI = Opcode(0) // LDI
	OP_ADD = Opcode(1) // ADD
	OP_AND = Opcode(2) // AND
	OP_OR  = Opcode(3) // OR
	OP_XOR = Opcode(4) // XOR
	OP_PRT = Opcode(5) // PRT
	OP_RDD = Opcode(6) // RDD
	OP_BLE = Opcode(7) // BLE
)

// OPCODE_COUNT is the number of encodable opcodes.
const OPCODE_COUNT = 8

var opcodeName = [OPCODE_COUNT]string{
	OP_LDI: "LDI",
	OP_ADD: "ADD",
	OP_AND: "AND",
	OP_OR:  "OR",
	OP_XOR: "XOR",
	OP_PRT: "PRT",
	OP_RDD: "RDD",
	OP_BLE: "BLE",
}

// String returns the mnemonic of the opcode.
func (op Opcode) String() string {
	if op < 0 || int(op) >= len(opcodeName) {
		return fmt.Sprintf("Opcode(%d)", int(op))
	}
	return opcodeName[op]
}

// IsAlu returns true for the three-register arithmetic and logic opcodes.
func (op Opcode) IsAlu() bool {
	return op >= OP_ADD && op <= OP_XOR
}

// ParseOpcode returns the opcode for a mnemonic, ignoring case.
func ParseOpcode(mnemonic string) (op Opcode, ok bool) {
	for n, name := range opcodeName {
		if strings.EqualFold(name, mnemonic) {
			return Opcode(n), true
		}
	}
	return
}

// OpcodeSet is a set of opcodes, one bit per opcode.
type OpcodeSet uint8

// Has returns true if op is in the set.
func (set OpcodeSet) Has(op Opcode) bool {
	return op >= 0 && op < OPCODE_COUNT && (set&(1<<op)) != 0
}

// With returns the set with the opcodes added.
func (set OpcodeSet) With(ops ...Opcode) OpcodeSet {
	for _, op := range ops {
		set |= 1 << (op & 7)
	}
	return set
}

// String returns the comma-separated mnemonics in the set.
func (set OpcodeSet) String() string {
	var names []string
	for op := range Opcode(OPCODE_COUNT) {
		if set.Has(op) {
			names = append(names, op.String())
		}
	}
	return strings.Join(names, ",")
}

// ParseOpcodeSet parses a comma-separated list of mnemonics.
func ParseOpcodeSet(list string) (set OpcodeSet, err error) {
	for _, word := range strings.Split(list, ",") {
		word = strings.TrimSpace(word)
		if len(word) == 0 {
			continue
		}
		op, ok := ParseOpcode(word)
		if !ok {
			err = ErrMnemonicInvalid(word)
			return
		}
		set = set.With(op)
	}
	return
}

// Layout selects how the rj operand field is extracted.
type Layout int

const (
	// LAYOUT_LEGACY adds bit 0 of byte 0 to bits 7-5 of byte 1, then
	// masks to 3 bits: rj = ((b0 & 1) + (b1 >> 5)) & 7.
	// The add binds before the mask, as in legacy binaries. Registers above
	// R7 cannot be named as rj.
	LAYOUT_LEGACY = Layout(0) // legacy
	// LAYOUT_PACKED concatenates bit 0 of byte 0 with bits 7-5 of byte 1
	// into a 4-bit register index: rj = (b0 & 1) << 3 | (b1 >> 5).
	LAYOUT_PACKED = Layout(1) // packed
)

// String returns the layout name.
func (layout Layout) String() string {
	switch layout {
	case LAYOUT_LEGACY:
		return "legacy"
	case LAYOUT_PACKED:
		return "packed"
	}
	return fmt.Sprintf("Layout(%d)", int(layout))
}

// EncodeRj returns the word bits 8-5 that decode to rj under the layout.
func (layout Layout) EncodeRj(rj uint8) (bits uint16, err error) {
	if rj > 0xf || (layout == LAYOUT_LEGACY && rj > 7) {
		err = ErrRegisterLayout{Register: rj, Layout: layout}
		return
	}
	bits = uint16(rj) << 5
	return
}

// Code is a single encoded instruction word. Byte 0 of the pair is the
// high byte.
type Code uint16

// MakeCode assembles a word from its byte pair.
func MakeCode(b0, b1 byte) Code {
	return Code(uint16(b0)<<8 | uint16(b1))
}

// Bytes returns the byte pair of the word, byte 0 first.
func (code Code) Bytes() [2]byte {
	return [2]byte{byte(code >> 8), byte(code)}
}

// Op returns the opcode, bits 7-5 of byte 0.
func (code Code) Op() Opcode {
	return Opcode((code >> 13) & 0x7)
}

// Ri returns the first register index, bits 4-1 of byte 0.
func (code Code) Ri() uint8 {
	return uint8((code >> 9) & 0xf)
}

// Imm returns the LDI immediate: bit 0 of byte 0 followed by bits 7-1 of
// byte 1. Bit 0 of byte 1 is padding.
func (code Code) Imm() uint8 {
	return uint8((code >> 1) & 0xff)
}

// Rj returns the second register index under the given layout.
func (code Code) Rj(layout Layout) uint8 {
	b0, b1 := byte(code>>8), byte(code)
	if layout == LAYOUT_PACKED {
		return ((b0 & 1) << 3) | (b1 >> 5)
	}
	return ((b0 & 1) + (b1 >> 5)) & 7
}

// Rk returns the ALU destination register, bits 4-1 of byte 1.
func (code Code) Rk() uint8 {
	return uint8((code >> 1) & 0xf)
}

// Addr returns the BLE jump address, bits 4-0 of byte 1.
func (code Code) Addr() uint8 {
	return uint8(code & 0x1f)
}

// String returns the word in hex.
func (code Code) String() string {
	return fmt.Sprintf("0x%04x", uint16(code))
}

func makeOp(op Opcode, ri uint8) Code {
	return Code((uint16(op)&7)<<13 | (uint16(ri)&0xf)<<9)
}

// MakeCodeLdi creates an LDI instruction.
func MakeCodeLdi(ri uint8, imm uint8) Code {
	return makeOp(OP_LDI, ri) | Code(uint16(imm)<<1)
}

// MakeCodeAlu creates an ADD, AND, OR or XOR instruction.
// rj is encoded with bit 0 of byte 0 clear when it is below 8, which
// decodes identically under both layouts.
func MakeCodeAlu(op Opcode, ri, rj, rk uint8) Code {
	return makeOp(op, ri) | Code((uint16(rj)&0xf)<<5) | Code((uint16(rk)&0xf)<<1)
}

// MakeCodeIo creates a PRT or RDD instruction.
func MakeCodeIo(op Opcode, ri uint8) Code {
	return makeOp(op, ri)
}

// MakeCodeBle creates a BLE instruction.
func MakeCodeBle(ri, rj, addr uint8) Code {
	return makeOp(OP_BLE, ri) | Code((uint16(rj)&0xf)<<5) | Code(addr&0x1f)
}
