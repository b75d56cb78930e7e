package cpu

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInstruction_Disassemble(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		pc   int
		inst Instruction
		line string
	}){
		{0, Instruction{Op: OP_LDI, Ri: 0, Imm: 42}, "0: LDI R0 42"},
		{2, Instruction{Op: OP_ADD, Ri: 1, Rj: 2, Rk: 3}, "2: ADD R1 R2 R3"},
		{4, Instruction{Op: OP_AND, Ri: 10, Rj: 11, Rk: 12}, "4: AND Ra Rb Rc"},
		{6, Instruction{Op: OP_OR, Ri: 13, Rj: 14, Rk: 15}, "6: OR Rd Re Rf"},
		{8, Instruction{Op: OP_XOR, Ri: 0, Rj: 0, Rk: 0}, "8: XOR R0 R0 R0"},
		{10, Instruction{Op: OP_PRT, Ri: 9}, "10: PRT R9"},
		{12, Instruction{Op: OP_RDD, Ri: 15}, "12: RDD Rf"},
		{30, Instruction{Op: OP_BLE, Ri: 1, Rj: 2, Addr: 31}, "30: BLE R1 R2 31"},
		{14, Instruction{Op: OP_LDI, Ri: 11, Imm: 255}, "14: LDI Rb 255"},
	}

	for _, entry := range table {
		assert.Equal(entry.line, entry.inst.Disassemble(entry.pc))
	}
}

func TestDecoder_Listing(t *testing.T) {
	assert := assert.New(t)

	prog := &Program{Code: []Code{
		MakeCodeLdi(0, 42),
		MakeCodeAlu(OP_ADD, 0, 1, 2),
		MakeCodeIo(OP_PRT, 2),
		MakeCodeBle(0, 1, 2),
	}}

	output := &bytes.Buffer{}
	faults, err := Decoder{}.Listing(output, prog)
	assert.NoError(err)
	assert.Empty(faults)

	expected := []string{
		"0: LDI R0 42",
		"2: ADD R0 R1 R2",
		"4: PRT R2",
		"6: BLE R0 R1 2",
		"",
	}
	assert.Equal(strings.Join(expected, "\n"), output.String())
}

func TestDecoder_Listing_InvalidContinues(t *testing.T) {
	assert := assert.New(t)

	prog := &Program{Code: []Code{
		MakeCodeLdi(1, 7),
		MakeCode(0xc2, 0x00), // opcode bits 110, disabled below
		MakeCodeIo(OP_PRT, 1),
	}}

	output := &bytes.Buffer{}
	dec := Decoder{Disabled: OpcodeSet(0).With(OP_RDD)}
	faults, err := dec.Listing(output, prog)
	assert.NoError(err)

	expected := []string{
		"0: LDI R1 7",
		"2: ERROR invalid opcode RDD (0xc200)",
		"4: PRT R1",
		"",
	}
	assert.Equal(strings.Join(expected, "\n"), output.String())

	assert.Len(faults, 1)
	var decode *ErrDecode
	assert.True(errors.As(faults[0], &decode))
	assert.Equal(2, decode.Pc)
	assert.ErrorIs(faults[0], ErrOpcodeInvalid)
}

type failWriter struct{}

func (failWriter) Write(p []byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestDecoder_Listing_WriteError(t *testing.T) {
	assert := assert.New(t)

	prog := &Program{Code: []Code{MakeCodeLdi(1, 7)}}

	_, err := Decoder{}.Listing(failWriter{}, prog)
	assert.EqualError(err, "disk full")
}

func TestDecoder_Listing_Empty(t *testing.T) {
	assert := assert.New(t)

	output := &bytes.Buffer{}
	faults, err := Decoder{}.Listing(output, &Program{})
	assert.NoError(err)
	assert.Empty(faults)
	assert.Equal("", output.String())
}
