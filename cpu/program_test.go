package cpu

import (
	"bytes"
	"slices"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
)

func TestLoadProgram(t *testing.T) {
	assert := assert.New(t)

	full := make([]byte, PROGRAM_CAPACITY*WORD_SIZE)
	for n := range full {
		full[n] = byte(n)
	}

	table := [](struct {
		name      string
		image     []byte
		words     int
		truncated bool
	}){
		{"empty", []byte{}, 0, false},
		{"single", []byte{0x00, 0x54}, 1, false},
		{"odd_byte", []byte{0x00, 0x54, 0xa0}, 1, false},
		{"full", full, PROGRAM_CAPACITY, false},
		{"overflow", append(slices.Clone(full), 0x00, 0x54), PROGRAM_CAPACITY, true},
		{"overflow_byte", append(slices.Clone(full), 0xff), PROGRAM_CAPACITY, true},
	}

	for _, entry := range table {
		prog, err := LoadProgram(bytes.NewReader(entry.image))
		if !assert.NoError(err, entry.name) {
			continue
		}
		assert.Equal(entry.words, prog.Len(), entry.name)
		assert.Equal(entry.words*WORD_SIZE, prog.End(), entry.name)
		assert.Equal(entry.truncated, prog.Truncated, entry.name)
		assert.Equal(entry.image[:entry.words*WORD_SIZE], prog.Binary(), entry.name)
	}
}

func TestLoadProgram_Error(t *testing.T) {
	assert := assert.New(t)

	_, err := LoadProgram(iotest.ErrReader(iotest.ErrTimeout))
	assert.ErrorIs(err, iotest.ErrTimeout)
}

func TestProgram_Fetch(t *testing.T) {
	assert := assert.New(t)

	prog, err := LoadProgram(bytes.NewReader([]byte{0x00, 0x54, 0xa0, 0x00}))
	assert.NoError(err)

	code, ok := prog.Fetch(0)
	assert.True(ok)
	assert.Equal(MakeCodeLdi(0, 42), code)

	code, ok = prog.Fetch(2)
	assert.True(ok)
	assert.Equal(MakeCodeIo(OP_PRT, 0), code)

	for _, pc := range []int{-2, 1, 3, 4, 32} {
		_, ok = prog.Fetch(pc)
		assert.False(ok, pc)
	}
}

func TestProgram_Codes(t *testing.T) {
	assert := assert.New(t)

	prog := &Program{Code: []Code{0x0054, 0xa000, 0xe248}}

	var pcs []int
	var codes []Code
	for pc, code := range prog.Codes() {
		pcs = append(pcs, pc)
		codes = append(codes, code)
	}
	assert.Equal([]int{0, 2, 4}, pcs)
	assert.Equal(prog.Code, codes)

	// Early stop
	count := 0
	for range prog.Codes() {
		count++
		break
	}
	assert.Equal(1, count)
}

func TestProgram_Debug(t *testing.T) {
	assert := assert.New(t)

	prog := &Program{
		Code: []Code{0x0054, 0xa000},
		Statements: []Statement{
			{LineNo: 3, Pc: 0, Words: []string{"LDI", "R0", "42"}, Code: 0x0054},
			{LineNo: 5, Pc: 2, Words: []string{"PRT", "R0"}, Code: 0xa000},
		},
	}

	stmt := prog.Debug(2)
	if assert.NotNil(stmt) {
		assert.Equal(5, stmt.LineNo)
		assert.Equal(Code(0xa000), stmt.Code)
	}

	assert.Nil(prog.Debug(4))
	assert.Nil((&Program{}).Debug(0))
}
