package io

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

// Tape is the console of the machine. Input is a stream of whitespace
// delimited decimal integers, consumed one per Receive. Output receives the
// decimal rendering of each sent value with no separator.
type Tape struct {
	Input  io.Reader
	Output io.Writer

	scanner *bufio.Scanner
	source  io.Reader
}

var _ Channel = (*Tape)(nil)

// Rewind is not possible on a tape.
func (tc *Tape) Rewind() {
}

// Receive reads the next integer from the input, truncated to 8 bits.
// Non-numeric input is an ErrInputParse, never a silent zero.
func (tc *Tape) Receive() (value uint8, err error) {
	if tc.Input == nil {
		err = ErrInputEmpty
		return
	}

	if tc.scanner == nil || tc.source != tc.Input {
		tc.scanner = bufio.NewScanner(tc.Input)
		tc.scanner.Split(bufio.ScanWords)
		tc.source = tc.Input
	}

	if !tc.scanner.Scan() {
		err = tc.scanner.Err()
		if err == nil {
			err = ErrInputEmpty
		}
		return
	}

	word := tc.scanner.Text()
	v64, perr := strconv.ParseInt(word, 10, 64)
	if perr != nil {
		err = ErrInputParse(word)
		return
	}

	value = uint8(v64 & 0xff)

	return
}

// Send writes the decimal value to the output stream.
func (tc *Tape) Send(value uint8) (err error) {
	if tc.Output == nil {
		err = ErrOutputNone
		return
	}

	_, err = fmt.Fprintf(tc.Output, "%d", value)

	return
}
