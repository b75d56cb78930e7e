package io

import (
	"errors"

	"github.com/ezrec/micro8/translate"
)

var f = translate.From

var (
	// Channel errors
	ErrInputEmpty = errors.New(f("input exhausted"))
	ErrOutputNone = errors.New(f("no output attached"))
	ErrRomEmpty   = errors.New(f("rom capacity zero"))
)

// ErrInputParse is returned when console input is not a decimal integer.
type ErrInputParse string

func (err ErrInputParse) Error() string {
	return f("'%v' is not an integer", string(err))
}
