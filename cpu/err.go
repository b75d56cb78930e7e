package cpu

import (
	"errors"

	"github.com/ezrec/micro8/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrPcEnd          = errors.New(f("pc past end of program"))
	ErrPcAlign        = errors.New(f("pc not word aligned"))
	ErrTickLimit      = errors.New(f("tick limit reached"))
	ErrChannelInvalid = errors.New(f("console channel invalid"))

	// Instruction decode errors
	ErrOpcodeInvalid = errors.New(f("invalid opcode"))

	// Program errors
	ErrProgramFull = errors.New(f("program capacity exceeded"))

	// Assembler errors
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrOpcodeExtraArgs    = errors.New(f("excessive arguments"))
	ErrOpcodeValueMissing = errors.New(f("value missing"))
	ErrRegisterInvalid    = errors.New(f("register invalid"))
	ErrImmediateRange     = errors.New(f("immediate out of range"))
	ErrAddressRange       = errors.New(f("address out of range"))
)

// ErrOpcode reports a word whose opcode the decoder does not accept.
type ErrOpcode Code

func (eo ErrOpcode) Error() string {
	return f("invalid opcode %v in %v", Code(eo).Op(), Code(eo))
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	if err == ErrOpcodeInvalid {
		return true
	}
	_, ok = err.(ErrOpcode)
	return
}

// ErrMnemonicInvalid reports an unknown instruction mnemonic.
type ErrMnemonicInvalid string

func (err ErrMnemonicInvalid) Error() string {
	return f("'%v' is not an instruction", string(err))
}

// ErrRegisterLayout reports an rj register the layout cannot encode.
type ErrRegisterLayout struct {
	Register uint8
	Layout   Layout
}

func (err ErrRegisterLayout) Error() string {
	return f("R%x not encodable as rj in %v layout", err.Register, err.Layout)
}

func (err ErrRegisterLayout) Unwrap() error {
	return ErrRegisterInvalid
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}
