package cpu

import (
	"fmt"
	"io"
	"strings"
)

// ErrDecode locates a decode failure in a program.
type ErrDecode struct {
	Pc  int
	Err error
}

func (err *ErrDecode) Error() string {
	return f("pc %d %v", err.Pc, err.Err)
}

func (err *ErrDecode) Unwrap() error {
	return err.Err
}

// String returns the assembly text of the instruction. Registers are
// written as R and a hex digit, immediates and addresses in decimal.
func (inst Instruction) String() string {
	var text strings.Builder

	text.WriteString(inst.Op.String())

	switch {
	case inst.Op == OP_LDI:
		fmt.Fprintf(&text, " R%x %d", inst.Ri, inst.Imm)
	case inst.Op.IsAlu():
		fmt.Fprintf(&text, " R%x R%x R%x", inst.Ri, inst.Rj, inst.Rk)
	case inst.Op == OP_PRT, inst.Op == OP_RDD:
		fmt.Fprintf(&text, " R%x", inst.Ri)
	case inst.Op == OP_BLE:
		fmt.Fprintf(&text, " R%x R%x %d", inst.Ri, inst.Rj, inst.Addr)
	}

	return text.String()
}

// Disassemble returns the listing line for the instruction at pc,
// without a trailing newline.
func (inst Instruction) Disassemble(pc int) string {
	return fmt.Sprintf("%d: %v", pc, inst)
}

// Listing writes one disassembled line per program word to w, in program
// order. A word that fails to decode produces a diagnostic line and the
// listing continues; the decode failures are returned as faults. err is
// only set if writing to w fails.
func (dec Decoder) Listing(w io.Writer, prog *Program) (faults []error, err error) {
	for pc, code := range prog.Codes() {
		var line string

		inst, decode_err := dec.Decode(code)
		if decode_err != nil {
			faults = append(faults, &ErrDecode{Pc: pc, Err: decode_err})
			line = fmt.Sprintf("%d: ERROR invalid opcode %v (%v)", pc, code.Op(), code)
		} else {
			line = inst.Disassemble(pc)
		}

		_, err = io.WriteString(w, line+"\n")
		if err != nil {
			return
		}
	}

	return
}
