package cpu

// Instruction is a decoded instruction word. Only the operand fields used
// by Op are populated; the rest stay zero.
type Instruction struct {
	Op   Opcode
	Ri   uint8 // LDI, ALU, PRT, RDD, BLE
	Rj   uint8 // ALU, BLE
	Rk   uint8 // ALU destination
	Imm  uint8 // LDI
	Addr uint8 // BLE
}

// Decoder turns instruction words into Instructions. The zero value
// decodes every opcode with the legacy rj layout.
type Decoder struct {
	Layout   Layout    // rj field interpretation.
	Disabled OpcodeSet // Opcodes rejected as invalid.
}

// Decode extracts the opcode and operand fields of an instruction word.
// Decoding has no side effects, so any number of passes may share a Decoder.
func (dec Decoder) Decode(code Code) (inst Instruction, err error) {
	op := code.Op()
	if dec.Disabled.Has(op) {
		err = ErrOpcode(code)
		return
	}

	inst = Instruction{Op: op, Ri: code.Ri()}

	switch {
	case op == OP_LDI:
		inst.Imm = code.Imm()
	case op.IsAlu():
		inst.Rj = code.Rj(dec.Layout)
		inst.Rk = code.Rk()
	case op == OP_PRT, op == OP_RDD:
		// Remaining bits are ignored.
	case op == OP_BLE:
		inst.Rj = code.Rj(dec.Layout)
		inst.Addr = code.Addr()
	default:
		err = ErrOpcode(code)
		inst = Instruction{}
	}

	return
}

// Encode returns the instruction word for inst under the decoder's layout.
func (dec Decoder) Encode(inst Instruction) (code Code, err error) {
	switch {
	case inst.Op == OP_LDI:
		code = MakeCodeLdi(inst.Ri, inst.Imm)
		return
	case inst.Op == OP_PRT, inst.Op == OP_RDD:
		code = MakeCodeIo(inst.Op, inst.Ri)
		return
	case inst.Op.IsAlu(), inst.Op == OP_BLE:
	default:
		err = ErrMnemonicInvalid(inst.Op.String())
		return
	}

	rj, err := dec.Layout.EncodeRj(inst.Rj)
	if err != nil {
		return
	}

	if inst.Op == OP_BLE {
		code = MakeCodeBle(inst.Ri, 0, inst.Addr) | Code(rj)
	} else {
		code = MakeCodeAlu(inst.Op, inst.Ri, 0, inst.Rk) | Code(rj)
	}

	return
}
