// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package tiny

import (
	"fmt"

	"github.com/ezrec/tinycomp/isa"
)

// Instruction is a decoded Tiny Computer instruction.
//
// Dst is the register operand: the destination of data operations, the
// source of a store, and the subject of push, pop, in, and out. Src is the
// source register, or the address pair of the indirect and indexed modes.
// Value holds the literal, absolute address, index offset, or branch offset.
// Fields an opcode does not use are zero.
type Instruction struct {
	Opcode Opcode
	Dst    Register
	Src    Register
	Value  uint16
}

var _ isa.Instruction = Instruction{}

// MakeImplied creates an instruction without operands.
func MakeImplied(op Operation) Instruction {
	return Instruction{Opcode: MakeOpcode(op, MODE_IMMEDIATE)}
}

// MakeImmediate creates an immediate mode instruction. Scalar destinations
// keep only the low byte of the value.
func MakeImmediate(op Operation, dst Register, value uint16) Instruction {
	if !dst.IsPair() {
		value &= 0xff
	}
	return Instruction{Opcode: MakeOpcode(op, MODE_IMMEDIATE), Dst: dst, Value: value}
}

// MakeRegister creates a register to register instruction.
func MakeRegister(op Operation, dst, src Register) Instruction {
	return Instruction{Opcode: MakeOpcode(op, MODE_REGISTER), Dst: dst, Src: src}
}

// MakeIndirect creates an instruction addressing memory through a pair.
func MakeIndirect(op Operation, dst, pair Register) Instruction {
	return Instruction{Opcode: MakeOpcode(op, MODE_REGISTER_INDIRECT), Dst: dst, Src: pair}
}

// MakeIndexed creates an instruction addressing memory at a pair plus an offset.
func MakeIndexed(op Operation, dst, pair Register, offset uint16) Instruction {
	return Instruction{Opcode: MakeOpcode(op, MODE_REGISTER_INDEXED), Dst: dst, Src: pair, Value: offset}
}

// MakeDirect creates an instruction addressing an absolute location.
func MakeDirect(op Operation, reg Register, addr uint16) Instruction {
	return Instruction{Opcode: MakeOpcode(op, MODE_DIRECT), Dst: reg, Value: addr}
}

// MakeStack creates a push or pop.
func MakeStack(op Operation, reg Register) Instruction {
	return Instruction{Opcode: MakeOpcode(op, MODE_REGISTER), Dst: reg}
}

// MakeBranch creates a branch to an absolute address.
func MakeBranch(op Operation, addr uint16) Instruction {
	return Instruction{Opcode: MakeOpcode(op, MODE_DIRECT), Value: addr}
}

// MakeRelative creates a relative branch. Jmp takes a signed offset; Jmpf
// and Jmpb take an unsigned distance.
func MakeRelative(op Operation, offset uint8) Instruction {
	return Instruction{Opcode: MakeOpcode(op, MODE_RELATIVE), Value: uint16(offset)}
}

// MakeBranchIndirect creates a branch to the address held in a pair.
func MakeBranchIndirect(op Operation, pair Register) Instruction {
	return Instruction{Opcode: MakeOpcode(op, MODE_REGISTER_INDIRECT), Src: pair}
}

// Size is the encoded length in bytes.
func (inst Instruction) Size() int {
	return inst.Opcode.Length(inst.Dst)
}

// Cycles is the static cost of the instruction.
func (inst Instruction) Cycles() int {
	return inst.Opcode.Cycles()
}

func (inst Instruction) AffectsFlags() bool {
	return inst.Opcode.Operation().AffectsFlags()
}

func (inst Instruction) Category() isa.Category {
	return inst.Opcode.Operation().Category()
}

// Validate checks that the opcode is legal and the registers suit the mode.
func (inst Instruction) Validate() (err error) {
	if !inst.Opcode.Valid() {
		return isa.ErrInvalidOpcode
	}

	if !inst.Dst.Valid() || !inst.Src.Valid() {
		return isa.ErrInvalidRegister
	}

	mode := inst.Opcode.Mode()
	switch inst.Opcode.layout() {
	case LAYOUT_IMPLIED:
		if inst.Dst != 0 || inst.Src != 0 || inst.Value != 0 {
			return isa.ErrInvalidOpcode
		}
	case LAYOUT_UNARY:
		if inst.Dst.IsPair() != inst.Src.IsPair() {
			return isa.ErrInvalidRegister
		}
	case LAYOUT_BRANCH:
		if inst.Dst != 0 {
			return isa.ErrInvalidRegister
		}
		if mode == MODE_REGISTER_INDIRECT && !inst.Src.IsPair() {
			return isa.ErrInvalidRegister
		}
	case LAYOUT_DATA, LAYOUT_STORE:
		switch mode {
		case MODE_IMMEDIATE:
			if !inst.Dst.IsPair() && inst.Value > 0xff {
				return isa.ErrInvalidLength
			}
		case MODE_REGISTER:
			if inst.Dst.IsPair() != inst.Src.IsPair() {
				return isa.ErrInvalidRegister
			}
		case MODE_REGISTER_INDIRECT, MODE_REGISTER_INDEXED:
			if !inst.Src.IsPair() {
				return isa.ErrInvalidRegister
			}
		}
	}

	return
}

// Encode the instruction to bytes. Multi-byte operands are big-endian.
func (inst Instruction) Encode() (data []byte) {
	data = append(data, uint8(inst.Opcode))

	mode := inst.Opcode.Mode()
	switch inst.Opcode.layout() {
	case LAYOUT_IMPLIED:
	case LAYOUT_UNARY:
		data = append(data, PackRegisters(inst.Dst, inst.Src))
	case LAYOUT_STACK:
		data = append(data, uint8(inst.Dst))
	case LAYOUT_BRANCH:
		switch mode {
		case MODE_DIRECT:
			data = append(data, uint8(inst.Value>>8), uint8(inst.Value))
		case MODE_RELATIVE:
			data = append(data, uint8(inst.Value))
		case MODE_REGISTER_INDIRECT:
			data = append(data, PackRegisters(0, inst.Src))
		}
	default:
		switch mode {
		case MODE_IMMEDIATE:
			data = append(data, uint8(inst.Dst))
			if inst.Dst.IsPair() {
				data = append(data, uint8(inst.Value>>8))
			}
			data = append(data, uint8(inst.Value))
		case MODE_REGISTER, MODE_REGISTER_INDIRECT:
			data = append(data, PackRegisters(inst.Dst, inst.Src))
		case MODE_REGISTER_INDEXED:
			data = append(data, PackRegisters(inst.Dst, inst.Src), uint8(inst.Value>>8), uint8(inst.Value))
		case MODE_DIRECT:
			data = append(data, uint8(inst.Dst), uint8(inst.Value>>8), uint8(inst.Value))
		}
	}

	return
}

// Decode exactly one instruction from the start of data. Trailing bytes are
// ignored.
func Decode(data []byte) (inst Instruction, err error) {
	if len(data) == 0 {
		err = isa.ErrInvalidLength
		return
	}

	defer func() {
		if err != nil {
			inst = Instruction{}
			err = &isa.ErrOpcode{Opcode: data[0], Err: err}
		}
	}()

	oc, err := ParseOpcode(data[0])
	if err != nil {
		return
	}
	inst.Opcode = oc

	var reg Register
	if oc.NeedsRegister() {
		if len(data) < 2 {
			err = isa.ErrInvalidLength
			return
		}
		reg, err = ParseRegister(data[1])
		if err != nil {
			return
		}
	}

	size := oc.Length(reg)
	if len(data) < size {
		err = isa.ErrInvalidLength
		return
	}

	operands := data[1:size]
	word := func(at int) uint16 {
		return (uint16(operands[at]) << 8) | uint16(operands[at+1])
	}

	mode := oc.Mode()
	switch oc.layout() {
	case LAYOUT_IMPLIED:
	case LAYOUT_UNARY:
		inst.Dst, inst.Src, err = UnpackRegisters(operands[0])
	case LAYOUT_STACK:
		inst.Dst, err = ParseRegister(operands[0])
	case LAYOUT_BRANCH:
		switch mode {
		case MODE_DIRECT:
			inst.Value = word(0)
		case MODE_RELATIVE:
			inst.Value = uint16(operands[0])
		case MODE_REGISTER_INDIRECT:
			inst.Dst, inst.Src, err = UnpackRegisters(operands[0])
		}
	default:
		switch mode {
		case MODE_IMMEDIATE:
			inst.Dst = reg
			if reg.IsPair() {
				inst.Value = word(1)
			} else {
				inst.Value = uint16(operands[1])
			}
		case MODE_REGISTER, MODE_REGISTER_INDIRECT:
			inst.Dst, inst.Src, err = UnpackRegisters(operands[0])
		case MODE_REGISTER_INDEXED:
			inst.Dst, inst.Src, err = UnpackRegisters(operands[0])
			inst.Value = word(1)
		case MODE_DIRECT:
			inst.Dst, err = ParseRegister(operands[0])
			inst.Value = word(1)
		}
	}
	if err != nil {
		return
	}

	err = inst.Validate()
	return
}

// Disassemble renders the instruction as assembly text.
func (inst Instruction) Disassemble() string {
	if !inst.Opcode.Valid() {
		return fmt.Sprintf(".byte 0x%02x", uint8(inst.Opcode))
	}

	op := inst.Opcode.Operation()
	switch inst.Opcode.layout() {
	case LAYOUT_IMPLIED:
		return op.String()
	case LAYOUT_STORE:
		return fmt.Sprintf("%v %v, %v", op, inst.Operand().Format(), inst.Dst)
	case LAYOUT_STACK:
		return fmt.Sprintf("%v %v", op, inst.Dst)
	case LAYOUT_BRANCH:
		return fmt.Sprintf("%v %v", op, inst.Operand().Format())
	case LAYOUT_PORT:
		if op == OP_OUT {
			return fmt.Sprintf("%v %v, %v", op, inst.Operand().Format(), inst.Dst)
		}
	}

	return fmt.Sprintf("%v %v, %v", op, inst.Dst, inst.Operand().Format())
}

func (inst Instruction) String() string {
	return inst.Disassemble()
}
