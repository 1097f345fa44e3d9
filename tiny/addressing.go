// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package tiny

import (
	"fmt"

	"github.com/ezrec/tinycomp/cpu"
	"github.com/ezrec/tinycomp/isa"
	"github.com/ezrec/tinycomp/memory"
)

// Operand is the addressing mode of an instruction, bound to the operand
// values of that instruction.
type Operand struct {
	inst Instruction
}

var _ isa.AddressingMode = Operand{}

// Operand returns the addressing mode of the instruction.
func (inst Instruction) Operand() Operand {
	return Operand{inst: inst}
}

func (od Operand) mode() Mode {
	return od.inst.Opcode.Mode()
}

// Size is the number of operand bytes following the opcode.
func (od Operand) Size() int {
	return od.inst.Size() - 1
}

// Format renders the operand in assembly syntax.
func (od Operand) Format() string {
	inst := od.inst

	switch inst.Opcode.layout() {
	case LAYOUT_IMPLIED:
		return ""
	case LAYOUT_STACK:
		return inst.Dst.String()
	case LAYOUT_UNARY:
		return inst.Src.String()
	case LAYOUT_BRANCH:
		switch od.mode() {
		case MODE_DIRECT:
			return fmt.Sprintf("0x%04x", inst.Value)
		case MODE_REGISTER_INDIRECT:
			return fmt.Sprintf("[%v]", inst.Src)
		}
		switch inst.Opcode.Operation() {
		case OP_JMPF:
			return fmt.Sprintf("+%d", inst.Value)
		case OP_JMPB:
			return fmt.Sprintf("-%d", inst.Value)
		}
		return fmt.Sprintf("%+d", int8(uint8(inst.Value)))
	}

	switch od.mode() {
	case MODE_IMMEDIATE:
		if inst.Dst.IsPair() {
			return fmt.Sprintf("#0x%04x", inst.Value)
		}
		return fmt.Sprintf("#0x%02x", inst.Value)
	case MODE_REGISTER:
		return inst.Src.String()
	case MODE_REGISTER_INDIRECT:
		return fmt.Sprintf("[%v]", inst.Src)
	case MODE_REGISTER_INDEXED:
		return fmt.Sprintf("[%v+0x%04x]", inst.Src, inst.Value)
	}

	return fmt.Sprintf("[0x%04x]", inst.Value)
}

func (od Operand) indirect() bool {
	mode := od.mode()
	switch od.inst.Opcode.layout() {
	case LAYOUT_IMPLIED, LAYOUT_STACK, LAYOUT_UNARY:
		return false
	}
	return mode == MODE_REGISTER_INDIRECT || mode == MODE_REGISTER_INDEXED
}

// ValidRegister returns true if the mode accepts the register as its source.
func (od Operand) ValidRegister(id uint8) bool {
	reg, err := ParseRegister(id)
	if err != nil {
		return false
	}

	if od.indirect() {
		return reg.IsPair()
	}

	if od.mode() == MODE_REGISTER && od.inst.Opcode.layout() != LAYOUT_STACK {
		return reg.IsPair() == od.inst.Dst.IsPair()
	}

	return true
}

// ValidAddress returns true if some register state makes the operand
// address memory at addr.
func (od Operand) ValidAddress(addr uint16) bool {
	switch od.inst.Opcode.layout() {
	case LAYOUT_IMPLIED, LAYOUT_STACK, LAYOUT_UNARY, LAYOUT_BRANCH:
		return false
	}

	switch od.mode() {
	case MODE_REGISTER_INDEXED:
		return addr >= od.inst.Value
	case MODE_REGISTER_INDIRECT:
		return true
	case MODE_DIRECT:
		return addr == od.inst.Value
	}

	return false
}

// Resolve the operand against the CPU state. Branch operands resolve to
// the target program counter as a value.
func (od Operand) Resolve(state cpu.State) (loc isa.Location, err error) {
	inst := od.inst
	regs := state.Registers()

	switch inst.Opcode.layout() {
	case LAYOUT_IMPLIED:
		return
	case LAYOUT_STACK:
		loc = isa.Location{Source: isa.SOURCE_REGISTER, Register: uint8(inst.Dst)}
		return
	case LAYOUT_UNARY:
		loc = isa.Location{Source: isa.SOURCE_REGISTER, Register: uint8(inst.Src)}
		return
	case LAYOUT_BRANCH:
		var target uint16
		target, err = od.target(regs)
		loc = isa.Location{Source: isa.SOURCE_VALUE, Value: target}
		return
	}

	switch od.mode() {
	case MODE_IMMEDIATE:
		loc = isa.Location{Source: isa.SOURCE_VALUE, Value: inst.Value}
	case MODE_REGISTER:
		loc = isa.Location{Source: isa.SOURCE_REGISTER, Register: uint8(inst.Src)}
	case MODE_REGISTER_INDIRECT:
		var addr uint16
		addr, err = regs.GetPair(uint8(inst.Src))
		loc = isa.Location{Source: isa.SOURCE_MEMORY, Address: addr}
	case MODE_REGISTER_INDEXED:
		var base uint16
		base, err = regs.GetPair(uint8(inst.Src))
		if err != nil {
			return
		}
		addr := int(base) + int(inst.Value)
		if addr > 0xffff {
			err = &memory.ErrAccess{Addr: base, Err: memory.ErrAddressOutOfBounds}
			return
		}
		loc = isa.Location{Source: isa.SOURCE_MEMORY, Address: uint16(addr)}
	case MODE_DIRECT:
		loc = isa.Location{Source: isa.SOURCE_MEMORY, Address: inst.Value}
	default:
		err = isa.ErrUnsupportedFeature
	}

	return
}

func (od Operand) target(regs cpu.RegisterFile) (target uint16, err error) {
	inst := od.inst

	switch od.mode() {
	case MODE_DIRECT:
		target = inst.Value
		return
	case MODE_REGISTER_INDIRECT:
		return regs.GetPair(uint8(inst.Src))
	}

	pc := int(regs.Pc())
	switch inst.Opcode.Operation() {
	case OP_JMPF:
		pc += int(inst.Value)
	case OP_JMPB:
		pc -= int(inst.Value)
	default:
		pc += int(int8(uint8(inst.Value)))
	}

	if pc < 0 || pc > 0xffff {
		err = cpu.ErrPcOverflow
		return
	}

	target = uint16(pc)
	return
}
