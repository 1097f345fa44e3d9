// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package tiny

import (
	"github.com/ezrec/tinycomp/cpu"
	"github.com/ezrec/tinycomp/isa"
	"github.com/ezrec/tinycomp/memory"
)

// boundState directs stack accesses at the memory an instruction executes
// against.
type boundState struct {
	cpu.State
	mem memory.Device
}

func (bs boundState) Memory() memory.Device {
	return bs.mem
}

func readRegister(regs cpu.RegisterFile, reg Register) (value uint16, err error) {
	if reg.IsPair() {
		return regs.GetPair(uint8(reg))
	}

	scalar, err := regs.Get(uint8(reg))
	value = uint16(scalar)
	return
}

func writeRegister(regs cpu.RegisterFile, reg Register, value uint16) (err error) {
	if reg.IsPair() {
		return regs.SetPair(uint8(reg), value)
	}

	return regs.Set(uint8(reg), uint8(value))
}

func readMemory(mem memory.Device, addr uint16, wide bool) (value uint16, err error) {
	if wide {
		return memory.Read16(mem, addr)
	}

	scalar, err := mem.Read(addr)
	value = uint16(scalar)
	return
}

func writeMemory(mem memory.Device, addr uint16, value uint16, wide bool) (err error) {
	if wide {
		return memory.Write16(mem, addr, value)
	}

	return mem.Write(addr, uint8(value))
}

// fetch reads the source operand, at the width of the destination.
func (inst Instruction) fetch(state cpu.State, mem memory.Device) (value uint16, err error) {
	loc, err := inst.Operand().Resolve(state)
	if err != nil {
		return
	}

	switch loc.Source {
	case isa.SOURCE_VALUE:
		value = loc.Value
	case isa.SOURCE_REGISTER:
		value, err = readRegister(state.Registers(), Register(loc.Register))
	case isa.SOURCE_MEMORY:
		value, err = readMemory(mem, loc.Address, inst.Dst.IsPair())
	default:
		err = isa.ErrUnsupportedFeature
	}

	return
}

// alu computes a result and the ALU flags at 8 or 16 bits.
func alu(op Operation, a, b uint16, wide bool) (result uint16, flags uint8, err error) {
	bits := uint16(8)
	mask := uint32(0xff)
	if wide {
		bits = 16
		mask = 0xffff
	}
	sign := uint16(1) << (bits - 1)

	var carry, overflow bool
	var full uint32

	switch op {
	case OP_ADD:
		full = uint32(a) + uint32(b)
		carry = full > mask
		result = uint16(full & mask)
		overflow = ((a ^ result) & (b ^ result) & sign) != 0
	case OP_SUB, OP_CMP:
		result = uint16((uint32(a) - uint32(b)) & mask)
		carry = b > a
		overflow = ((a ^ b) & (a ^ result) & sign) != 0
	case OP_MUL:
		full = uint32(a) * uint32(b)
		carry = full > mask
		result = uint16(full & mask)
	case OP_DIV, OP_MOD:
		if b == 0 {
			err = isa.ErrDivideByZero
			return
		}
		if op == OP_DIV {
			result = a / b
		} else {
			result = a % b
		}
	case OP_AND:
		result = a & b
	case OP_OR:
		result = a | b
	case OP_XOR:
		result = a ^ b
	case OP_NOT:
		result = uint16(uint32(^b) & mask)
	case OP_LSH:
		switch {
		case b == 0:
			result = a
		case b <= bits:
			carry = ((a >> (bits - b)) & 1) != 0
			result = uint16((uint32(a) << b) & mask)
		}
	case OP_RSH:
		switch {
		case b == 0:
			result = a
		case b <= bits:
			carry = ((a >> (b - 1)) & 1) != 0
			result = a >> b
		}
	default:
		err = isa.ErrUnsupportedFeature
		return
	}

	if result == 0 {
		flags |= FLAG_ZERO
	}
	if (result & sign) != 0 {
		flags |= FLAG_NEGATIVE
	}
	if carry {
		flags |= FLAG_CARRY
	}
	if overflow {
		flags |= FLAG_OVERFLOW
	}

	return
}

// Execute the instruction. The program counter must already point past it.
func (inst Instruction) Execute(state cpu.State, mem memory.Device) (cycles int, err error) {
	defer func() {
		if err != nil {
			err = &isa.ErrOpcode{Opcode: uint8(inst.Opcode), Err: err}
		}
	}()

	err = inst.Validate()
	if err != nil {
		return
	}

	state = boundState{State: state, mem: mem}
	regs := state.Registers()
	op := inst.Opcode.Operation()
	cycles = inst.Cycles()

	if !op.info().supported {
		err = isa.ErrUnsupportedFeature
		return
	}

	switch op {
	case OP_NOP:
	case OP_HALT:
		state.SetRunState(cpu.RUN_STATE_HALTED)
	case OP_LOAD:
		var value uint16
		value, err = inst.fetch(state, mem)
		if err != nil {
			return
		}
		err = writeRegister(regs, inst.Dst, value)
	case OP_WRITE:
		var value uint16
		value, err = readRegister(regs, inst.Dst)
		if err != nil {
			return
		}
		var loc isa.Location
		loc, err = inst.Operand().Resolve(state)
		if err != nil {
			return
		}
		err = writeMemory(mem, loc.Address, value, inst.Dst.IsPair())
	case OP_ADD, OP_SUB, OP_MUL, OP_DIV, OP_MOD,
		OP_AND, OP_OR, OP_XOR, OP_LSH, OP_RSH, OP_CMP, OP_NOT:
		err = inst.executeAlu(state, mem)
	case OP_JMP, OP_JMPF, OP_JMPB:
		var target uint16
		target, err = inst.Operand().target(regs)
		if err != nil {
			return
		}
		if inst.Opcode.Mode() == MODE_RELATIVE && (target>>8) != (regs.Pc()>>8) {
			cycles++
		}
		regs.SetPc(target)
	case OP_CALL:
		err = cpu.Push16(state, regs.Pc())
		if err != nil {
			return
		}
		regs.SetPc(inst.Value)
	case OP_RET:
		var pc uint16
		pc, err = cpu.Pop16(state)
		if err != nil {
			return
		}
		regs.SetPc(pc)
	case OP_PUSH:
		var value uint16
		value, err = readRegister(regs, inst.Dst)
		if err != nil {
			return
		}
		if inst.Dst.IsPair() {
			err = cpu.Push16(state, value)
		} else {
			err = cpu.Push(state, uint8(value))
		}
	case OP_POP:
		var value uint16
		if inst.Dst.IsPair() {
			value, err = cpu.Pop16(state)
		} else {
			var scalar uint8
			scalar, err = cpu.Pop(state)
			value = uint16(scalar)
		}
		if err != nil {
			return
		}
		err = writeRegister(regs, inst.Dst, value)
	default:
		err = isa.ErrUnsupportedFeature
	}

	return
}

func (inst Instruction) executeAlu(state cpu.State, mem memory.Device) (err error) {
	regs := state.Registers()
	op := inst.Opcode.Operation()

	var a uint16
	if op != OP_NOT {
		a, err = readRegister(regs, inst.Dst)
		if err != nil {
			return
		}
	}

	b, err := inst.fetch(state, mem)
	if err != nil {
		return
	}

	result, flags, err := alu(op, a, b, inst.Dst.IsPair())
	if err != nil {
		return
	}

	if op != OP_CMP {
		err = writeRegister(regs, inst.Dst, result)
		if err != nil {
			return
		}
	}

	regs.Flags().Update(FLAG_ALU_MASK, flags)
	return
}
