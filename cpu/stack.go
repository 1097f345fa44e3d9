// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"github.com/ezrec/tinycomp/memory"
)

// StackTop is the initial stack pointer for a memory: its last address.
func StackTop(mem memory.Device) uint16 {
	size := mem.Size()
	switch {
	case size <= 0:
		return 0
	case size > 0x10000:
		return 0xffff
	}
	return uint16(size - 1)
}

// Push writes a byte at sp, then decrements sp.
func Push(state State, value uint8) (err error) {
	regs := state.Registers()
	sp := regs.Sp()
	if sp == 0 {
		err = ErrStackOverflow
		return
	}

	err = state.Memory().Write(sp, value)
	if err != nil {
		return
	}

	regs.SetSp(sp - 1)
	return
}

// Pop increments sp, then reads the byte at sp. Between pushes and pops, sp
// points at the next free slot.
func Pop(state State) (value uint8, err error) {
	regs := state.Registers()
	sp := regs.Sp()
	if sp >= StackTop(state.Memory()) {
		err = ErrStackUnderflow
		return
	}

	value, err = state.Memory().Read(sp + 1)
	if err != nil {
		return
	}

	regs.SetSp(sp + 1)
	return
}

// Push16 pushes the high byte, then the low byte.
func Push16(state State, value uint16) (err error) {
	if state.Registers().Sp() < 2 {
		err = ErrStackOverflow
		return
	}

	err = Push(state, uint8(value>>8))
	if err != nil {
		return
	}

	err = Push(state, uint8(value))
	return
}

// Pop16 pops the low byte, then the high byte.
func Pop16(state State) (value uint16, err error) {
	if int(state.Registers().Sp())+2 > int(StackTop(state.Memory())) {
		err = ErrStackUnderflow
		return
	}

	lo, err := Pop(state)
	if err != nil {
		return
	}

	hi, err := Pop(state)
	if err != nil {
		return
	}

	value = (uint16(hi) << 8) | uint16(lo)
	return
}
