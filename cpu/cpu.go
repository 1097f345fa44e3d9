// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"github.com/ezrec/tinycomp/memory"
)

// RunState is the execution state of a CPU.
type RunState int

const (
	RUN_STATE_RUNNING = RunState(0) // running
	RUN_STATE_HALTED  = RunState(1) // halted
	RUN_STATE_FAULTED = RunState(2) // faulted
)

func (rs RunState) String() string {
	switch rs {
	case RUN_STATE_RUNNING:
		return "running"
	case RUN_STATE_HALTED:
		return "halted"
	case RUN_STATE_FAULTED:
		return "faulted"
	}
	return f("RunState(%d)", int(rs))
}

// Err returns the error reported when stepping a CPU in this state.
func (rs RunState) Err() error {
	switch rs {
	case RUN_STATE_HALTED:
		return ErrHalted
	case RUN_STATE_FAULTED:
		return ErrFaulted
	}
	return nil
}

// RegisterFile holds the general purpose registers, the program counter,
// the stack pointer, and the flags. Registers are named by an architecture
// specific id. Architectures with register pairs expose them through
// GetPair and SetPair.
type RegisterFile interface {
	Get(id uint8) (value uint8, err error)
	Set(id uint8, value uint8) (err error)
	GetPair(id uint8) (value uint16, err error)
	SetPair(id uint8, value uint16) (err error)
	// IsPair returns true if id names a 16-bit register pair.
	IsPair(id uint8) bool
	// Count is the number of scalar registers.
	Count() int

	Pc() uint16
	SetPc(pc uint16)
	Sp() uint16
	SetSp(sp uint16)
	Flags() FlagsRegister

	// Reset zeroes every register and flag.
	Reset()
}

// State is what an executing instruction can see and change.
type State interface {
	Registers() RegisterFile
	Memory() memory.Device

	// Cycles is the total of cycles consumed since reset.
	Cycles() uint64
	AddCycles(cycles int)

	RunState() RunState
	SetRunState(rs RunState)
}

// Cpu is a fetch-decode-execute engine.
type Cpu interface {
	State

	// Reset zeroes registers and flags, points the stack pointer at the
	// top of memory, and clears the program counter.
	Reset() (err error)
	// Step executes a single instruction.
	Step() (cycles int, err error)
	// Run resets, then steps until the CPU stops running.
	Run() (err error)
}

// Steps runs c until it stops running or limit steps have executed.
// A limit of zero or less is unbounded.
func Steps(c Cpu, limit int) (steps int, err error) {
	for c.RunState() == RUN_STATE_RUNNING {
		if limit > 0 && steps >= limit {
			err = ErrStepLimit
			return
		}
		_, err = c.Step()
		if err != nil {
			return
		}
		steps++
	}

	return
}
