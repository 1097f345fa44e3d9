// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package tiny

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ezrec/tinycomp/cpu"
	"github.com/ezrec/tinycomp/isa"
	"github.com/ezrec/tinycomp/memory"
)

// Cpu is the fetch-decode-execute engine of the Tiny Computer.
type Cpu struct {
	Verbose bool               // Set to trace every step.
	Logger  logrus.FieldLogger // Trace destination; the standard logger if nil.

	Regs RegisterFile  // Register state.
	Mem  memory.Device // Memory the CPU executes from.

	cycles   uint64
	runState cpu.RunState
}

var _ cpu.Cpu = (*Cpu)(nil)

// NewCpu creates a reset CPU attached to a memory.
func NewCpu(mem memory.Device) (tc *Cpu) {
	tc = &Cpu{Mem: mem}
	tc.Reset()
	return
}

func (tc *Cpu) logger() logrus.FieldLogger {
	if tc.Logger == nil {
		return logrus.StandardLogger()
	}
	return tc.Logger
}

func (tc *Cpu) Registers() cpu.RegisterFile {
	return &tc.Regs
}

func (tc *Cpu) Memory() memory.Device {
	return tc.Mem
}

func (tc *Cpu) Cycles() uint64 {
	return tc.cycles
}

func (tc *Cpu) AddCycles(cycles int) {
	tc.cycles += uint64(cycles)
}

func (tc *Cpu) RunState() cpu.RunState {
	return tc.runState
}

func (tc *Cpu) SetRunState(rs cpu.RunState) {
	tc.runState = rs
}

// Isa returns the instruction set of the CPU.
func (tc *Cpu) Isa() isa.InstructionSet {
	return Isa{}
}

// Reset zeroes the registers and flags, sets the stack pointer to the last
// address of memory, clears the program counter and cycle count, and
// resumes running.
func (tc *Cpu) Reset() (err error) {
	tc.Regs.Reset()
	tc.Regs.SP = cpu.StackTop(tc.Mem)
	tc.cycles = 0
	tc.runState = cpu.RUN_STATE_RUNNING

	if tc.Verbose {
		tc.logger().WithField("sp", tc.Regs.SP).Debug("cpu: reset")
	}

	return
}

// Fetch decodes the instruction at pc, reading only the bytes it occupies.
func (tc *Cpu) Fetch(pc uint16) (inst Instruction, err error) {
	data := make([]byte, 0, ISA_MAX_SIZE)

	read := func(count int) (err error) {
		for len(data) < count {
			addr := int(pc) + len(data)
			if addr > 0xffff {
				return cpu.ErrPcOverflow
			}
			var value uint8
			value, err = tc.Mem.Read(uint16(addr))
			if err != nil {
				return
			}
			data = append(data, value)
		}
		return
	}

	err = read(1)
	if err != nil {
		return
	}

	oc, err := ParseOpcode(data[0])
	if err != nil {
		err = &isa.ErrOpcode{Opcode: data[0], Err: err}
		return
	}

	var reg Register
	if oc.NeedsRegister() {
		err = read(2)
		if err != nil {
			return
		}
		reg = Register(data[1])
	}

	err = read(oc.Length(reg))
	if err != nil {
		return
	}

	return Decode(data)
}

// Step executes a single instruction, and returns the cycles it consumed.
// Any error faults the CPU.
func (tc *Cpu) Step() (cycles int, err error) {
	err = tc.runState.Err()
	if err != nil {
		return
	}

	defer func() {
		if err != nil {
			tc.runState = cpu.RUN_STATE_FAULTED
		}
	}()

	pc := tc.Regs.PC
	inst, err := tc.Fetch(pc)
	if err != nil {
		return
	}

	next := int(pc) + inst.Size()
	if next > 0xffff {
		err = cpu.ErrPcOverflow
		return
	}
	tc.Regs.PC = uint16(next)

	cycles, err = inst.Execute(tc, tc.Mem)
	tc.AddCycles(cycles)

	if tc.Verbose {
		entry := tc.logger().WithFields(logrus.Fields{
			"pc":     pc,
			"opcode": uint8(inst.Opcode),
			"cycles": cycles,
		})
		if err != nil {
			entry = entry.WithError(err)
		}
		entry.Debug(inst.Disassemble())
	}

	return
}

// Run resets the CPU and steps until it halts or faults.
func (tc *Cpu) Run() (err error) {
	err = tc.Reset()
	if err != nil {
		return
	}

	_, err = cpu.Steps(tc, 0)
	return
}

// Push a byte onto the stack.
func (tc *Cpu) Push(value uint8) error {
	return cpu.Push(tc, value)
}

// Pop a byte from the stack.
func (tc *Cpu) Pop() (uint8, error) {
	return cpu.Pop(tc)
}

// Load writes an encoded program into memory at addr, and returns the
// address following it.
func (tc *Cpu) Load(addr uint16, program []Instruction) (next uint16, err error) {
	next = addr
	for _, inst := range program {
		for _, value := range inst.Encode() {
			err = tc.Mem.Write(next, value)
			if err != nil {
				return
			}
			next++
		}
	}
	return
}

var _flag_names = []struct {
	flag uint8
	name byte
}{
	{FLAG_CONDITION, 'c'},
	{FLAG_DECIMAL, 'd'},
	{FLAG_INTERRUPT, 'i'},
	{FLAG_OVERFLOW, 'V'},
	{FLAG_CARRY, 'C'},
	{FLAG_NEGATIVE, 'N'},
	{FLAG_ZERO, 'Z'},
}

// String returns the current CPU state as a string.
func (tc *Cpu) String() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "pc=%04x sp=%04x", tc.Regs.PC, tc.Regs.SP)
	for reg := range Register(REGISTER_COUNT) {
		fmt.Fprintf(&sb, " %v=%02x", reg, tc.Regs.Reg[reg])
	}

	flags := []byte{}
	for _, fn := range _flag_names {
		if tc.Regs.Flag.Test(fn.flag) {
			flags = append(flags, fn.name)
		} else {
			flags = append(flags, '-')
		}
	}
	fmt.Fprintf(&sb, " flags=%s %v cycles=%d", flags, tc.runState, tc.cycles)

	return sb.String()
}
