package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/tinycomp/memory"
)

type testRegisters struct {
	reg   [4]uint8
	pc    uint16
	sp    uint16
	flags Flags
}

func (tr *testRegisters) Get(id uint8) (value uint8, err error) {
	value = tr.reg[id&3]
	return
}

func (tr *testRegisters) Set(id uint8, value uint8) (err error) {
	tr.reg[id&3] = value
	return
}

func (tr *testRegisters) GetPair(id uint8) (value uint16, err error) {
	return
}

func (tr *testRegisters) SetPair(id uint8, value uint16) (err error) {
	return
}

func (tr *testRegisters) IsPair(id uint8) bool { return false }
func (tr *testRegisters) Count() int { return len(tr.reg) }
func (tr *testRegisters) Pc() uint16 { return tr.pc }
func (tr *testRegisters) SetPc(pc uint16) { tr.pc = pc }
func (tr *testRegisters) Sp() uint16 { return tr.sp }
func (tr *testRegisters) SetSp(sp uint16) { tr.sp = sp }
func (tr *testRegisters) Flags() FlagsRegister { return &tr.flags }
func (tr *testRegisters) Reset() { *tr = testRegisters{} }

type testState struct {
	regs     testRegisters
	mem      memory.Device
	cycles   uint64
	runState RunState
	steps    int
}

func newTestState(size int) (ts *testState) {
	ts = &testState{mem: memory.NewRam(size)}
	ts.regs.sp = StackTop(ts.mem)
	return
}

func (ts *testState) Registers() RegisterFile { return &ts.regs }
func (ts *testState) Memory() memory.Device { return ts.mem }
func (ts *testState) Cycles() uint64 { return ts.cycles }
func (ts *testState) AddCycles(cycles int) { ts.cycles += uint64(cycles) }
func (ts *testState) RunState() RunState { return ts.runState }
func (ts *testState) SetRunState(rs RunState) { ts.runState = rs }

func TestStack_Lifo(t *testing.T) {
	assert := assert.New(t)

	ts := newTestState(16)
	assert.Equal(uint16(15), ts.regs.sp)

	values := []uint8{1, 2, 3, 4, 5}
	for _, value := range values {
		assert.NoError(Push(ts, value))
	}
	assert.Equal(uint16(10), ts.regs.sp)

	for i := len(values) - 1; i >= 0; i-- {
		value, err := Pop(ts)
		assert.NoError(err)
		assert.Equal(values[i], value)
	}
	assert.Equal(uint16(15), ts.regs.sp)

	_, err := Pop(ts)
	assert.ErrorIs(err, ErrStackUnderflow)
}

func TestStack_Overflow(t *testing.T) {
	assert := assert.New(t)

	ts := newTestState(4)
	assert.NoError(Push(ts, 1))
	assert.NoError(Push(ts, 2))
	assert.NoError(Push(ts, 3))
	assert.ErrorIs(Push(ts, 4), ErrStackOverflow)
	assert.Equal(uint16(0), ts.regs.sp)
}

func TestStack_Wide(t *testing.T) {
	assert := assert.New(t)

	ts := newTestState(8)
	assert.NoError(Push16(ts, 0x1234))
	assert.NoError(Push(ts, 0x56))

	ram := ts.mem.(*memory.Ram)
	assert.Equal(uint8(0x12), ram.Data[7])
	assert.Equal(uint8(0x34), ram.Data[6])

	value, err := Pop(ts)
	assert.NoError(err)
	assert.Equal(uint8(0x56), value)

	wide, err := Pop16(ts)
	assert.NoError(err)
	assert.Equal(uint16(0x1234), wide)

	_, err = Pop16(ts)
	assert.ErrorIs(err, ErrStackUnderflow)

	ts.regs.sp = 1
	assert.ErrorIs(Push16(ts, 0), ErrStackOverflow)
	assert.Equal(uint16(1), ts.regs.sp)
}

func TestStackTop(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(uint16(0), StackTop(memory.NewRam(0)))
	assert.Equal(uint16(0xff), StackTop(memory.NewRam(0x100)))

	bus := memory.NewBus()
	assert.NoError(bus.Attach(0x0000, 0x7fff, false, memory.NewRam(0x8000)))
	assert.NoError(bus.Attach(0x8000, 0xffff, false, memory.NewRam(0x8000)))
	assert.Equal(uint16(0xffff), StackTop(bus))
}
