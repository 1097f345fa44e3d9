package tiny

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezrec/tinycomp/cpu"
	"github.com/ezrec/tinycomp/isa"
	"github.com/ezrec/tinycomp/memory"
)

func newTestCpu(t *testing.T, program ...Instruction) (tc *Cpu, ram *memory.Ram) {
	bus := memory.NewBus()
	ram = memory.NewRam(0x10000)
	require.NoError(t, bus.Attach(0x0000, 0xffff, false, ram))

	tc = NewCpu(bus)
	_, err := tc.Load(0, program)
	require.NoError(t, err)
	return
}

func TestCpu_Reset(t *testing.T) {
	assert := assert.New(t)

	tc, _ := newTestCpu(t)
	tc.Regs.Reg[REG_A] = 1
	tc.Regs.PC = 0x100
	tc.Regs.Flag.Set(FLAG_ZERO)
	tc.AddCycles(5)

	assert.NoError(tc.Reset())
	assert.Equal(uint16(0xffff), tc.Regs.SP)
	assert.Equal(uint16(0), tc.Regs.PC)
	assert.Equal(uint8(0), tc.Regs.Reg[REG_A])
	assert.Equal(uint8(0), tc.Regs.Flag.Get())
	assert.Equal(uint64(0), tc.Cycles())
	assert.Equal(cpu.RUN_STATE_RUNNING, tc.RunState())

	small := memory.NewBus()
	assert.NoError(small.Attach(0x0000, 0x00ff, false, memory.NewRam(0x100)))
	assert.Equal(uint16(0xff), NewCpu(small).Regs.SP)
}

func TestCpu_LoadImmediate(t *testing.T) {
	assert := assert.New(t)

	tc, _ := newTestCpu(t,
		MakeImmediate(OP_LOAD, REG_A, 0x42),
		MakeImmediate(OP_LOAD, REG_AB, 0x1234),
	)

	cycles, err := tc.Step()
	assert.NoError(err)
	assert.Equal(2, cycles)
	assert.Equal(uint8(0x42), tc.Regs.Reg[REG_A])
	assert.Equal(uint16(3), tc.Regs.PC)

	_, err = tc.Step()
	assert.NoError(err)
	assert.Equal(uint8(0x12), tc.Regs.Reg[REG_A])
	assert.Equal(uint8(0x34), tc.Regs.Reg[REG_B])
	assert.Equal(uint16(7), tc.Regs.PC)
	assert.Equal(uint64(4), tc.Cycles())
}

func TestCpu_DataModes(t *testing.T) {
	assert := assert.New(t)

	tc, ram := newTestCpu(t,
		MakeImmediate(OP_LOAD, REG_HL, 0x2000),
		MakeIndirect(OP_LOAD, REG_A, REG_HL),
		MakeIndexed(OP_LOAD, REG_B, REG_HL, 0x0002),
		MakeDirect(OP_LOAD, REG_C, 0x2001),
		MakeIndirect(OP_LOAD, REG_GZ, REG_HL),
		MakeRegister(OP_LOAD, REG_D, REG_A),
		MakeRegister(OP_LOAD, REG_CD, REG_GZ),
		MakeDirect(OP_WRITE, REG_A, 0x3000),
		MakeIndexed(OP_WRITE, REG_GZ, REG_HL, 0x1010),
		MakeIndirect(OP_WRITE, REG_B, REG_HL),
		MakeImplied(OP_HALT),
	)
	copy(ram.Data[0x2000:], []uint8{0xa1, 0xb2, 0xc3})

	assert.NoError(tc.Run())
	assert.Equal(cpu.RUN_STATE_HALTED, tc.RunState())

	assert.Equal(uint8(0xa1), tc.Regs.Reg[REG_A])
	assert.Equal(uint8(0xc3), tc.Regs.Reg[REG_B])
	assert.Equal(uint8(0xa1), tc.Regs.Reg[REG_C])
	assert.Equal(uint8(0xb2), tc.Regs.Reg[REG_D])
	assert.Equal(uint8(0xa1), tc.Regs.Reg[REG_G])
	assert.Equal(uint8(0xb2), tc.Regs.Reg[REG_Z])
	pair, err := tc.Regs.GetPair(uint8(REG_CD))
	assert.NoError(err)
	assert.Equal(uint16(0xa1b2), pair)

	assert.Equal(uint8(0xa1), ram.Data[0x3000])
	assert.Equal([]uint8{0xa1, 0xb2}, ram.Data[0x3010:0x3012])
	assert.Equal(uint8(0xc3), ram.Data[0x2000])

	// Loads and stores leave the flags alone.
	assert.Equal(uint8(0), tc.Regs.Flag.Get())
}

func TestCpu_Alu(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name   string
		op     Operation
		a      uint16
		b      uint16
		wide   bool
		result uint16
		flags  uint8
	}){
		{"add", OP_ADD, 0x12, 0x34, false, 0x46, 0},
		{"add_carry_zero", OP_ADD, 0xff, 0x01, false, 0x00, FLAG_ZERO | FLAG_CARRY},
		{"add_overflow", OP_ADD, 0x7f, 0x01, false, 0x80, FLAG_NEGATIVE | FLAG_OVERFLOW},
		{"add_wide_carry", OP_ADD, 0xffff, 0x0001, true, 0x0000, FLAG_ZERO | FLAG_CARRY},
		{"add_wide", OP_ADD, 0x00ff, 0x0001, true, 0x0100, 0},
		{"sub_borrow", OP_SUB, 0x00, 0x01, false, 0xff, FLAG_NEGATIVE | FLAG_CARRY},
		{"sub_overflow", OP_SUB, 0x80, 0x01, false, 0x7f, FLAG_OVERFLOW},
		{"cmp_equal", OP_CMP, 0x55, 0x55, false, 0x00, FLAG_ZERO},
		{"mul", OP_MUL, 0x10, 0x10, false, 0x00, FLAG_ZERO | FLAG_CARRY},
		{"mul_wide", OP_MUL, 0x0010, 0x0010, true, 0x0100, 0},
		{"div", OP_DIV, 0x64, 0x07, false, 0x0e, 0},
		{"mod", OP_MOD, 0x64, 0x07, false, 0x02, 0},
		{"and", OP_AND, 0xf0, 0x0f, false, 0x00, FLAG_ZERO},
		{"or", OP_OR, 0xf0, 0x0f, false, 0xff, FLAG_NEGATIVE},
		{"xor", OP_XOR, 0xff, 0x0f, false, 0xf0, FLAG_NEGATIVE},
		{"not", OP_NOT, 0, 0xff, false, 0x00, FLAG_ZERO},
		{"not_wide", OP_NOT, 0, 0x00ff, true, 0xff00, FLAG_NEGATIVE},
		{"lsh", OP_LSH, 0x81, 1, false, 0x02, FLAG_CARRY},
		{"lsh_all", OP_LSH, 0x01, 8, false, 0x00, FLAG_ZERO | FLAG_CARRY},
		{"lsh_past", OP_LSH, 0xff, 9, false, 0x00, FLAG_ZERO},
		{"rsh", OP_RSH, 0x03, 1, false, 0x01, FLAG_CARRY},
		{"rsh_zero", OP_RSH, 0x80, 0, false, 0x80, FLAG_NEGATIVE},
	}

	for _, entry := range table {
		result, flags, err := alu(entry.op, entry.a, entry.b, entry.wide)
		assert.NoError(err, entry.name)
		assert.Equal(entry.result, result, entry.name)
		assert.Equal(entry.flags, flags, entry.name)
	}

	_, _, err := alu(OP_DIV, 1, 0, false)
	assert.ErrorIs(err, isa.ErrDivideByZero)
	_, _, err = alu(OP_MOD, 1, 0, true)
	assert.ErrorIs(err, isa.ErrDivideByZero)
}

func TestCpu_AluExecute(t *testing.T) {
	assert := assert.New(t)

	tc, _ := newTestCpu(t,
		MakeImmediate(OP_LOAD, REG_A, 0xff),
		MakeImmediate(OP_ADD, REG_A, 0x01),
		MakeImmediate(OP_LOAD, REG_B, 0x07),
		MakeImmediate(OP_CMP, REG_B, 0x07),
		MakeImmediate(OP_LOAD, REG_HL, 0x1000),
		MakeImmediate(OP_ADD, REG_HL, 0x0234),
		MakeImplied(OP_HALT),
	)
	tc.Regs.Flag.Set(FLAG_INTERRUPT)

	_, err := tc.Step()
	assert.NoError(err)
	_, err = tc.Step()
	assert.NoError(err)
	assert.Equal(uint8(0), tc.Regs.Reg[REG_A])
	assert.True(tc.Regs.Flag.Test(FLAG_ZERO | FLAG_CARRY | FLAG_INTERRUPT))

	_, err = cpu.Steps(tc, 0)
	assert.NoError(err)
	assert.Equal(uint8(0x07), tc.Regs.Reg[REG_B])

	hl, err := tc.Regs.GetPair(uint8(REG_HL))
	assert.NoError(err)
	assert.Equal(uint16(0x1234), hl)
	assert.False(tc.Regs.Flag.Any(FLAG_ZERO | FLAG_CARRY))
	assert.True(tc.Regs.Flag.Test(FLAG_INTERRUPT))
}

func TestCpu_StackMemory(t *testing.T) {
	assert := assert.New(t)

	tc, ram := newTestCpu(t)
	other := memory.NewRam(0x10000)

	tc.Regs.Reg[REG_A] = 0x77
	_, err := MakeStack(OP_PUSH, REG_A).Execute(tc, other)
	assert.NoError(err)
	assert.Equal(uint8(0x77), other.Data[0xffff])
	assert.Equal(uint8(0), ram.Data[0xffff])

	tc.Regs.PC = 0x1234
	_, err = MakeBranch(OP_CALL, 0x0100).Execute(tc, other)
	assert.NoError(err)
	assert.Equal(uint8(0x12), other.Data[0xfffe])
	assert.Equal(uint8(0x34), other.Data[0xfffd])
	assert.Equal(uint8(0), ram.Data[0xfffe])

	_, err = MakeImplied(OP_RET).Execute(tc, other)
	assert.NoError(err)
	assert.Equal(uint16(0x1234), tc.Regs.PC)
}

func TestCpu_Stack(t *testing.T) {
	assert := assert.New(t)

	tc, _ := newTestCpu(t)

	for _, value := range []uint8{1, 2, 3} {
		assert.NoError(tc.Push(value))
	}
	assert.Equal(uint16(0xfffc), tc.Regs.SP)

	for _, expected := range []uint8{3, 2, 1} {
		value, err := tc.Pop()
		assert.NoError(err)
		assert.Equal(expected, value)
	}
	assert.Equal(uint16(0xffff), tc.Regs.SP)

	_, err := tc.Pop()
	assert.ErrorIs(err, cpu.ErrStackUnderflow)
}

func TestCpu_PushPop(t *testing.T) {
	assert := assert.New(t)

	tc, _ := newTestCpu(t,
		MakeImmediate(OP_LOAD, REG_AB, 0xcafe),
		MakeImmediate(OP_LOAD, REG_Z, 0x5a),
		MakeStack(OP_PUSH, REG_AB),
		MakeStack(OP_PUSH, REG_Z),
		MakeStack(OP_POP, REG_H),
		MakeStack(OP_POP, REG_CD),
		MakeImplied(OP_HALT),
	)

	assert.NoError(tc.Run())

	cd, err := tc.Regs.GetPair(uint8(REG_CD))
	assert.NoError(err)
	assert.Equal(uint16(0xcafe), cd)
	assert.Equal(uint8(0x5a), tc.Regs.Reg[REG_H])
	assert.Equal(uint16(0xffff), tc.Regs.SP)
}

func TestCpu_CallRet(t *testing.T) {
	assert := assert.New(t)

	tc, _ := newTestCpu(t,
		MakeBranch(OP_CALL, 0x0010),
		MakeImplied(OP_HALT),
	)
	_, err := tc.Load(0x0010, []Instruction{
		MakeImmediate(OP_LOAD, REG_A, 7),
		MakeImplied(OP_RET),
	})
	assert.NoError(err)

	assert.NoError(tc.Run())
	assert.Equal(uint8(7), tc.Regs.Reg[REG_A])
	assert.Equal(uint16(4), tc.Regs.PC)
	assert.Equal(uint16(0xffff), tc.Regs.SP)
	assert.Equal(cpu.RUN_STATE_HALTED, tc.RunState())

	// call (3+2) + load (1+1) + ret (3) + halt (1)
	assert.Equal(uint64(11), tc.Cycles())
}

func TestCpu_Jumps(t *testing.T) {
	assert := assert.New(t)

	tc, _ := newTestCpu(t,
		MakeBranch(OP_JMP, 0x0020),
	)
	_, err := tc.Load(0x0020, []Instruction{
		MakeRelative(OP_JMPF, 4),
		MakeImplied(OP_HALT),
		MakeImplied(OP_HALT),
		MakeImplied(OP_HALT),
		MakeImplied(OP_HALT),
		MakeImmediate(OP_LOAD, REG_HL, 0x0040),
		MakeBranchIndirect(OP_JMP, REG_HL),
	})
	assert.NoError(err)
	_, err = tc.Load(0x0040, []Instruction{
		MakeRelative(OP_JMP, 0x02),
		MakeImplied(OP_HALT),
		MakeImplied(OP_NOP),
		MakeImmediate(OP_LOAD, REG_A, 1),
		MakeImplied(OP_HALT),
	})
	assert.NoError(err)

	assert.NoError(tc.Run())
	assert.Equal(uint8(1), tc.Regs.Reg[REG_A])
	assert.Equal(uint16(0x0048), tc.Regs.PC)
}

func TestCpu_JumpBackward(t *testing.T) {
	assert := assert.New(t)

	tc, _ := newTestCpu(t,
		MakeImplied(OP_HALT),
		MakeImmediate(OP_LOAD, REG_A, 9),
		MakeRelative(OP_JMPB, 6),
	)
	tc.Regs.PC = 1

	_, err := cpu.Steps(tc, 10)
	assert.NoError(err)
	assert.Equal(uint8(9), tc.Regs.Reg[REG_A])
	assert.Equal(uint16(1), tc.Regs.PC)

	_, err = tc.Load(0x0010, []Instruction{MakeRelative(OP_JMPB, 0x20)})
	assert.NoError(err)
	tc.Reset()
	tc.Regs.PC = 0x0010
	_, err = tc.Step()
	assert.ErrorIs(err, cpu.ErrPcOverflow)
	assert.Equal(cpu.RUN_STATE_FAULTED, tc.RunState())
}

func TestCpu_PageCross(t *testing.T) {
	assert := assert.New(t)

	tc, _ := newTestCpu(t)
	_, err := tc.Load(0x00fc, []Instruction{MakeRelative(OP_JMPF, 0x10)})
	assert.NoError(err)
	tc.Regs.PC = 0x00fc

	cycles, err := tc.Step()
	assert.NoError(err)
	assert.Equal(3, cycles)
	assert.Equal(uint16(0x010e), tc.Regs.PC)
}

func TestCpu_Faults(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name    string
		program []Instruction
		raw     []byte
		setup   func(tc *Cpu)
		err     error
	}){
		{"unsupported_in", []Instruction{MakeDirect(OP_IN, REG_A, 0)}, nil, nil, isa.ErrUnsupportedFeature},
		{"unsupported_out", []Instruction{MakeDirect(OP_OUT, REG_A, 0)}, nil, nil, isa.ErrUnsupportedFeature},
		{"invalid_opcode", nil, []byte{0xae, 0, 0, 0}, nil, isa.ErrInvalidOpcode},
		{"invalid_register", nil, []byte{0xa8, 0x0e, 0}, nil, isa.ErrInvalidRegister},
		{"divide_by_zero", []Instruction{MakeImmediate(OP_DIV, REG_A, 0)}, nil, nil, isa.ErrDivideByZero},
		{"indexed_overflow", []Instruction{
			MakeImmediate(OP_LOAD, REG_HL, 0xfff8),
			MakeIndexed(OP_LOAD, REG_A, REG_HL, 0x0010),
		}, nil, nil, memory.ErrAddressOutOfBounds},
		{"pc_overflow", nil, nil, func(tc *Cpu) { tc.Regs.PC = 0xffff }, cpu.ErrPcOverflow},
		{"fetch_overflow", nil, nil, func(tc *Cpu) {
			tc.Mem.Write(0xfffe, uint8(MakeOpcode(OP_LOAD, MODE_DIRECT)))
			tc.Regs.PC = 0xfffe
		}, cpu.ErrPcOverflow},
		{"stack_underflow", []Instruction{MakeImplied(OP_RET)}, nil, nil, cpu.ErrStackUnderflow},
		{"stack_overflow", []Instruction{MakeStack(OP_PUSH, REG_A)}, nil, func(tc *Cpu) { tc.Regs.SP = 0 }, cpu.ErrStackOverflow},
	}

	for _, entry := range table {
		tc, ram := newTestCpu(t, entry.program...)
		copy(ram.Data, entry.raw)
		if entry.setup != nil {
			entry.setup(tc)
		}

		var err error
		for range 4 {
			_, err = tc.Step()
			if err != nil {
				break
			}
		}
		assert.ErrorIs(err, entry.err, entry.name)
		assert.Equal(cpu.RUN_STATE_FAULTED, tc.RunState(), entry.name)

		_, err = tc.Step()
		assert.ErrorIs(err, cpu.ErrFaulted, entry.name)
	}
}

func TestCpu_Halted(t *testing.T) {
	assert := assert.New(t)

	tc, _ := newTestCpu(t, MakeImplied(OP_HALT))

	assert.NoError(tc.Run())
	_, err := tc.Step()
	assert.ErrorIs(err, cpu.ErrHalted)

	assert.NoError(tc.Reset())
	_, err = tc.Step()
	assert.NoError(err)
}

func TestCpu_Unmapped(t *testing.T) {
	assert := assert.New(t)

	bus := memory.NewBus()
	rom := memory.NewRom(0x10)
	assert.NoError(rom.Load(0, MakeDirect(OP_WRITE, REG_A, 0x0000).Encode()))
	assert.NoError(bus.Attach(0x0000, 0x000f, true, rom))

	tc := NewCpu(bus)
	_, err := tc.Step()
	assert.ErrorIs(err, memory.ErrReadOnlyMemory)

	tc.Reset()
	tc.Regs.PC = 0x0100
	_, err = tc.Step()
	assert.ErrorIs(err, memory.ErrAddressOutOfBounds)
}

func TestCpu_Verbose(t *testing.T) {
	assert := assert.New(t)

	out := &bytes.Buffer{}
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetLevel(logrus.DebugLevel)

	tc, _ := newTestCpu(t, MakeImmediate(OP_LOAD, REG_A, 0x42), MakeImplied(OP_HALT))
	tc.Verbose = true
	tc.Logger = logger

	assert.NoError(tc.Run())
	assert.Contains(out.String(), "load a, #0x42")
	assert.Contains(out.String(), "halt")
}

func TestCpu_String(t *testing.T) {
	assert := assert.New(t)

	tc, _ := newTestCpu(t)
	tc.Regs.Reg[REG_A] = 0x42
	tc.Regs.Flag.Set(FLAG_ZERO | FLAG_CARRY)

	assert.Equal("pc=0000 sp=ffff a=42 b=00 c=00 d=00 g=00 h=00 l=00 z=00 flags=----C-Z running cycles=0", tc.String())
}
