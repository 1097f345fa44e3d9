// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package tiny

import (
	"github.com/ezrec/tinycomp/cpu"
	"github.com/ezrec/tinycomp/isa"
)

// RegisterFile is the register state of the Tiny Computer. Register pairs
// have no storage of their own.
type RegisterFile struct {
	Reg  [REGISTER_COUNT]uint8 // Scalar registers, indexed by Register.
	AltA uint8                 // Alternate A.
	AltB uint8                 // Alternate B.
	PC   uint16
	SP   uint16
	Flag cpu.Flags
}

var _ cpu.RegisterFile = (*RegisterFile)(nil)

func (rf *RegisterFile) scalar(id uint8) (reg Register, err error) {
	reg, err = ParseRegister(id)
	if err == nil && reg.IsPair() {
		err = isa.ErrInvalidRegister
	}
	return
}

func (rf *RegisterFile) pair(id uint8) (reg Register, err error) {
	reg, err = ParseRegister(id)
	if err == nil && !reg.IsPair() {
		err = isa.ErrInvalidRegister
	}
	return
}

func (rf *RegisterFile) Get(id uint8) (value uint8, err error) {
	reg, err := rf.scalar(id)
	if err != nil {
		return
	}

	value = rf.Reg[reg]
	return
}

func (rf *RegisterFile) Set(id uint8, value uint8) (err error) {
	reg, err := rf.scalar(id)
	if err != nil {
		return
	}

	rf.Reg[reg] = value
	return
}

func (rf *RegisterFile) GetPair(id uint8) (value uint16, err error) {
	reg, err := rf.pair(id)
	if err != nil {
		return
	}

	hi, lo := reg.Halves()
	value = (uint16(rf.Reg[hi]) << 8) | uint16(rf.Reg[lo])
	return
}

func (rf *RegisterFile) SetPair(id uint8, value uint16) (err error) {
	reg, err := rf.pair(id)
	if err != nil {
		return
	}

	hi, lo := reg.Halves()
	rf.Reg[hi] = uint8(value >> 8)
	rf.Reg[lo] = uint8(value)
	return
}

func (rf *RegisterFile) IsPair(id uint8) bool {
	return Register(id).IsPair()
}

func (rf *RegisterFile) Count() int {
	return REGISTER_COUNT
}

func (rf *RegisterFile) Pc() uint16 {
	return rf.PC
}

func (rf *RegisterFile) SetPc(pc uint16) {
	rf.PC = pc
}

func (rf *RegisterFile) Sp() uint16 {
	return rf.SP
}

func (rf *RegisterFile) SetSp(sp uint16) {
	rf.SP = sp
}

func (rf *RegisterFile) Flags() cpu.FlagsRegister {
	return &rf.Flag
}

func (rf *RegisterFile) Reset() {
	*rf = RegisterFile{}
}

// Value reads a register of either width.
func (rf *RegisterFile) Value(reg Register) (value uint16, err error) {
	if reg.IsPair() {
		return rf.GetPair(uint8(reg))
	}

	scalar, err := rf.Get(uint8(reg))
	value = uint16(scalar)
	return
}

// SetValue writes a register of either width. Scalars keep the low byte.
func (rf *RegisterFile) SetValue(reg Register, value uint16) (err error) {
	if reg.IsPair() {
		return rf.SetPair(uint8(reg), value)
	}

	return rf.Set(uint8(reg), uint8(value))
}

// SwapA exchanges A with its alternate.
func (rf *RegisterFile) SwapA() {
	rf.Reg[REG_A], rf.AltA = rf.AltA, rf.Reg[REG_A]
}

// SwapB exchanges B with its alternate.
func (rf *RegisterFile) SwapB() {
	rf.Reg[REG_B], rf.AltB = rf.AltB, rf.Reg[REG_B]
}

// SwapAB exchanges both A and B with their alternates.
func (rf *RegisterFile) SwapAB() {
	rf.SwapA()
	rf.SwapB()
}
