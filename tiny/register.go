// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package tiny

import (
	"github.com/ezrec/tinycomp/isa"
)

// Register is a register id. Ids REG_A through REG_Z are 8-bit scalars;
// REG_AB through REG_HL name big-endian pairs of two scalars.
type Register uint8

const (
	REG_A  = Register(0)  // a
	REG_B  = Register(1)  // b
	REG_C  = Register(2)  // c
	REG_D  = Register(3)  // d
	REG_G  = Register(4)  // g
	REG_H  = Register(5)  // h
	REG_L  = Register(6)  // l
	REG_Z  = Register(7)  // z
	REG_AB = Register(8)  // ab
	REG_CD = Register(9)  // cd
	REG_GZ = Register(10) // gz
	REG_HL = Register(11) // hl
)

const (
	REGISTER_COUNT = 8  // Number of scalar registers.
	REGISTER_LIMIT = 12 // One past the last valid register id.
)

var _register_names = [REGISTER_LIMIT]string{
	"a", "b", "c", "d", "g", "h", "l", "z",
	"ab", "cd", "gz", "hl",
}

var _register_halves = [REGISTER_LIMIT - REGISTER_COUNT][2]Register{
	{REG_A, REG_B},
	{REG_C, REG_D},
	{REG_G, REG_Z},
	{REG_H, REG_L},
}

// ParseRegister validates a register id.
func ParseRegister(id uint8) (reg Register, err error) {
	if id >= REGISTER_LIMIT {
		err = isa.ErrInvalidRegister
		return
	}

	reg = Register(id)
	return
}

// IsPair returns true if the register is a 16-bit pair.
func (reg Register) IsPair() bool {
	return reg >= REG_AB && reg < REGISTER_LIMIT
}

// Valid returns true if the register id is defined.
func (reg Register) Valid() bool {
	return reg < REGISTER_LIMIT
}

// Halves returns the high and low scalars of a pair.
func (reg Register) Halves() (hi, lo Register) {
	halves := _register_halves[reg-REG_AB]
	hi, lo = halves[0], halves[1]
	return
}

func (reg Register) String() string {
	if !reg.Valid() {
		return f("Register(%d)", uint8(reg))
	}
	return _register_names[reg]
}

// PackRegisters places dst in the high nibble and src in the low nibble.
func PackRegisters(dst, src Register) uint8 {
	return (uint8(dst) << 4) | (uint8(src) & 0xf)
}

// UnpackRegisters splits a register byte into its destination and source.
func UnpackRegisters(value uint8) (dst, src Register, err error) {
	dst, err = ParseRegister(value >> 4)
	if err != nil {
		return
	}

	src, err = ParseRegister(value & 0xf)
	return
}
