// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package isa defines the contracts an instruction set architecture
// provides to the CPU engine: instruction categories, addressing modes,
// the instruction codec, and the instruction set itself.
package isa

import (
	"github.com/ezrec/tinycomp/cpu"
	"github.com/ezrec/tinycomp/memory"
)

// Category is a functional grouping of instructions.
type Category int

const (
	CATEGORY_ARITHMETIC    = Category(0) // arithmetic
	CATEGORY_LOGIC         = Category(1) // logic
	CATEGORY_DATA_TRANSFER = Category(2) // data-transfer
	CATEGORY_CONTROL       = Category(3) // control
	CATEGORY_STACK         = Category(4) // stack
	CATEGORY_IO            = Category(5) // io
	CATEGORY_SYSTEM        = Category(6) // system
	CATEGORY_MISC          = Category(7) // misc
)

var _category_names = [...]string{
	"arithmetic",
	"logic",
	"data-transfer",
	"control",
	"stack",
	"io",
	"system",
	"misc",
}

func (cat Category) String() string {
	if cat < 0 || int(cat) >= len(_category_names) {
		return f("Category(%d)", int(cat))
	}
	return _category_names[cat]
}

// Categories lists every category, in order.
func Categories() []Category {
	return []Category{
		CATEGORY_ARITHMETIC,
		CATEGORY_LOGIC,
		CATEGORY_DATA_TRANSFER,
		CATEGORY_CONTROL,
		CATEGORY_STACK,
		CATEGORY_IO,
		CATEGORY_SYSTEM,
		CATEGORY_MISC,
	}
}

// Source is the kind of location an operand resolves to.
type Source int

const (
	SOURCE_NONE     = Source(0) // none
	SOURCE_VALUE    = Source(1) // value
	SOURCE_REGISTER = Source(2) // register
	SOURCE_MEMORY   = Source(3) // memory
)

// Location is a resolved operand.
type Location struct {
	Source   Source
	Value    uint16 // Literal value, for SOURCE_VALUE.
	Register uint8  // Register id, for SOURCE_REGISTER.
	Address  uint16 // Effective address, for SOURCE_MEMORY.
}

// AddressingMode resolves an operand to a value, register, or memory
// location.
type AddressingMode interface {
	// Resolve the operand against the current CPU state.
	Resolve(state cpu.State) (loc Location, err error)
	// Size is the number of operand bytes following the opcode.
	Size() int
	// Format renders the operand in assembly syntax.
	Format() string
	// ValidRegister returns true if the mode accepts the register id.
	ValidRegister(id uint8) bool
	// ValidAddress returns true if the mode can reach the address.
	ValidAddress(addr uint16) bool
}

// Codec converts an instruction to bytes. Decoding is done by the
// InstructionSet, which knows how many bytes an opcode consumes.
type Codec interface {
	Encode() []byte
	// Size is the encoded length in bytes.
	Size() int
}

// Instruction is a decoded instruction.
type Instruction interface {
	Codec

	// Execute the instruction, returning the cycles consumed. The program
	// counter has already been advanced past the instruction.
	Execute(state cpu.State, mem memory.Device) (cycles int, err error)
	// Cycles is the static cost of the instruction.
	Cycles() int
	// AffectsFlags returns true if execution may change the flags.
	AffectsFlags() bool
	// Disassemble renders the instruction as assembly text.
	Disassemble() string
	// Category of the instruction.
	Category() Category
}

// InstructionSet describes an architecture and decodes its instructions.
type InstructionSet interface {
	Name() string
	// WordSize is the data width in bits.
	WordSize() int
	// AddressSize is the address width in bits.
	AddressSize() int
	// RegisterCount is the number of scalar registers.
	RegisterCount() int

	ValidOpcode(opcode uint8) bool
	Categorize(opcode uint8) (cat Category, err error)
	OpcodesInCategory(cat Category) []uint8

	// Decode exactly one instruction from the start of data.
	Decode(data []byte) (inst Instruction, err error)
	// MaxSize is the longest encoded instruction, in bytes.
	MaxSize() int
}
