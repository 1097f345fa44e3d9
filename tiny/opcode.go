// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package tiny

import (
	"github.com/ezrec/tinycomp/isa"
)

// Operation is the 5-bit instruction id held in the top of an opcode.
type Operation uint8

const (
	OP_NOP   = Operation(0x00) // nop
	OP_ADD   = Operation(0x01) // add
	OP_SUB   = Operation(0x02) // sub
	OP_MUL   = Operation(0x03) // mul
	OP_DIV   = Operation(0x04) // div
	OP_MOD   = Operation(0x05) // mod
	OP_AND   = Operation(0x06) // and
	OP_OR    = Operation(0x07) // or
	OP_XOR   = Operation(0x08) // xor
	OP_NOT   = Operation(0x09) // not
	OP_LSH   = Operation(0x0a) // lsh
	OP_RSH   = Operation(0x0b) // rsh
	OP_CMP   = Operation(0x0c) // cmp
	OP_JMP   = Operation(0x0d) // jmp
	OP_JMPF  = Operation(0x0e) // jmpf
	OP_JMPB  = Operation(0x0f) // jmpb
	OP_CALL  = Operation(0x10) // call
	OP_RET   = Operation(0x11) // ret
	OP_PUSH  = Operation(0x12) // push
	OP_POP   = Operation(0x13) // pop
	OP_WRITE = Operation(0x14) // store
	OP_LOAD  = Operation(0x15) // load
	OP_IN    = Operation(0x16) // in
	OP_OUT   = Operation(0x17) // out
	OP_HALT  = Operation(0x1f) // halt
)

// Mode is the 3-bit addressing mode held in the bottom of an opcode.
type Mode uint8

const (
	MODE_IMMEDIATE         = Mode(0) // immediate
	MODE_REGISTER          = Mode(1) // register
	MODE_REGISTER_INDIRECT = Mode(2) // indirect
	MODE_REGISTER_INDEXED  = Mode(3) // indexed
	MODE_DIRECT            = Mode(4) // direct
	MODE_RELATIVE          = Mode(5) // relative
	MODE_LIMIT             = Mode(6)
)

var _mode_names = [MODE_LIMIT]string{
	"immediate",
	"register",
	"indirect",
	"indexed",
	"direct",
	"relative",
}

// ParseMode validates a mode id.
func ParseMode(id uint8) (mode Mode, err error) {
	if id >= uint8(MODE_LIMIT) {
		err = isa.ErrInvalidOpcode
		return
	}

	mode = Mode(id)
	return
}

func (mode Mode) String() string {
	if mode >= MODE_LIMIT {
		return f("Mode(%d)", uint8(mode))
	}
	return _mode_names[mode]
}

// layout is the operand byte arrangement of an operation.
type layout int

const (
	LAYOUT_IMPLIED = layout(iota) // No operands.
	LAYOUT_DATA                   // Register destination and a moded source.
	LAYOUT_UNARY                  // Register destination and register source.
	LAYOUT_STORE                  // Register source and a moded destination.
	LAYOUT_BRANCH                 // Branch target.
	LAYOUT_STACK                  // Single register.
	LAYOUT_PORT                   // Register and port address.
)

func modeSet(modes ...Mode) (set uint8) {
	for _, mode := range modes {
		set |= 1 << mode
	}
	return
}

var (
	_modes_implied = modeSet(MODE_IMMEDIATE)
	_modes_data    = modeSet(MODE_IMMEDIATE, MODE_REGISTER, MODE_REGISTER_INDIRECT, MODE_REGISTER_INDEXED, MODE_DIRECT)
	_modes_store   = modeSet(MODE_REGISTER_INDIRECT, MODE_REGISTER_INDEXED, MODE_DIRECT)
)

type operationInfo struct {
	name      string
	category  isa.Category
	layout    layout
	modes     uint8 // Set of legal modes.
	cycles    int   // Base cycle cost.
	flags     bool  // Execution may change the flags.
	relative  bool  // Relative addressing is permitted.
	supported bool  // Execution is implemented.
}

var _operations = map[Operation]operationInfo{
	OP_NOP:   {"nop", isa.CATEGORY_MISC, LAYOUT_IMPLIED, _modes_implied, 1, false, false, true},
	OP_ADD:   {"add", isa.CATEGORY_ARITHMETIC, LAYOUT_DATA, _modes_data, 1, true, false, true},
	OP_SUB:   {"sub", isa.CATEGORY_ARITHMETIC, LAYOUT_DATA, _modes_data, 1, true, false, true},
	OP_MUL:   {"mul", isa.CATEGORY_ARITHMETIC, LAYOUT_DATA, _modes_data, 4, true, false, true},
	OP_DIV:   {"div", isa.CATEGORY_ARITHMETIC, LAYOUT_DATA, _modes_data, 8, true, false, true},
	OP_MOD:   {"mod", isa.CATEGORY_ARITHMETIC, LAYOUT_DATA, _modes_data, 8, true, false, true},
	OP_AND:   {"and", isa.CATEGORY_LOGIC, LAYOUT_DATA, _modes_data, 1, true, false, true},
	OP_OR:    {"or", isa.CATEGORY_LOGIC, LAYOUT_DATA, _modes_data, 1, true, false, true},
	OP_XOR:   {"xor", isa.CATEGORY_LOGIC, LAYOUT_DATA, _modes_data, 1, true, false, true},
	OP_NOT:   {"not", isa.CATEGORY_LOGIC, LAYOUT_UNARY, modeSet(MODE_REGISTER), 1, true, false, true},
	OP_LSH:   {"lsh", isa.CATEGORY_LOGIC, LAYOUT_DATA, _modes_data, 1, true, false, true},
	OP_RSH:   {"rsh", isa.CATEGORY_LOGIC, LAYOUT_DATA, _modes_data, 1, true, false, true},
	OP_CMP:   {"cmp", isa.CATEGORY_ARITHMETIC, LAYOUT_DATA, _modes_data, 1, true, false, true},
	OP_JMP:   {"jmp", isa.CATEGORY_CONTROL, LAYOUT_BRANCH, modeSet(MODE_DIRECT, MODE_RELATIVE, MODE_REGISTER_INDIRECT), 1, false, true, true},
	OP_JMPF:  {"jmpf", isa.CATEGORY_CONTROL, LAYOUT_BRANCH, modeSet(MODE_RELATIVE), 1, false, true, true},
	OP_JMPB:  {"jmpb", isa.CATEGORY_CONTROL, LAYOUT_BRANCH, modeSet(MODE_RELATIVE), 1, false, true, true},
	OP_CALL:  {"call", isa.CATEGORY_CONTROL, LAYOUT_BRANCH, modeSet(MODE_DIRECT), 3, false, false, true},
	OP_RET:   {"ret", isa.CATEGORY_CONTROL, LAYOUT_IMPLIED, _modes_implied, 3, false, false, true},
	OP_PUSH:  {"push", isa.CATEGORY_STACK, LAYOUT_STACK, modeSet(MODE_REGISTER), 2, false, false, true},
	OP_POP:   {"pop", isa.CATEGORY_STACK, LAYOUT_STACK, modeSet(MODE_REGISTER), 2, false, false, true},
	OP_WRITE: {"store", isa.CATEGORY_DATA_TRANSFER, LAYOUT_STORE, _modes_store, 1, false, false, true},
	OP_LOAD:  {"load", isa.CATEGORY_DATA_TRANSFER, LAYOUT_DATA, _modes_data, 1, false, false, true},
	OP_IN:    {"in", isa.CATEGORY_IO, LAYOUT_PORT, modeSet(MODE_DIRECT), 2, false, false, false},
	OP_OUT:   {"out", isa.CATEGORY_IO, LAYOUT_PORT, modeSet(MODE_DIRECT), 2, false, false, false},
	OP_HALT:  {"halt", isa.CATEGORY_SYSTEM, LAYOUT_IMPLIED, _modes_implied, 1, false, false, true},
}

// Extra cycles for each addressing mode.
var _mode_cycles = [MODE_LIMIT]int{
	MODE_IMMEDIATE:         1,
	MODE_REGISTER:          0,
	MODE_REGISTER_INDIRECT: 2,
	MODE_REGISTER_INDEXED:  3,
	MODE_DIRECT:            2,
	MODE_RELATIVE:          1,
}

// ParseOperation validates an instruction id.
func ParseOperation(id uint8) (op Operation, err error) {
	op = Operation(id)
	if _, ok := _operations[op]; !ok {
		op = 0
		err = isa.ErrInvalidOpcode
	}
	return
}

func (op Operation) info() operationInfo {
	return _operations[op]
}

// Valid returns true if the instruction id is defined.
func (op Operation) Valid() (ok bool) {
	_, ok = _operations[op]
	return
}

// String returns the mnemonic.
func (op Operation) String() string {
	if !op.Valid() {
		return f("Operation(0x%02x)", uint8(op))
	}
	return op.info().name
}

// Category of the operation.
func (op Operation) Category() isa.Category {
	return op.info().category
}

// Relative returns true if the operation may use relative addressing.
func (op Operation) Relative() bool {
	return op.info().relative
}

// AffectsFlags returns true if the operation may change the flags.
func (op Operation) AffectsFlags() bool {
	return op.info().flags
}

// Supports returns true if the mode is legal for the operation.
func (op Operation) Supports(mode Mode) bool {
	info, ok := _operations[op]
	if !ok || mode >= MODE_LIMIT {
		return false
	}
	if mode == MODE_RELATIVE && !info.relative {
		return false
	}
	return (info.modes & (1 << mode)) != 0
}

// Modes lists the legal modes of the operation.
func (op Operation) Modes() (modes []Mode) {
	for mode := range MODE_LIMIT {
		if op.Supports(mode) {
			modes = append(modes, mode)
		}
	}
	return
}

// Opcode is an encoded instruction byte: operation << 3 | mode.
type Opcode uint8

// MakeOpcode combines an operation and mode.
func MakeOpcode(op Operation, mode Mode) Opcode {
	return Opcode((uint8(op) << 3) | (uint8(mode) & 0x7))
}

// ParseOpcode validates an opcode byte.
func ParseOpcode(value uint8) (oc Opcode, err error) {
	op, err := ParseOperation(value >> 3)
	if err != nil {
		return
	}

	mode, err := ParseMode(value & 0x7)
	if err != nil {
		return
	}

	if !op.Supports(mode) {
		err = isa.ErrInvalidOpcode
		return
	}

	oc = MakeOpcode(op, mode)
	return
}

func (oc Opcode) Operation() Operation {
	return Operation(oc >> 3)
}

func (oc Opcode) Mode() Mode {
	return Mode(oc & 0x7)
}

// Valid returns true if the opcode is a legal operation and mode pair.
func (oc Opcode) Valid() bool {
	return oc.Operation().Supports(oc.Mode())
}

func (oc Opcode) String() string {
	if !oc.Valid() {
		return f("Opcode(0x%02x)", uint8(oc))
	}
	if oc.layout() == LAYOUT_IMPLIED {
		return oc.Operation().String()
	}
	return oc.Operation().String() + "." + oc.Mode().String()
}

func (oc Opcode) layout() layout {
	return oc.Operation().info().layout
}

// Length is the encoded size of an instruction with this opcode. The first
// operand byte, taken as a register, is only consulted for immediate data,
// where a register pair takes a 2-byte literal.
func (oc Opcode) Length(reg Register) int {
	switch oc.layout() {
	case LAYOUT_IMPLIED:
		return 1
	case LAYOUT_UNARY, LAYOUT_STACK:
		return 2
	case LAYOUT_BRANCH:
		switch oc.Mode() {
		case MODE_DIRECT:
			return 3
		default:
			return 2
		}
	}

	switch oc.Mode() {
	case MODE_IMMEDIATE:
		if reg.IsPair() {
			return 4
		}
		return 3
	case MODE_REGISTER, MODE_REGISTER_INDIRECT:
		return 2
	}

	return 4
}

// NeedsRegister returns true if Length depends on the first operand byte.
func (oc Opcode) NeedsRegister() bool {
	return oc.layout() == LAYOUT_DATA && oc.Mode() == MODE_IMMEDIATE
}

// Cycles is the static cost of the opcode.
func (oc Opcode) Cycles() int {
	cycles := oc.Operation().info().cycles
	if oc.layout() != LAYOUT_IMPLIED {
		cycles += _mode_cycles[oc.Mode()]
	}
	return cycles
}
