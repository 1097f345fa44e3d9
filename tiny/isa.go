// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package tiny

import (
	"iter"
	"strings"

	"github.com/ezrec/tinycomp/isa"
)

const (
	ISA_NAME         = "tiny"
	ISA_WORD_SIZE    = 8
	ISA_ADDRESS_SIZE = 16
	ISA_MAX_SIZE     = 4 // Longest instruction, in bytes.
)

// Isa is the Tiny Computer instruction set.
type Isa struct{}

var _ isa.InstructionSet = Isa{}

func (Isa) Name() string {
	return ISA_NAME
}

func (Isa) WordSize() int {
	return ISA_WORD_SIZE
}

func (Isa) AddressSize() int {
	return ISA_ADDRESS_SIZE
}

func (Isa) RegisterCount() int {
	return REGISTER_COUNT
}

func (Isa) MaxSize() int {
	return ISA_MAX_SIZE
}

func (Isa) ValidOpcode(opcode uint8) bool {
	return Opcode(opcode).Valid()
}

func (Isa) Categorize(opcode uint8) (cat isa.Category, err error) {
	oc, err := ParseOpcode(opcode)
	if err != nil {
		err = &isa.ErrOpcode{Opcode: opcode, Err: err}
		return
	}

	cat = oc.Operation().Category()
	return
}

// Opcodes iterates over every valid opcode, in ascending order.
func (Isa) Opcodes() iter.Seq[Opcode] {
	return func(yield func(Opcode) bool) {
		for value := range 256 {
			oc := Opcode(value)
			if oc.Valid() && !yield(oc) {
				return
			}
		}
	}
}

func (ti Isa) OpcodesInCategory(cat isa.Category) (opcodes []uint8) {
	for oc := range ti.Opcodes() {
		if oc.Operation().Category() == cat {
			opcodes = append(opcodes, uint8(oc))
		}
	}
	return
}

func (Isa) Decode(data []byte) (inst isa.Instruction, err error) {
	decoded, err := Decode(data)
	if err != nil {
		return
	}

	inst = decoded
	return
}

// Defines iterates over the symbolic names of registers, operations,
// modes, and opcodes.
func (ti Isa) Defines() iter.Seq2[string, int] {
	return func(yield func(string, int) bool) {
		for reg := range Register(REGISTER_LIMIT) {
			if !yield("REG_"+strings.ToUpper(reg.String()), int(reg)) {
				return
			}
		}
		for mode := range MODE_LIMIT {
			if !yield("MODE_"+strings.ToUpper(mode.String()), int(mode)) {
				return
			}
		}
		for value := range 32 {
			op := Operation(value)
			if op.Valid() && !yield("OP_"+strings.ToUpper(op.String()), int(op)) {
				return
			}
		}
		for oc := range ti.Opcodes() {
			name := strings.ToUpper(oc.Operation().String())
			if oc.layout() != LAYOUT_IMPLIED {
				name += "_" + strings.ToUpper(oc.Mode().String())
			}
			if !yield(name, int(oc)) {
				return
			}
		}
		for name, flag := range map[string]uint8{
			"FLAG_ZERO":      FLAG_ZERO,
			"FLAG_NEGATIVE":  FLAG_NEGATIVE,
			"FLAG_CARRY":     FLAG_CARRY,
			"FLAG_OVERFLOW":  FLAG_OVERFLOW,
			"FLAG_INTERRUPT": FLAG_INTERRUPT,
			"FLAG_DECIMAL":   FLAG_DECIMAL,
			"FLAG_CONDITION": FLAG_CONDITION,
		} {
			if !yield(name, int(flag)) {
				return
			}
		}
	}
}
