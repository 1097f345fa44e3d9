// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

// FlagsRegister is a bitmask of condition flags. The meaning of each bit is
// defined by the architecture.
type FlagsRegister interface {
	Get() uint8
	Set(value uint8)
	// Update replaces the masked bits with the matching bits of value.
	Update(mask uint8, value uint8)
	// Test returns true if every bit of mask is set.
	Test(mask uint8) bool
	// Any returns true if at least one bit of mask is set.
	Any(mask uint8) bool
	Reset()
}

// Flags is a plain 8-bit FlagsRegister.
type Flags uint8

var _ FlagsRegister = (*Flags)(nil)

func (fl *Flags) Get() uint8 {
	return uint8(*fl)
}

func (fl *Flags) Set(value uint8) {
	*fl = Flags(value)
}

func (fl *Flags) Update(mask uint8, value uint8) {
	*fl = Flags((uint8(*fl) &^ mask) | (value & mask))
}

// Assign sets or clears the masked bits.
func (fl *Flags) Assign(mask uint8, on bool) {
	if on {
		fl.Update(mask, mask)
	} else {
		fl.Update(mask, 0)
	}
}

func (fl *Flags) Test(mask uint8) bool {
	return (uint8(*fl) & mask) == mask
}

func (fl *Flags) Any(mask uint8) bool {
	return (uint8(*fl) & mask) != 0
}

func (fl *Flags) Reset() {
	*fl = 0
}
