// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package memory

// Ram is zero-initialized read/write memory.
type Ram struct {
	Data []uint8
}

var _ Device = (*Ram)(nil)
var _ Validator = (*Ram)(nil)

// NewRam creates a RAM device of the given size.
func NewRam(size int) *Ram {
	return &Ram{Data: make([]uint8, size)}
}

func (ram *Ram) Validate(addr uint16, write bool) (err error) {
	if int(addr) >= len(ram.Data) {
		err = ErrAddressOutOfBounds
	}
	return
}

func (ram *Ram) Read(addr uint16) (value uint8, err error) {
	err = ram.Validate(addr, false)
	if err != nil {
		return
	}

	value = ram.Data[addr]
	return
}

func (ram *Ram) Write(addr uint16, value uint8) (err error) {
	err = ram.Validate(addr, true)
	if err != nil {
		return
	}

	ram.Data[addr] = value
	return
}

// Reset clears the RAM to zero.
func (ram *Ram) Reset() {
	clear(ram.Data)
}

func (ram *Ram) Size() int {
	return len(ram.Data)
}
