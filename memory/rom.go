// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package memory

// Rom is read-only memory. Its contents are set with Load, and survive Reset.
type Rom struct {
	Data []uint8
}

var _ Device = (*Rom)(nil)
var _ Validator = (*Rom)(nil)

// NewRom creates a zero-filled ROM device of the given size.
func NewRom(size int) *Rom {
	return &Rom{Data: make([]uint8, size)}
}

// Load copies an image into the ROM at an offset.
func (rom *Rom) Load(offset uint16, image []uint8) (err error) {
	if int(offset)+len(image) > len(rom.Data) {
		err = &ErrAccess{Addr: offset, Err: ErrAddressOutOfBounds}
		return
	}

	copy(rom.Data[offset:], image)
	return
}

func (rom *Rom) Validate(addr uint16, write bool) (err error) {
	if int(addr) >= len(rom.Data) {
		err = ErrAddressOutOfBounds
		return
	}

	if write {
		err = ErrReadOnlyMemory
	}
	return
}

func (rom *Rom) Read(addr uint16) (value uint8, err error) {
	err = rom.Validate(addr, false)
	if err != nil {
		return
	}

	value = rom.Data[addr]
	return
}

func (rom *Rom) Write(addr uint16, value uint8) (err error) {
	return rom.Validate(addr, true)
}

// Reset does nothing; the ROM image is its power-on state.
func (rom *Rom) Reset() {
}

func (rom *Rom) Size() int {
	return len(rom.Data)
}
