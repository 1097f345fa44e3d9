// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package memory provides the address space of an emulated machine: byte
// addressable devices, a bus that maps them into a 16-bit address range, and
// a fixed ROM/RAM/IO region mapper.
//
// All multi-byte quantities are big-endian: the high byte lives at the lower
// address.
package memory

// Device is a byte addressable memory device. Addresses passed to a device
// are relative to the device, starting at zero.
type Device interface {
	// Read a byte from the device.
	Read(addr uint16) (value uint8, err error)
	// Write a byte to the device.
	Write(addr uint16, value uint8) (err error)
	// Reset the device to its power-on contents.
	Reset()
	// Size of the device, in bytes.
	Size() int
}

// Validator is implemented by devices that can check an access without
// performing it.
type Validator interface {
	Validate(addr uint16, write bool) (err error)
}

// Read16 reads a big-endian 16-bit value.
func Read16(dev Device, addr uint16) (value uint16, err error) {
	if addr == 0xffff {
		err = &ErrAccess{Addr: addr, Err: ErrAddressOutOfBounds}
		return
	}

	hi, err := dev.Read(addr)
	if err != nil {
		return
	}

	lo, err := dev.Read(addr + 1)
	if err != nil {
		return
	}

	value = (uint16(hi) << 8) | uint16(lo)
	return
}

// Write16 writes a big-endian 16-bit value. When the device is a Validator,
// both bytes are checked before either is written.
func Write16(dev Device, addr uint16, value uint16) (err error) {
	if addr == 0xffff {
		err = &ErrAccess{Addr: addr, Err: ErrAddressOutOfBounds}
		return
	}

	if v, ok := dev.(Validator); ok {
		err = v.Validate(addr, true)
		if err != nil {
			return
		}
		err = v.Validate(addr+1, true)
		if err != nil {
			return
		}
	}

	err = dev.Write(addr, uint8(value>>8))
	if err != nil {
		return
	}

	err = dev.Write(addr+1, uint8(value))
	return
}
