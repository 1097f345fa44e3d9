// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package memory

import (
	"github.com/ezrec/tinycomp/io"
)

// Region is one of the contiguous areas of a Mapper.
type Region int

const (
	REGION_ROM = Region(0) // rom
	REGION_RAM = Region(1) // ram
	REGION_IO  = Region(2) // io
)

func (region Region) String() string {
	switch region {
	case REGION_ROM:
		return "rom"
	case REGION_RAM:
		return "ram"
	case REGION_IO:
		return "io"
	}
	return f("Region(%d)", int(region))
}

// Mapper lays out a ROM, a RAM, and an array of IO slots contiguously from
// address zero. Each region is gated by its own enable flag, and all regions
// start out disabled.
type Mapper struct {
	Rom *Rom      // ROM region.
	Ram *Ram      // RAM region.
	Io  []io.Port // IO slots. A nil entry is an empty slot.

	RomEnabled bool
	RamEnabled bool
	IoEnabled  bool
}

var _ Device = (*Mapper)(nil)
var _ Validator = (*Mapper)(nil)

// NewMapper creates a mapper with the given region sizes.
func NewMapper(romSize, ramSize, ioSlots int) *Mapper {
	return &Mapper{
		Rom: NewRom(romSize),
		Ram: NewRam(ramSize),
		Io:  make([]io.Port, ioSlots),
	}
}

// Enable all regions.
func (mm *Mapper) Enable() {
	mm.RomEnabled = true
	mm.RamEnabled = true
	mm.IoEnabled = true
}

// SetPort populates an IO slot. A nil port empties the slot.
func (mm *Mapper) SetPort(slot int, port io.Port) (err error) {
	if slot < 0 || slot >= len(mm.Io) {
		err = ErrDeviceNotFound
		return
	}

	mm.Io[slot] = port
	return
}

// Port returns the port in an IO slot.
func (mm *Mapper) Port(slot int) (port io.Port, ok bool) {
	if slot < 0 || slot >= len(mm.Io) {
		return
	}

	port = mm.Io[slot]
	ok = port != nil
	return
}

// Locate classifies an address into its region and region offset, checking
// the region gate.
func (mm *Mapper) Locate(addr uint16) (region Region, offset uint16, err error) {
	romEnd := mm.Rom.Size()
	ramEnd := romEnd + mm.Ram.Size()
	ioEnd := ramEnd + len(mm.Io)

	where := int(addr)
	switch {
	case where < romEnd:
		region, offset = REGION_ROM, uint16(where)
		if !mm.RomEnabled {
			err = ErrRomNotLoaded
		}
	case where < ramEnd:
		region, offset = REGION_RAM, uint16(where-romEnd)
		if !mm.RamEnabled {
			err = ErrRamNotLoaded
		}
	case where < ioEnd:
		region, offset = REGION_IO, uint16(where-ramEnd)
		if !mm.IoEnabled {
			err = ErrIoNotLoaded
		}
	default:
		err = ErrAddressOutOfBounds
	}

	if err != nil {
		err = &ErrAccess{Addr: addr, Err: err}
	}

	return
}

func (mm *Mapper) port(addr uint16, offset uint16) (port io.Port, err error) {
	port, ok := mm.Port(int(offset))
	if !ok {
		err = &ErrAccess{Addr: addr, Err: ErrDeviceNotFound}
	}
	return
}

// Validate checks that a read or write of addr would succeed at the region
// level.
func (mm *Mapper) Validate(addr uint16, write bool) (err error) {
	region, offset, err := mm.Locate(addr)
	if err != nil {
		return
	}

	switch region {
	case REGION_ROM:
		err = mm.Rom.Validate(offset, write)
	case REGION_RAM:
		err = mm.Ram.Validate(offset, write)
	case REGION_IO:
		var port io.Port
		port, err = mm.port(addr, offset)
		if err != nil {
			return
		}
		err = port.Validate(offset, write)
	}

	if err != nil {
		err = wrapAccess(addr, err)
	}

	return
}

func (mm *Mapper) Read(addr uint16) (value uint8, err error) {
	region, offset, err := mm.Locate(addr)
	if err != nil {
		return
	}

	switch region {
	case REGION_ROM:
		value, err = mm.Rom.Read(offset)
	case REGION_RAM:
		value, err = mm.Ram.Read(offset)
	case REGION_IO:
		var port io.Port
		port, err = mm.port(addr, offset)
		if err != nil {
			return
		}
		value, err = port.Read(offset)
	}

	if err != nil {
		err = wrapAccess(addr, err)
	}

	return
}

func (mm *Mapper) Write(addr uint16, value uint8) (err error) {
	region, offset, err := mm.Locate(addr)
	if err != nil {
		return
	}

	switch region {
	case REGION_ROM:
		err = ErrReadOnlyMemory
	case REGION_RAM:
		err = mm.Ram.Write(offset, value)
	case REGION_IO:
		var port io.Port
		port, err = mm.port(addr, offset)
		if err != nil {
			return
		}
		err = port.Write(offset, value)
	}

	if err != nil {
		err = wrapAccess(addr, err)
	}

	return
}

// Read16 reads a big-endian 16-bit value.
func (mm *Mapper) Read16(addr uint16) (value uint16, err error) {
	return Read16(mm, addr)
}

// Write16 writes a big-endian 16-bit value. Neither byte is written unless
// both addresses accept a write.
func (mm *Mapper) Write16(addr uint16, value uint16) (err error) {
	return Write16(mm, addr, value)
}

// Reset clears the RAM and resets every populated IO slot.
func (mm *Mapper) Reset() {
	mm.Rom.Reset()
	mm.Ram.Reset()
	for _, port := range mm.Io {
		if port != nil {
			port.Reset()
		}
	}
}

// Size is the total span of all regions.
func (mm *Mapper) Size() int {
	return mm.Rom.Size() + mm.Ram.Size() + len(mm.Io)
}

func wrapAccess(addr uint16, err error) error {
	if _, ok := err.(*ErrAccess); ok {
		return err
	}
	return &ErrAccess{Addr: addr, Err: err}
}
