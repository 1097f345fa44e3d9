// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"github.com/ezrec/tinycomp/memory"
)

// inspector reads a bus without side effects. Reads that would reach an IO
// port fail with ErrPortInspect.
type inspector struct {
	bus *memory.Bus
}

var _ memory.Device = inspector{}

func (in inspector) Read(addr uint16) (value uint8, err error) {
	md, ok := in.bus.Find(addr)
	if !ok {
		err = &memory.ErrAccess{Addr: addr, Err: memory.ErrDeviceNotFound}
		return
	}

	offset := addr - md.Start
	switch dev := md.Device.(type) {
	case *memory.Bus:
		value, err = inspector{bus: dev}.Read(offset)
	case *memory.Mapper:
		var region memory.Region
		region, _, err = dev.Locate(offset)
		if err != nil {
			return
		}
		if region == memory.REGION_IO {
			err = &memory.ErrAccess{Addr: addr, Err: ErrPortInspect}
			return
		}
		value, err = dev.Read(offset)
	default:
		value, err = dev.Read(offset)
	}

	return
}

func (in inspector) Write(addr uint16, value uint8) error {
	return &memory.ErrAccess{Addr: addr, Err: memory.ErrReadOnlyMemory}
}

func (in inspector) Reset() {
}

func (in inspector) Size() int {
	return in.bus.Size()
}
