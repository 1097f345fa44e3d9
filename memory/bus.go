// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package memory

import (
	"iter"
	"slices"

	"github.com/sirupsen/logrus"
)

// MappedDevice is a device attached to a bus over an inclusive address range.
type MappedDevice struct {
	Name      string // Name used in trace output.
	Start     uint16 // First address of the mapping.
	End       uint16 // Last address of the mapping, inclusive.
	Protected bool   // If set, all writes through the bus are rejected.
	Device    Device // The attached device.
}

// Contains returns true if the address is inside the mapping.
func (md *MappedDevice) Contains(addr uint16) bool {
	return addr >= md.Start && addr <= md.End
}

// Overlaps returns true if any address in start..end is inside the mapping.
func (md *MappedDevice) Overlaps(start, end uint16) bool {
	return start <= md.End && end >= md.Start
}

// Bus is an address space composed of mapped devices. Lookups scan the
// mappings in attach order. The bus owns an attached device until it is
// detached.
type Bus struct {
	Verbose bool               // If set, attach and detach are traced.
	Logger  logrus.FieldLogger // Trace destination; the standard logger if nil.

	mapped []*MappedDevice
}

var _ Device = (*Bus)(nil)
var _ Validator = (*Bus)(nil)

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

func (bus *Bus) logger() logrus.FieldLogger {
	if bus.Logger == nil {
		return logrus.StandardLogger()
	}
	return bus.Logger
}

// Attach maps a device over start..end, inclusive.
func (bus *Bus) Attach(start, end uint16, protected bool, dev Device) (err error) {
	return bus.AttachNamed("", start, end, protected, dev)
}

// AttachNamed maps a device over start..end, inclusive, with a name for tracing.
func (bus *Bus) AttachNamed(name string, start, end uint16, protected bool, dev Device) (err error) {
	if dev == nil {
		err = &ErrRange{Start: start, End: end, Err: ErrDeviceNotFound}
		return
	}

	if end < start {
		err = &ErrRange{Start: start, End: end, Err: ErrInvalidAddressRange}
		return
	}

	for _, md := range bus.mapped {
		if md.Overlaps(start, end) {
			err = &ErrRange{Start: start, End: end, Err: ErrDeviceAlreadyAttached}
			return
		}
	}

	bus.mapped = append(bus.mapped, &MappedDevice{
		Name:      name,
		Start:     start,
		End:       end,
		Protected: protected,
		Device:    dev,
	})

	if bus.Verbose {
		bus.logger().WithFields(logrus.Fields{
			"device":    name,
			"start":     start,
			"end":       end,
			"protected": protected,
		}).Debug("bus: attach")
	}

	return
}

// Detach removes the mapping that starts exactly at start, returning its device.
func (bus *Bus) Detach(start uint16) (dev Device, ok bool) {
	index := slices.IndexFunc(bus.mapped, func(md *MappedDevice) bool {
		return md.Start == start
	})
	if index < 0 {
		return
	}

	md := bus.mapped[index]
	bus.mapped = slices.Delete(bus.mapped, index, index+1)

	if bus.Verbose {
		bus.logger().WithFields(logrus.Fields{
			"device": md.Name,
			"start":  md.Start,
			"end":    md.End,
		}).Debug("bus: detach")
	}

	dev, ok = md.Device, true
	return
}

// Find returns the mapping that contains addr.
func (bus *Bus) Find(addr uint16) (md *MappedDevice, ok bool) {
	for _, md = range bus.mapped {
		if md.Contains(addr) {
			ok = true
			return
		}
	}

	md = nil
	return
}

// Validate checks that a read or write of addr would reach a device.
func (bus *Bus) Validate(addr uint16, write bool) (err error) {
	md, ok := bus.Find(addr)
	if !ok {
		err = &ErrAccess{Addr: addr, Err: ErrAddressOutOfBounds}
		return
	}

	if write && md.Protected {
		err = &ErrAccess{Addr: addr, Err: ErrReadOnlyMemory}
		return
	}

	if v, ok := md.Device.(Validator); ok {
		err = v.Validate(addr-md.Start, write)
	}

	return
}

func (bus *Bus) Read(addr uint16) (value uint8, err error) {
	md, ok := bus.Find(addr)
	if !ok {
		err = &ErrAccess{Addr: addr, Err: ErrAddressOutOfBounds}
		return
	}

	return md.Device.Read(addr - md.Start)
}

func (bus *Bus) Write(addr uint16, value uint8) (err error) {
	md, ok := bus.Find(addr)
	if !ok {
		err = &ErrAccess{Addr: addr, Err: ErrAddressOutOfBounds}
		return
	}

	if md.Protected {
		err = &ErrAccess{Addr: addr, Err: ErrReadOnlyMemory}
		return
	}

	return md.Device.Write(addr-md.Start, value)
}

// Reset resets every attached device. Mappings are kept.
func (bus *Bus) Reset() {
	for _, md := range bus.mapped {
		md.Device.Reset()
	}
}

// Size is the sum of the sizes of the attached devices.
func (bus *Bus) Size() (size int) {
	for _, md := range bus.mapped {
		size += md.Device.Size()
	}
	return
}

// Devices iterates over the mappings in attach order.
func (bus *Bus) Devices() iter.Seq[*MappedDevice] {
	return slices.Values(bus.mapped)
}

// Len returns the number of attached devices.
func (bus *Bus) Len() int {
	return len(bus.mapped)
}

// IsEmpty returns true if no devices are attached.
func (bus *Bus) IsEmpty() bool {
	return len(bus.mapped) == 0
}

// Clear detaches all devices.
func (bus *Bus) Clear() {
	bus.mapped = nil
}
