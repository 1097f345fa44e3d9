package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBus_Attach(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name  string
		start uint16
		end   uint16
		err   error
	}){
		{"disjoint_before", 0x0000, 0x0fff, nil},
		{"disjoint_after", 0x3000, 0x3fff, nil},
		{"inverted", 0x5000, 0x4fff, ErrInvalidAddressRange},
		{"start_inside", 0x1800, 0x2800, ErrDeviceAlreadyAttached},
		{"end_inside", 0x0800, 0x1800, ErrDeviceAlreadyAttached},
		{"enclosing", 0x0800, 0x2800, ErrDeviceAlreadyAttached},
		{"identical", 0x1000, 0x1fff, ErrDeviceAlreadyAttached},
		{"single", 0x2000, 0x2000, nil},
	}

	for _, entry := range table {
		bus := NewBus()
		assert.NoError(bus.Attach(0x1000, 0x1fff, false, NewRam(0x1000)), entry.name)

		err := bus.Attach(entry.start, entry.end, false, NewRam(0x1000))
		if entry.err == nil {
			assert.NoError(err, entry.name)
			assert.Equal(2, bus.Len(), entry.name)
		} else {
			assert.ErrorIs(err, entry.err, entry.name)
			assert.Equal(1, bus.Len(), entry.name)
		}
	}

	bus := NewBus()
	assert.ErrorIs(bus.Attach(0, 1, false, nil), ErrDeviceNotFound)
}

func TestBus_ReadWrite(t *testing.T) {
	assert := assert.New(t)

	bus := NewBus()
	ram := NewRam(0x100)
	assert.NoError(bus.Attach(0x2000, 0x20ff, false, ram))

	assert.NoError(bus.Write(0x2000, 0x42))
	value, err := bus.Read(0x2000)
	assert.NoError(err)
	assert.Equal(uint8(0x42), value)
	assert.Equal(uint8(0x42), ram.Data[0])

	_, err = bus.Read(0x3000)
	assert.ErrorIs(err, ErrAddressOutOfBounds)
	assert.ErrorIs(bus.Write(0x1fff, 1), ErrAddressOutOfBounds)

	var access *ErrAccess
	assert.ErrorAs(err, &access)
	assert.Equal(uint16(0x3000), access.Addr)
}

func TestBus_Protected(t *testing.T) {
	assert := assert.New(t)

	bus := NewBus()
	ram := NewRam(0x10)
	assert.NoError(bus.Attach(0x0000, 0x000f, true, ram))

	assert.ErrorIs(bus.Write(0x0004, 1), ErrReadOnlyMemory)
	assert.ErrorIs(bus.Validate(0x0004, true), ErrReadOnlyMemory)
	assert.NoError(bus.Validate(0x0004, false))
	assert.Equal(uint8(0), ram.Data[4])
}

func TestBus_Detach(t *testing.T) {
	assert := assert.New(t)

	bus := NewBus()
	ram := NewRam(0x100)
	assert.NoError(bus.Attach(0x2000, 0x20ff, false, ram))

	_, ok := bus.Detach(0x2001)
	assert.False(ok)

	dev, ok := bus.Detach(0x2000)
	assert.True(ok)
	assert.Same(ram, dev)
	assert.True(bus.IsEmpty())

	_, err := bus.Read(0x2000)
	assert.ErrorIs(err, ErrAddressOutOfBounds)
}

func TestBus_ResetSize(t *testing.T) {
	assert := assert.New(t)

	bus := NewBus()
	rom := NewRom(0x10)
	ram := NewRam(0x20)
	assert.NoError(rom.Load(0, []uint8{0xaa, 0xbb}))
	assert.NoError(bus.Attach(0x0000, 0x000f, true, rom))
	assert.NoError(bus.Attach(0x0010, 0x002f, false, ram))

	assert.Equal(0x30, bus.Size())

	assert.NoError(bus.Write(0x0010, 0x11))
	bus.Reset()

	value, err := bus.Read(0x0010)
	assert.NoError(err)
	assert.Equal(uint8(0), value)

	value, err = bus.Read(0x0001)
	assert.NoError(err)
	assert.Equal(uint8(0xbb), value)

	var starts []uint16
	for md := range bus.Devices() {
		starts = append(starts, md.Start)
	}
	assert.Equal([]uint16{0x0000, 0x0010}, starts)

	bus.Clear()
	assert.Equal(0, bus.Size())
	assert.Equal(0, bus.Len())
}

func TestBus_Nested(t *testing.T) {
	assert := assert.New(t)

	inner := NewBus()
	assert.NoError(inner.Attach(0x0000, 0x00ff, false, NewRam(0x100)))

	outer := NewBus()
	assert.NoError(outer.Attach(0x8000, 0x80ff, false, inner))

	assert.NoError(Write16(outer, 0x8010, 0xbeef))
	value, err := Read16(outer, 0x8010)
	assert.NoError(err)
	assert.Equal(uint16(0xbeef), value)

	md, ok := outer.Find(0x80ff)
	assert.True(ok)
	assert.Same(inner, md.Device)
}

func TestWrite16_Atomic(t *testing.T) {
	assert := assert.New(t)

	bus := NewBus()
	ram := NewRam(0x10)
	assert.NoError(bus.Attach(0x0000, 0x000f, false, ram))

	// Second byte is unmapped: the first byte must stay untouched.
	assert.ErrorIs(Write16(bus, 0x000f, 0x1234), ErrAddressOutOfBounds)
	assert.Equal(uint8(0), ram.Data[0xf])

	assert.ErrorIs(Write16(bus, 0xffff, 0x1234), ErrAddressOutOfBounds)
	_, err := Read16(bus, 0xffff)
	assert.ErrorIs(err, ErrAddressOutOfBounds)
}
