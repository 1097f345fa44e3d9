// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package io provides the byte ports that populate the IO slots of a
// memory.Mapper: sequential tape streams, a temporary FIFO, a read-only data
// stream, and a simple latch.
package io

// Port is a device occupying one IO slot. The slot argument is the offset of
// the access from the start of the IO region.
type Port interface {
	// Validate checks that a read or write of the slot would succeed,
	// without side effects.
	Validate(slot uint16, write bool) (err error)
	// Read a byte from the port.
	Read(slot uint16) (value uint8, err error)
	// Write a byte to the port.
	Write(slot uint16, value uint8) (err error)
	// Reset the port to its initial state.
	Reset()
}
