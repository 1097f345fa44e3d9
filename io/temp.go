// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package io

// Temporary implements a circular byte buffer.
// It operates as a FIFO queue with a fixed capacity and separate read/write positions.
type Temporary struct {
	Capacity int // Capacity in bytes.

	ReadIndex  int
	WriteIndex int
	Size       int
	Data       []uint8
}

var _ Port = (*Temporary)(nil)

// NewTemporary creates a FIFO of the given capacity.
func NewTemporary(capacity int) (temp *Temporary) {
	temp = &Temporary{Capacity: capacity}
	temp.Reset()
	return
}

// Reset empties the buffer.
func (temp *Temporary) Reset() {
	temp.ReadIndex = 0
	temp.WriteIndex = 0
	temp.Size = 0
	temp.Data = make([]uint8, temp.Capacity)
}

func (temp *Temporary) Validate(slot uint16, write bool) (err error) {
	switch {
	case temp.Capacity == 0:
		err = ErrPortUnexpected
	case write && temp.Size >= temp.Capacity:
		err = ErrChannelFull
	case !write && temp.Size == 0:
		err = ErrChannelEmpty
	}
	return
}

// Read pops the oldest byte from the buffer.
// Returns ErrChannelEmpty if there is nothing to read.
func (temp *Temporary) Read(slot uint16) (value uint8, err error) {
	if temp.Size == 0 {
		err = ErrChannelEmpty
		return
	}

	value = temp.Data[temp.ReadIndex]
	temp.ReadIndex++
	if temp.ReadIndex == temp.Capacity {
		temp.ReadIndex = 0
	}
	temp.Size--

	return
}

// Write pushes a byte into the buffer.
// Returns ErrChannelFull if the buffer has reached capacity.
func (temp *Temporary) Write(slot uint16, value uint8) (err error) {
	if temp.Size >= temp.Capacity {
		err = ErrChannelFull
		return
	}

	temp.Data[temp.WriteIndex] = value

	temp.WriteIndex++
	if temp.WriteIndex == temp.Capacity {
		temp.WriteIndex = 0
	}
	temp.Size++

	return
}
