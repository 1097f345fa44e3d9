// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package io

// Rom streams a fixed block of data, one byte per read.
type Rom struct {
	Data []uint8

	index int
}

var _ Port = (*Rom)(nil)

func (rc *Rom) Validate(slot uint16, write bool) (err error) {
	switch {
	case write:
		err = ErrPortReadOnly
	case rc.index >= len(rc.Data):
		err = ErrChannelEmpty
	}
	return
}

func (rc *Rom) Read(slot uint16) (value uint8, err error) {
	if rc.index >= len(rc.Data) {
		err = ErrChannelEmpty
		return
	}

	value = rc.Data[rc.index]
	rc.index++
	return
}

func (rc *Rom) Write(slot uint16, value uint8) error {
	return ErrPortReadOnly
}

// Reset rewinds the stream.
func (rc *Rom) Reset() {
	rc.index = 0
}
