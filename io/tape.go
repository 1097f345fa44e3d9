// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package io

import (
	"errors"
	"io"
)

// Tape provides sequential byte I/O. Reads consume bytes from Input, and
// writes append bytes to Output.
type Tape struct {
	Input  io.Reader
	Output io.Writer
}

var _ Port = (*Tape)(nil)

func (tc *Tape) Validate(slot uint16, write bool) (err error) {
	switch {
	case write && tc.Output == nil:
		err = ErrPortReadOnly
	case !write && tc.Input == nil:
		err = ErrPortUnexpected
	}
	return
}

// Read the next byte from the input stream.
func (tc *Tape) Read(slot uint16) (value uint8, err error) {
	if tc.Input == nil {
		err = ErrPortUnexpected
		return
	}

	var one [1]byte
	_, err = io.ReadFull(tc.Input, one[:])
	if errors.Is(err, io.EOF) {
		err = ErrChannelEmpty
		return
	}
	if err != nil {
		err = errors.Join(ErrDevice(1), err)
		return
	}

	value = one[0]
	return
}

// Write a byte to the output stream.
func (tc *Tape) Write(slot uint16, value uint8) (err error) {
	if tc.Output == nil {
		err = ErrPortReadOnly
		return
	}

	_, err = tc.Output.Write([]byte{value})
	if err != nil {
		err = errors.Join(ErrDevice(2), err)
	}
	return
}

// Reset is not possible on a tape.
func (tc *Tape) Reset() {
}
