// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package memory

import (
	"errors"

	"github.com/ezrec/tinycomp/translate"
)

var f = translate.From

var (
	// Address space errors
	ErrAddressOutOfBounds    = errors.New(f("address out of bounds"))
	ErrReadOnlyMemory        = errors.New(f("read-only memory"))
	ErrDeviceAlreadyAttached = errors.New(f("device already attached"))
	ErrDeviceNotFound        = errors.New(f("device not found"))
	ErrInvalidAddressRange   = errors.New(f("invalid address range"))

	// Region mapper errors
	ErrRomNotLoaded = errors.New(f("rom not loaded"))
	ErrRamNotLoaded = errors.New(f("ram not loaded"))
	ErrIoNotLoaded  = errors.New(f("io not loaded"))
)

// ErrAccess records the address of a failed memory access.
type ErrAccess struct {
	Addr uint16
	Err  error
}

func (err *ErrAccess) Error() string {
	return f("address 0x%04x: %v", err.Addr, err.Err)
}

func (err *ErrAccess) Unwrap() error {
	return err.Err
}

// ErrRange records an address range that could not be attached.
type ErrRange struct {
	Start uint16
	End   uint16
	Err   error
}

func (err *ErrRange) Error() string {
	return f("range 0x%04x-0x%04x: %v", err.Start, err.End, err.Err)
}

func (err *ErrRange) Unwrap() error {
	return err.Err
}
