// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package io

import (
	"errors"

	"github.com/ezrec/tinycomp/translate"
)

var f = translate.From

// ErrCode is the numeric status reported by a port.
type ErrCode uint8

const (
	ERR_CODE_OUT_OF_BOUNDS = ErrCode(0) // out of bounds
	ERR_CODE_READ_ONLY     = ErrCode(1) // read only
	ERR_CODE_UNEXPECTED    = ErrCode(2) // unexpected
	ERR_CODE_DEVICE        = ErrCode(3) // device
)

func (code ErrCode) String() string {
	switch code {
	case ERR_CODE_OUT_OF_BOUNDS:
		return "out of bounds"
	case ERR_CODE_READ_ONLY:
		return "read only"
	case ERR_CODE_UNEXPECTED:
		return "unexpected"
	case ERR_CODE_DEVICE:
		return "device"
	}
	return f("ErrCode(%d)", uint8(code))
}

var (
	// Port errors
	ErrPortOutOfBounds = errors.New(f("port out of bounds"))
	ErrPortReadOnly    = errors.New(f("port read only"))
	ErrPortUnexpected  = errors.New(f("port unexpected"))

	// Channel errors
	ErrChannelFull  = errors.New(f("channel full"))
	ErrChannelEmpty = errors.New(f("channel empty"))
)

// ErrDevice is a device specific failure code.
type ErrDevice uint8

func (err ErrDevice) Error() string {
	return f("device error %d", uint8(err))
}

func (err ErrDevice) Is(target error) (ok bool) {
	_, ok = target.(ErrDevice)
	return
}

// Code classifies a port error.
func Code(err error) ErrCode {
	switch {
	case errors.Is(err, ErrPortOutOfBounds):
		return ERR_CODE_OUT_OF_BOUNDS
	case errors.Is(err, ErrPortReadOnly):
		return ERR_CODE_READ_ONLY
	case errors.Is(err, ErrDevice(0)),
		errors.Is(err, ErrChannelFull),
		errors.Is(err, ErrChannelEmpty):
		return ERR_CODE_DEVICE
	}
	return ERR_CODE_UNEXPECTED
}
