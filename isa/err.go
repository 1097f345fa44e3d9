// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package isa

import (
	"errors"

	"github.com/ezrec/tinycomp/translate"
)

var f = translate.From

var (
	// Decode errors
	ErrInvalidOpcode   = errors.New(f("invalid opcode"))
	ErrInvalidRegister = errors.New(f("invalid register"))
	ErrInvalidLength   = errors.New(f("invalid length"))

	// Execution errors
	ErrUnsupportedFeature = errors.New(f("unsupported feature"))
	ErrDivideByZero       = errors.New(f("divide by zero"))
)

// ErrOpcode records the opcode byte of a failed decode or execution.
type ErrOpcode struct {
	Opcode uint8
	Err    error
}

func (err *ErrOpcode) Error() string {
	return f("opcode 0x%02x: %v", err.Opcode, err.Err)
}

func (err *ErrOpcode) Unwrap() error {
	return err.Err
}
