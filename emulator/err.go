// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"errors"

	"github.com/ezrec/tinycomp/translate"
)

var f = translate.From

var (
	// Configuration errors
	ErrConfigValue  = errors.New(f("value out of range"))
	ErrPortUnknown  = errors.New(f("unknown port"))
	ErrImageMissing = errors.New(f("image missing"))
	ErrImageSyntax  = errors.New(f("image syntax"))
	ErrPortInspect  = errors.New(f("port not inspectable"))
)

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	Pc  uint16
	Err error
}

func (err *ErrRuntime) Error() string {
	return f("pc 0x%04x %v", err.Pc, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}

// ErrConfig indicates a machine description that could not be applied.
type ErrConfig struct {
	File string
	Err  error
}

func (err *ErrConfig) Error() string {
	return f("%v: %v", err.File, err.Err)
}

func (err *ErrConfig) Unwrap() error {
	return err.Err
}

// ErrImage indicates the location of an image syntax error.
type ErrImage struct {
	Name   string
	LineNo int
	Err    error
}

func (err *ErrImage) Error() string {
	return f("%v line %d %v", err.Name, err.LineNo, err.Err)
}

func (err *ErrImage) Unwrap() error {
	return err.Err
}
