// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"errors"

	"github.com/ezrec/tinycomp/translate"
)

var f = translate.From

var (
	// Run state errors
	ErrHalted    = errors.New(f("cpu halted"))
	ErrFaulted   = errors.New(f("cpu faulted"))
	ErrStepLimit = errors.New(f("step limit reached"))

	// Stack errors
	ErrStackOverflow  = errors.New(f("stack overflow"))
	ErrStackUnderflow = errors.New(f("stack underflow"))

	// Program counter errors
	ErrPcOverflow = errors.New(f("pc overflow"))
)
