// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package tiny

// Flag bits of the flags register.
const (
	FLAG_ZERO      = uint8(1 << 0)
	FLAG_NEGATIVE  = uint8(1 << 1)
	FLAG_CARRY     = uint8(1 << 2)
	FLAG_OVERFLOW  = uint8(1 << 3)
	FLAG_INTERRUPT = uint8(1 << 4)
	FLAG_DECIMAL   = uint8(1 << 5)
	FLAG_CONDITION = uint8(1 << 6)

	// Flags written by the ALU.
	FLAG_ALU_MASK = FLAG_ZERO | FLAG_NEGATIVE | FLAG_CARRY | FLAG_OVERFLOW
)
