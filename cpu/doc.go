// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package cpu defines the architecture-neutral capability set of an emulated
// processor: a flags register, a register file with program counter and
// stack pointer, the CPU state seen by executing instructions, and the
// engine contract for reset, single step, and run.
//
// Concrete architectures implement these interfaces; see package tiny.
// The generic stack discipline (Push, Pop) and the bounded driver (Steps)
// work over any implementation.
package cpu
