// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/ezrec/tinycomp/emulator"
)

const DEBUG_LISTING = 8 // Instructions shown by the listing command.

const _debug_help = "s: step, c: continue, r: registers, l: listing, x: reset, q: quit"

// debugger single steps the emulator under keyboard control.
func debugger(emu *emulator.Emulator, keys *os.File, out *os.File) (err error) {
	fd := int(keys.Fd())
	if term.IsTerminal(fd) {
		var oldState *term.State
		oldState, err = term.MakeRaw(fd)
		if err != nil {
			return
		}
		defer term.Restore(fd, oldState)
	}

	// Raw mode needs explicit carriage returns.
	printf := func(format string, args ...any) {
		fmt.Fprintf(out, format+"\r\n", args...)
	}

	where := func() {
		text, _, err := emu.Disassemble(emu.Cpu.Regs.Pc())
		if err != nil {
			text = err.Error()
		}
		printf("%04x: %v", emu.Cpu.Regs.Pc(), text)
	}

	printf(_debug_help)
	where()

	key := make([]byte, 1)
	for {
		_, err = keys.Read(key)
		if err != nil {
			return
		}

		var done bool
		switch key[0] {
		case 's', ' ':
			done, err = emu.Tick()
			where()
		case 'c':
			_, err = emu.Run(0)
			done = err == nil
		case 'r':
			printf("%v", emu.Cpu.String())
		case 'l':
			for addr, text := range emu.Listing(emu.Cpu.Regs.Pc(), DEBUG_LISTING) {
				printf("%04x: %v", addr, text)
			}
		case 'x':
			err = emu.Reset()
			where()
		case 'q', 0x03, 0x04:
			return
		default:
			printf(_debug_help)
		}

		if err != nil {
			printf("%v", err)
			return
		}
		if done {
			printf("halted")
			return
		}
	}
}
