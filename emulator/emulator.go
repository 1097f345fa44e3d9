// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"errors"
	"iter"
	"maps"

	"github.com/sirupsen/logrus"

	"github.com/ezrec/tinycomp/cpu"
	"github.com/ezrec/tinycomp/internal"
	"github.com/ezrec/tinycomp/io"
	"github.com/ezrec/tinycomp/isa"
	"github.com/ezrec/tinycomp/memory"
	"github.com/ezrec/tinycomp/tiny"
)

const (
	ROM_START     = 0x0000 // Default ROM base.
	ROM_END       = 0x1fff // Default ROM limit.
	IO_START      = 0x2000 // Default port mapper base.
	IO_END        = 0x20ff // Default port mapper limit.
	RAM_START     = 0x2100 // Default RAM base.
	RAM_END       = 0xffff // Default RAM limit.
	PORT_TAPE     = 0      // Tape port slot.
	PORT_TEMP     = 1      // Temporary FIFO port slot.
	PORT_LATCH    = 2      // Latch port slot.
	TEMP_CAPACITY = 256    // Temporary FIFO depth.
)

var _emulator_defines = map[string]int{
	"ROM_START":     ROM_START,
	"ROM_END":       ROM_END,
	"IO_START":      IO_START,
	"IO_END":        IO_END,
	"RAM_START":     RAM_START,
	"RAM_END":       RAM_END,
	"PORT_TAPE":     PORT_TAPE,
	"PORT_TEMP":     PORT_TEMP,
	"PORT_LATCH":    PORT_LATCH,
	"TEMP_CAPACITY": TEMP_CAPACITY,
}

// Emulator state. CPU + bus + IO ports.
type Emulator struct {
	Verbose   bool               // If set, enables verbose logging.
	Logger    logrus.FieldLogger // Log destination; the standard logger if nil.
	*tiny.Cpu                    // Reference to the CPU simulation.

	Bus *memory.Bus // System bus the CPU executes from.

	Tape      io.Tape       // Tape IO port.
	Temporary *io.Temporary // Temporary FIFO IO port.
	Latch     io.Latch      // Latch IO port.

	Images map[string][]byte // Named images available to the machine description.
}

// NewEmulator creates a new emulator with the default machine.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Temporary: io.NewTemporary(TEMP_CAPACITY),
		Images:    map[string][]byte{},
	}

	bus, err := emu.defaultBus()
	if err != nil {
		// The default layout is fixed.
		panic(err)
	}

	emu.Bus = bus
	emu.Cpu = tiny.NewCpu(bus)

	return
}

func (emu *Emulator) logger() logrus.FieldLogger {
	if emu.Logger == nil {
		return logrus.StandardLogger()
	}
	return emu.Logger
}

// ports returns a port mapper with the emulator's IO ports in their slots.
func (emu *Emulator) ports(slots int) (mm *memory.Mapper) {
	mm = memory.NewMapper(0, 0, slots)
	mm.IoEnabled = true
	mm.SetPort(PORT_TAPE, &emu.Tape)
	mm.SetPort(PORT_TEMP, emu.Temporary)
	mm.SetPort(PORT_LATCH, &emu.Latch)
	return
}

func (emu *Emulator) defaultBus() (bus *memory.Bus, err error) {
	bus = memory.NewBus()

	err = bus.AttachNamed("rom", ROM_START, ROM_END, true, memory.NewRom(ROM_END-ROM_START+1))
	if err != nil {
		return
	}

	err = bus.AttachNamed("io", IO_START, IO_END, false, emu.ports(IO_END-IO_START+1))
	if err != nil {
		return
	}

	err = bus.AttachNamed("ram", RAM_START, RAM_END, false, memory.NewRam(RAM_END-RAM_START+1))
	if err != nil {
		return
	}

	return
}

// attach replaces the machine's bus.
func (emu *Emulator) attach(bus *memory.Bus) (err error) {
	bus.Verbose = emu.Verbose
	bus.Logger = emu.Logger

	emu.Bus = bus
	emu.Cpu.Mem = bus

	err = emu.Reset()
	return
}

// Defines returns an iterator over all of the defines, in name order.
func (emu *Emulator) Defines() iter.Seq2[string, int] {
	return internal.IterSeq2Sorted(internal.IterSeq2Concat(
		maps.All(_emulator_defines),
		tiny.Isa{}.Defines(),
	))
}

// LoadRom copies an image into the first protected ROM on the bus.
func (emu *Emulator) LoadRom(image []byte) (err error) {
	for md := range emu.Bus.Devices() {
		rom, ok := md.Device.(*memory.Rom)
		if !ok {
			continue
		}
		err = rom.Load(0, image)
		return
	}

	err = &memory.ErrAccess{Addr: 0, Err: memory.ErrDeviceNotFound}
	return
}

// Reset the machine: memories, ports, and the CPU.
func (emu *Emulator) Reset() (err error) {
	emu.Bus.Reset()
	emu.Tape.Reset()
	emu.Temporary.Reset()
	emu.Latch.Reset()

	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Logger = emu.Logger
	err = emu.Cpu.Reset()

	return
}

// Tick performs a single instruction step of the emulator.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	if emu.Cpu.RunState() == cpu.RUN_STATE_HALTED {
		done = true
		return
	}

	pc := emu.Cpu.Regs.Pc()
	defer func() {
		if err != nil {
			err = &ErrRuntime{Pc: pc, Err: err}
		}
	}()

	_, err = emu.Cpu.Step()
	if err != nil {
		return
	}

	done = emu.Cpu.RunState() == cpu.RUN_STATE_HALTED
	return
}

// Run ticks the emulator until it halts, faults, or limit steps have
// executed. A limit of zero or less runs without limit.
func (emu *Emulator) Run(limit int) (steps int, err error) {
	for limit <= 0 || steps < limit {
		if emu.Cpu.RunState() == cpu.RUN_STATE_HALTED {
			return
		}

		var done bool
		done, err = emu.Tick()
		if err != nil {
			return
		}
		steps++

		if done {
			return
		}
	}

	err = cpu.ErrStepLimit
	return
}

// Disassemble the instruction at an address, without reading IO ports.
// Undecodable bytes disassemble as a single data byte.
func (emu *Emulator) Disassemble(addr uint16) (text string, size int, err error) {
	mem := inspector{bus: emu.Bus}
	fetcher := &tiny.Cpu{Mem: mem}

	inst, err := fetcher.Fetch(addr)
	if errors.Is(err, isa.ErrInvalidOpcode) || errors.Is(err, isa.ErrInvalidRegister) {
		var value uint8
		value, err = mem.Read(addr)
		if err != nil {
			return
		}
		text = f(".byte 0x%02x", value)
		size = 1
		return
	}
	if err != nil {
		return
	}

	text = inst.Disassemble()
	size = inst.Size()
	return
}

// Listing iterates over count instructions starting at addr.
// It stops early at unreadable memory or the end of the address space.
func (emu *Emulator) Listing(addr uint16, count int) iter.Seq2[uint16, string] {
	return func(yield func(uint16, string) bool) {
		where := int(addr)
		for range count {
			text, size, err := emu.Disassemble(uint16(where))
			if err != nil {
				emu.logger().WithError(err).Debug("listing")
				return
			}
			if !yield(uint16(where), text) {
				return
			}
			where += size
			if where > 0xffff {
				return
			}
		}
	}
}
