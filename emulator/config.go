// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/tinycomp/io"
	"github.com/ezrec/tinycomp/memory"
)

// config collects the bus built by a machine description.
type config struct {
	emu *Emulator
	bus *memory.Bus
	err error
}

// fail records the first builtin error, so that it survives Starlark's
// error wrapping.
func (cfg *config) fail(err error) (starlark.Value, error) {
	if cfg.err == nil {
		cfg.err = err
	}
	return nil, err
}

func clamp(addr int) uint16 {
	return uint16(max(0, min(addr, 0xffff)))
}

// span converts a start/end pair into a bus range.
func span(start, end int) (lo, hi uint16, size int, err error) {
	if start < 0 || end > 0xffff || end < start {
		err = &memory.ErrRange{Start: clamp(start), End: clamp(end), Err: memory.ErrInvalidAddressRange}
		return
	}
	lo, hi, size = uint16(start), uint16(end), end-start+1
	return
}

// contents resolves the data= or image= argument of a builtin.
func (cfg *config) contents(data starlark.Value, image string) (content []byte, err error) {
	if image != "" {
		var ok bool
		content, ok = cfg.emu.Images[image]
		if !ok {
			err = ErrImageMissing
		}
		return
	}

	if data == nil || data == starlark.None {
		return
	}

	content, err = toBytes(data)
	return
}

// toBytes converts a Starlark bytes value, or an iterable of ints, to bytes.
func toBytes(value starlark.Value) (content []byte, err error) {
	if b, ok := value.(starlark.Bytes); ok {
		content = []byte(b)
		return
	}

	iterable, ok := value.(starlark.Iterable)
	if !ok {
		err = ErrConfigValue
		return
	}

	iter := iterable.Iterate()
	defer iter.Done()

	var item starlark.Value
	for iter.Next(&item) {
		var v int
		v, err = starlark.AsInt32(item)
		if err != nil {
			return
		}
		if v < 0 || v > 0xff {
			err = ErrConfigValue
			return
		}
		content = append(content, uint8(v))
	}

	return
}

// port converts an io= list entry to a port.
func (cfg *config) port(value starlark.Value) (port io.Port, err error) {
	emu := cfg.emu
	switch v := value.(type) {
	case starlark.NoneType:
	case starlark.String:
		switch string(v) {
		case "tape":
			port = &emu.Tape
		case "temp":
			port = emu.Temporary
		case "latch":
			port = &emu.Latch
		default:
			err = ErrPortUnknown
		}
	default:
		var content []byte
		content, err = toBytes(value)
		if err != nil {
			return
		}
		port = &io.Rom{Data: content}
	}

	return
}

func (cfg *config) attach(name string, start, end uint16, protect bool, dev memory.Device) (starlark.Value, error) {
	err := cfg.bus.AttachNamed(name, start, end, protect, dev)
	if err != nil {
		return cfg.fail(err)
	}
	return starlark.None, nil
}

// rom(start, end, data=None, image="", protect=True)
func (cfg *config) rom(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var start, end int
	var data starlark.Value
	var image string
	protect := true
	err := starlark.UnpackArgs(b.Name(), args, kwargs,
		"start", &start, "end", &end,
		"data?", &data, "image?", &image, "protect?", &protect)
	if err != nil {
		return nil, err
	}

	lo, hi, size, err := span(start, end)
	if err != nil {
		return cfg.fail(err)
	}

	content, err := cfg.contents(data, image)
	if err != nil {
		return cfg.fail(err)
	}

	rom := memory.NewRom(size)
	err = rom.Load(0, content)
	if err != nil {
		return cfg.fail(err)
	}

	return cfg.attach(b.Name(), lo, hi, protect, rom)
}

// ram(start, end)
func (cfg *config) ram(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var start, end int
	err := starlark.UnpackArgs(b.Name(), args, kwargs, "start", &start, "end", &end)
	if err != nil {
		return nil, err
	}

	lo, hi, size, err := span(start, end)
	if err != nil {
		return cfg.fail(err)
	}

	return cfg.attach(b.Name(), lo, hi, false, memory.NewRam(size))
}

// mapper(start, rom=0, ram=0, io=[], data=None, image="")
func (cfg *config) mapper(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var start, romSize, ramSize int
	var ports *starlark.List
	var data starlark.Value
	var image string
	err := starlark.UnpackArgs(b.Name(), args, kwargs,
		"start", &start, "rom?", &romSize, "ram?", &ramSize, "io?", &ports,
		"data?", &data, "image?", &image)
	if err != nil {
		return nil, err
	}

	slots := 0
	if ports != nil {
		slots = ports.Len()
	}

	if romSize < 0 || ramSize < 0 || romSize+ramSize+slots == 0 {
		return cfg.fail(ErrConfigValue)
	}

	lo, hi, _, err := span(start, start+romSize+ramSize+slots-1)
	if err != nil {
		return cfg.fail(err)
	}

	mm := memory.NewMapper(romSize, ramSize, slots)
	mm.RomEnabled = romSize > 0
	mm.RamEnabled = ramSize > 0
	mm.IoEnabled = slots > 0

	for slot := range slots {
		var port io.Port
		port, err = cfg.port(ports.Index(slot))
		if err != nil {
			return cfg.fail(err)
		}
		if port != nil {
			mm.SetPort(slot, port)
		}
	}

	content, err := cfg.contents(data, image)
	if err != nil {
		return cfg.fail(err)
	}

	err = mm.Rom.Load(0, content)
	if err != nil {
		return cfg.fail(err)
	}

	return cfg.attach(b.Name(), lo, hi, false, mm)
}

// Configure builds the machine's bus from a Starlark machine description,
// replacing the current one, and resets the emulator.
//
// The description calls the builtins rom(), ram(), and mapper() to lay out
// the address space. All emulator and instruction set defines are
// predeclared.
func (emu *Emulator) Configure(filename string, src any) (err error) {
	defer func() {
		if err != nil {
			err = &ErrConfig{File: filename, Err: err}
		}
	}()

	cfg := &config{
		emu: emu,
		bus: memory.NewBus(),
	}

	predeclared := starlark.StringDict{
		"rom":    starlark.NewBuiltin("rom", cfg.rom),
		"ram":    starlark.NewBuiltin("ram", cfg.ram),
		"mapper": starlark.NewBuiltin("mapper", cfg.mapper),
	}
	for key, value := range emu.Defines() {
		predeclared[key] = starlark.MakeInt(value)
	}

	thread := &starlark.Thread{
		Name: filename,
		Print: func(_ *starlark.Thread, msg string) {
			emu.logger().WithField("file", filename).Info(msg)
		},
	}

	_, err = starlark.ExecFileOptions(&syntax.FileOptions{}, thread, filename, src, predeclared)
	if cfg.err != nil {
		err = cfg.err
	}
	if err != nil {
		return
	}

	if cfg.bus.IsEmpty() {
		err = memory.ErrDeviceNotFound
		return
	}

	err = emu.attach(cfg.bus)
	return
}
