// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"path"
	"strings"

	"golang.org/x/tools/txtar"
)

const (
	ARCHIVE_MACHINE   = "machine.star" // Machine description file.
	ARCHIVE_ROM       = "rom"          // Default machine ROM image.
	ARCHIVE_IMAGE_EXT = ".hex"         // Extension of hex dump images.
)

// LoadArchive loads a machine from a txtar archive.
//
// Files ending in ".hex" are parsed as hex dump images, and named without
// the extension. All other files except the machine description are raw
// images. If the archive has a "machine.star" description, it builds the
// bus; otherwise the default machine is used, with the "rom" image loaded
// into its ROM.
func (emu *Emulator) LoadArchive(ar *txtar.Archive) (err error) {
	var machine *txtar.File

	for n := range ar.Files {
		file := &ar.Files[n]
		switch {
		case file.Name == ARCHIVE_MACHINE:
			machine = file
		case path.Ext(file.Name) == ARCHIVE_IMAGE_EXT:
			name := strings.TrimSuffix(file.Name, ARCHIVE_IMAGE_EXT)
			var image []byte
			image, err = ParseImage(file.Name, file.Data)
			if err != nil {
				return
			}
			emu.Images[name] = image
		default:
			emu.Images[file.Name] = file.Data
		}
	}

	if emu.Verbose {
		emu.logger().WithField("images", len(emu.Images)).Debug(strings.TrimSpace(string(ar.Comment)))
	}

	if machine != nil {
		err = emu.Configure(machine.Name, machine.Data)
		return
	}

	bus, err := emu.defaultBus()
	if err != nil {
		return
	}

	err = emu.attach(bus)
	if err != nil {
		return
	}

	image, ok := emu.Images[ARCHIVE_ROM]
	if !ok {
		err = &ErrConfig{File: ARCHIVE_ROM, Err: ErrImageMissing}
		return
	}

	err = emu.LoadRom(image)
	return
}

// LoadArchiveFile loads a machine from a txtar archive file.
func (emu *Emulator) LoadArchiveFile(filename string) (err error) {
	ar, err := txtar.ParseFile(filename)
	if err != nil {
		return
	}

	err = emu.LoadArchive(ar)
	return
}
