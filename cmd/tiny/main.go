// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/ezrec/tinycomp/emulator"
)

func main() {
	var archive string
	var steps int
	var input string
	var output string
	var verbose bool
	var debug bool
	var defines bool

	flag.StringVar(&archive, "a", "", ".txtar machine archive to run")
	flag.IntVar(&steps, "n", 1000000, "Maximum instructions to execute, 0 for no limit")
	flag.StringVar(&input, "i", "-", "Tape input")
	flag.StringVar(&output, "o", "-", "Tape output")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.BoolVar(&debug, "d", false, "Interactive debugger")
	flag.BoolVar(&defines, "D", false, "List machine defines, do not execute")

	flag.Parse()

	if flag.NArg() != 0 {
		logrus.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	emu := emulator.NewEmulator()
	emu.Verbose = verbose

	if defines {
		for name, value := range emu.Defines() {
			fmt.Printf("%v = 0x%x\n", name, value)
		}
		return
	}

	if len(archive) == 0 {
		logrus.Fatalf("%v: no archive given", os.Args[0])
	}

	err := emu.LoadArchiveFile(archive)
	if err != nil {
		logrus.Fatalf("%v: %v", archive, err)
	}

	if input == "-" {
		if debug {
			logrus.Fatalf("%v: debugger needs a tape input file", os.Args[0])
		}
		emu.Tape.Input = os.Stdin
	} else {
		inf, err := os.Open(input)
		if err != nil {
			logrus.Fatalf("%v: %v", input, err)
		}
		defer inf.Close()
		emu.Tape.Input = inf
	}

	if output == "-" {
		emu.Tape.Output = os.Stdout
	} else {
		ouf, err := os.Create(output)
		if err != nil {
			logrus.Fatalf("%v: %v", output, err)
		}
		defer ouf.Close()
		emu.Tape.Output = ouf
	}

	if debug {
		err = debugger(emu, os.Stdin, os.Stderr)
	} else {
		_, err = emu.Run(steps)
	}

	logrus.WithFields(logrus.Fields{
		"cycles": emu.Cpu.Cycles(),
		"state":  emu.Cpu.RunState(),
	}).Info(emu.Cpu.String())

	if err != nil {
		logrus.Fatal(err)
	}
}
