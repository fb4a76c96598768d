// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"golang.org/x/term"

	"github.com/ezrec/teenyat/cpu"
	"github.com/ezrec/teenyat/emulator"
	"github.com/ezrec/teenyat/translate"
)

var f = translate.From

// readImage loads a binary image file.
func readImage(path string) (words []uint16) {
	inf, err := os.Open(path)
	if err != nil {
		log.Fatalf("%v: %v", path, err)
	}
	defer inf.Close()

	words, err = cpu.ReadImage(inf)
	if err != nil {
		log.Fatalf("%v: %v", path, err)
	}

	return
}

func main() {
	var compile string
	var binary string
	var save string
	var rom string
	var listing bool
	var limit int
	var input string
	var output string
	var strict bool
	var verbose bool

	flag.StringVar(&compile, "c", "", ".asm file to compile")
	flag.StringVar(&binary, "b", "", ".bin image to run")
	flag.StringVar(&save, "o", "", "Save image to a .bin file, do not execute")
	flag.StringVar(&rom, "r", "", ".bin image to map into the ROM window")
	flag.BoolVar(&listing, "l", false, "Print a listing of the compiled program")
	flag.IntVar(&limit, "n", 0, "Tick limit, 0 for none")
	flag.StringVar(&input, "i", "-", "Tape input")
	flag.StringVar(&output, "t", "-", "Tape output")
	flag.BoolVar(&strict, "strict", false, "Stop on the first assembler or runtime problem")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: %v", os.Args[0], f("unknown arguments: %v", flag.Args()))
	}

	if len(compile) != 0 && len(binary) != 0 {
		log.Fatalf("%v: %v", os.Args[0], f("-c and -b are exclusive"))
	}

	emu := emulator.NewEmulator()
	emu.Verbose = verbose
	emu.Strict = strict

	// Compile a new instruction stream.
	if len(compile) != 0 {
		inf, err := os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		defer inf.Close()

		asm := &cpu.Assembler{Verbose: verbose, Strict: strict}
		for name, value := range emu.Defines() {
			asm.Predefine(name, value)
		}

		prog, err := asm.Parse(inf)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		for _, diag := range prog.Diagnostics {
			log.Printf("%v: %v", compile, diag)
		}
		emu.Program = prog

		if listing {
			err = prog.WriteListing(os.Stdout)
			if err != nil {
				log.Fatal(err)
			}
		}
	}

	if len(binary) != 0 {
		emu.Image = readImage(binary)
	}

	if len(rom) != 0 {
		emu.Rom.Data = readImage(rom)
	}

	if len(save) != 0 {
		if len(compile) == 0 && len(binary) == 0 {
			log.Fatalf("%v: %v", save, f("-o needs -c or -b"))
		}

		ouf, err := os.Create(save)
		if err != nil {
			log.Fatalf("%v: %v", save, err)
		}
		defer ouf.Close()

		_, err = cpu.WriteImage(ouf, emu.Binary())
		if err != nil {
			log.Fatalf("%v: %v", save, err)
		}
		return
	}

	if input == "-" {
		emu.Tape.Input = os.Stdin
	} else {
		inf, err := os.Open(input)
		if err != nil {
			log.Fatalf("%v: %v", input, err)
		}
		defer inf.Close()
		emu.Tape.Input = inf
	}

	if output == "-" {
		emu.Tape.Output = os.Stdout
	} else {
		ouf, err := os.Create(output)
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
		defer ouf.Close()
		emu.Tape.Output = ouf
	}

	emu.Debug.Output = os.Stderr

	err := emu.Reset()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	_, err = emu.Run(ctx, limit)
	if err != nil {
		log.Print(err)
	}

	if term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Print(emu.Cpu.String())
	}
}
