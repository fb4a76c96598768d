// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"context"
	"fmt"
	"iter"
	"maps"

	"github.com/ezrec/teenyat/cpu"
	"github.com/ezrec/teenyat/internal"
	"github.com/ezrec/teenyat/io"
)

const (
	PORT_TAPE     = 0x8000 // Sequential byte tape.
	PORT_TEMP     = 0x8001 // Temporary word FIFO.
	PORT_DEBUG    = 0x9000 // Debug print port.
	ROM_BASE      = 0xC000 // Read-only data window.
	ROM_SIZE      = 0x4000 // Words in the ROM window.
	TEMP_CAPACITY = 1024   // Words held by the FIFO.
)

var _emulator_defines = map[string]string{
	"ram_size": fmt.Sprintf("%#x", cpu.RAM_SIZE),
	"rom_base": fmt.Sprintf("%#x", ROM_BASE),
	"rom_size": fmt.Sprintf("%#x", ROM_SIZE),
}

// Emulator state. CPU + program + bus peripherals.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	Strict   bool         // If set, CPU faults stop Tick with an error.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently running program listing.
	Image    []uint16     // Image to load instead of the program's binary.

	Mux       io.Mux       // Peripheral address decoder.
	Tape      io.Tape      // Tape device.
	Temporary io.Temporary // Temporary FIFO device.
	Debug     io.Debug     // Debug print device.
	Rom       io.Rom       // ROM window.
}

// NewEmulator creates a new emulator, with the default peripheral map.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu:     cpu.NewCpu(),
		Program: &cpu.Program{},
	}

	emu.Temporary.Capacity = TEMP_CAPACITY
	emu.Mux.Fallback = 0xffff

	// The fixed map cannot overlap, so errors are impossible here.
	_ = emu.Mux.Map("tape", PORT_TAPE, 1, &emu.Tape)
	_ = emu.Mux.Map("temp", PORT_TEMP, 1, &emu.Temporary)
	_ = emu.Mux.Map("debug", PORT_DEBUG, 1, &emu.Debug)
	_ = emu.Mux.Map("rom", ROM_BASE, ROM_SIZE, &emu.Rom)

	return
}

// Defines returns an iterator over all of the defines, for use as
// assembler predefines.
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		emu.Mux.Defines(),
		emu.Tape.Defines(),
		emu.Temporary.Defines(),
	)
}

// Reset rewinds the peripherals and reloads the program image.
func (emu *Emulator) Reset() (err error) {
	emu.Cpu.Verbose = emu.Verbose
	emu.Mux.Verbose = emu.Verbose
	emu.Temporary.Verbose = emu.Verbose
	emu.Tape.Verbose = emu.Verbose

	emu.Mux.Rewind()

	err = emu.Cpu.Load(emu.Binary(), &emu.Mux)
	return
}

// Binary returns the image Reset loads: Image when set, otherwise the
// program's binary.
func (emu *Emulator) Binary() (image []uint16) {
	image = emu.Image
	if image == nil && emu.Program != nil {
		image = emu.Program.Binary()
	}
	return
}

// Ticks returns the total ticks since a reset.
func (emu *Emulator) Ticks() int {
	return emu.Cpu.Ticks
}

// Pc returns the current program counter.
func (emu *Emulator) Pc() int {
	return int(emu.Cpu.Register[cpu.REG_PC] & cpu.RAM_MAX_ADDRESS)
}

// LineNo returns the current line number for the executing opcode.
func (emu *Emulator) LineNo() int {
	dbg := emu.Program.Debug(uint16(emu.Pc()))
	if dbg.Opcode == nil {
		return 0
	}

	return dbg.Opcode.LineNo
}

// Tick performs a single tick of the emulator. Done is set once the
// program spins on a jump to itself.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	if emu.Cpu.Spinning() {
		done = true
		return
	}

	lineno := emu.LineNo()

	emu.Cpu.Tick()

	if emu.Strict && emu.Cpu.Fault != nil {
		err = &ErrRuntime{LineNo: lineno, Err: emu.Cpu.Fault}
	}

	return
}

// Run ticks until the program is done, an error occurs, the context is
// cancelled, or limit ticks have passed. A limit of zero or less means no
// limit.
func (emu *Emulator) Run(ctx context.Context, limit int) (done bool, err error) {
	for ticks := 0; limit <= 0 || ticks < limit; ticks++ {
		select {
		case <-ctx.Done():
			err = ctx.Err()
			return
		default:
		}

		done, err = emu.Tick()
		if done || err != nil {
			return
		}
	}

	err = ErrTickLimit
	return
}
