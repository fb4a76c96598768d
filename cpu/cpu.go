// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"errors"
	"fmt"
	"log"
	"slices"

	"github.com/ezrec/teenyat/fixed"
	"github.com/ezrec/teenyat/io"
)

// Bus is the peripheral interface attached to the CPU.
type Bus io.Bus

const (
	RAM_SIZE        = 0x8000         // Words of RAM.
	RAM_MAX_ADDRESS = RAM_SIZE - 1   // Top of RAM; addresses above go to the bus.
	BUS_DELAY       = 3              // Delay charged for every memory instruction.
	SP_RESET        = RAM_MAX_ADDRESS // Stack pointer after reset.
)

// Flags are the comparison flags set by arithmetic.
type Flags struct {
	Equals  bool
	Less    bool
	Greater bool
}

// update sets the flags from a result.
func (fl *Flags) update(result fixed.Word) {
	fl.Equals = result == 0
	fl.Less = result&0x8000 != 0
	fl.Greater = result.Signed() > 0
}

// Test reports whether any flag selected by cond is set.
func (fl Flags) Test(cond CodeCond) bool {
	return (cond&COND_EQUALS != 0 && fl.Equals) ||
		(cond&COND_LESS != 0 && fl.Less) ||
		(cond&COND_GREATER != 0 && fl.Greater)
}

// Cpu is the simulation context of a TeenyAT.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Register [REGISTER_COUNT]fixed.Word // Register bank.
	Flags    Flags                      // Comparison flags.
	Ram      [RAM_SIZE]fixed.Word       // Memory.
	Bus      Bus                        // Peripheral space.

	Delay        uint32 // Pending delay cycles.
	Ticks        int    // Clock ticks since reset, busy or not.
	Instructions int    // Instructions retired since reset.
	Fault        error  // Fault raised by the last instruction.

	image []uint16
}

// NewCpu creates a new CPU, with no image and no bus.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{}
	cpu.Register[REG_SP] = SP_RESET
	return
}

// Load an image and its bus, and reset.
func (cpu *Cpu) Load(image []uint16, bus Bus) (err error) {
	if bus == nil {
		err = ErrBusMissing
		return
	}

	if len(image) > RAM_SIZE {
		err = ErrImageSize
		return
	}

	cpu.image = slices.Clone(image)
	cpu.Bus = bus

	err = cpu.Reset()
	return
}

// Reset the CPU state.
// - Restores RAM to the loaded image, zeroing the remainder.
// - Clears the registers and flags, and sets SP to the top of RAM.
// - Zeros the delay and statistics counters.
func (cpu *Cpu) Reset() (err error) {
	if cpu.Verbose {
		log.Printf("cpu: reset, %d word image", len(cpu.image))
	}

	clear(cpu.Ram[:])
	for n, word := range cpu.image {
		cpu.Ram[n] = fixed.Word(word)
	}

	clear(cpu.Register[:])
	cpu.Register[REG_SP] = SP_RESET

	cpu.Flags = Flags{}
	cpu.Delay = 0
	cpu.Ticks = 0
	cpu.Instructions = 0
	cpu.Fault = nil

	return
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	for n, val := range cpu.Register {
		text += fmt.Sprintf("% 5s: %04X %6d\n", CodeReg(n).String(), val.Unsigned(), val.Signed())
	}

	flags := []byte("---")
	if cpu.Flags.Equals {
		flags[0] = 'E'
	}
	if cpu.Flags.Less {
		flags[1] = 'L'
	}
	if cpu.Flags.Greater {
		flags[2] = 'G'
	}
	text += fmt.Sprintf("% 5s: %s\n", "flags", flags)
	text += fmt.Sprintf("% 5s: %d %04X\n", "stack", cpu.Depth(), cpu.Peek().Unsigned())
	text += fmt.Sprintf("% 5s: %d\n", "delay", cpu.Delay)
	text += fmt.Sprintf("% 5s: %d\n", "ticks", cpu.Ticks)

	return
}

// pc returns the program counter, masked to RAM.
func (cpu *Cpu) pc() fixed.Word {
	return cpu.Register[REG_PC] & RAM_MAX_ADDRESS
}

// setPc sets the program counter, masked to RAM.
func (cpu *Cpu) setPc(addr fixed.Word) {
	cpu.Register[REG_PC] = addr & RAM_MAX_ADDRESS
}

// value returns a register as a signed 16-bit value.
func (cpu *Cpu) value(reg CodeReg) fixed.Value {
	return cpu.Register[reg].Value()
}

// set writes a value into a register.
func (cpu *Cpu) set(reg CodeReg, value fixed.Value) {
	cpu.Register[reg] = fixed.WordOf(value)
}

// Fetch reads the instruction at PC and advances PC past it. A two word
// instruction costs one delay cycle for the extra memory access.
func (cpu *Cpu) Fetch() (code Code) {
	cpu.setPc(cpu.pc())

	code.Word = uint16(cpu.Ram[cpu.pc()])
	cpu.setPc(cpu.pc() + 1)

	if code.Teeny() {
		cpu.setPc(cpu.pc() - 1)
	} else {
		code.Immediates = []uint16{uint16(cpu.Ram[cpu.pc()])}
		cpu.Delay++
	}

	cpu.setPc(cpu.pc() + 1)

	return
}

// Tick executes a single clock cycle. While delay cycles are pending the
// tick only counts one down.
func (cpu *Cpu) Tick() {
	cpu.Ticks++

	if cpu.Delay > 0 {
		cpu.Delay--
		return
	}

	code := cpu.Fetch()
	cpu.Execute(code)
}

// busRead reads from peripheral space.
func (cpu *Cpu) busRead(addr uint16) (data fixed.Word) {
	if cpu.Bus == nil {
		return
	}

	result := cpu.Bus.Read(addr)
	if cpu.Verbose {
		log.Printf("cpu: bus read %04x: %04x (+%d)", addr, result.Data, result.Delay)
	}

	cpu.Delay += result.Delay
	data = fixed.Word(result.Data)
	return
}

// busWrite writes to peripheral space.
func (cpu *Cpu) busWrite(addr uint16, data fixed.Word) {
	if cpu.Bus == nil {
		return
	}

	result := cpu.Bus.Write(addr, uint16(data))
	if cpu.Verbose {
		log.Printf("cpu: bus write %04x: %04x (+%d)", addr, uint16(data), result.Delay)
	}

	cpu.Delay += result.Delay
}

// aluMap holds the two operand arithmetic group.
var aluMap = map[CodeOp](func(a, b fixed.Value) fixed.Value){
	OP_ADD: fixed.Value.Add,
	OP_SUB: fixed.Value.Sub,
	OP_MPY: fixed.Value.Mul,
	OP_DIV: fixed.Value.Div,
	OP_MOD: fixed.Value.Mod,
	OP_AND: fixed.Value.And,
	OP_OR:  fixed.Value.Or,
	OP_XOR: fixed.Value.Xor,
}

// Execute executes a single fetched instruction. PC must already point past
// it. Register-zero reads as zero afterwards, whatever was written to it.
func (cpu *Cpu) Execute(code Code) {
	cpu.Fault = nil

	if cpu.Verbose {
		log.Printf("%04x: %v", uint16(cpu.pc()), code)
	}

	reg1 := code.Reg1()
	reg2 := code.Reg2()

	var imm fixed.Value
	if code.Teeny() {
		imm = fixed.Int4(int64(code.Word))
	} else if len(code.Immediates) > 0 {
		imm = fixed.Int16(int64(code.Immediates[0]))
	} else {
		imm = fixed.Int16(0)
	}

	// Nearly every opcode consumes reg2 + imm.
	operand := cpu.value(reg2).Add(imm)

	op := code.Op()
	switch op {
	case OP_SET:
		cpu.set(reg1, operand)
	case OP_LOD:
		addr := fixed.WordOf(operand)
		if addr > RAM_MAX_ADDRESS {
			cpu.Register[reg1] = cpu.busRead(uint16(addr))
		} else {
			cpu.Register[reg1] = cpu.Ram[addr]
		}
		cpu.Delay += BUS_DELAY
	case OP_STR:
		addr := fixed.WordOf(cpu.value(reg1).Add(imm))
		if addr > RAM_MAX_ADDRESS {
			cpu.busWrite(uint16(addr), cpu.Register[reg2])
		} else {
			cpu.Ram[addr] = cpu.Register[reg2]
		}
		cpu.Delay += BUS_DELAY
	case OP_PSH:
		cpu.push(fixed.WordOf(operand))
		cpu.Delay += BUS_DELAY
	case OP_POP:
		cpu.Register[reg1] = cpu.pop()
		cpu.Delay += BUS_DELAY
	case OP_BTS, OP_BTC, OP_BTF:
		bit := operand.Int()
		if bit >= 0 && bit <= 15 {
			mask := fixed.Word(1) << bit
			switch op {
			case OP_BTS:
				cpu.Register[reg2] |= mask
			case OP_BTC:
				cpu.Register[reg2] &^= mask
			case OP_BTF:
				cpu.Register[reg2] ^= mask
			}
			cpu.Flags.update(cpu.Register[reg2])
		}
	case OP_CAL:
		// The target sees SP after the push.
		cpu.push(cpu.pc())
		cpu.setPc(fixed.WordOf(cpu.value(reg2).Add(imm)))
		cpu.Delay += BUS_DELAY
	case OP_ADD, OP_SUB, OP_MPY, OP_DIV, OP_MOD, OP_AND, OP_OR, OP_XOR:
		if (op == OP_DIV || op == OP_MOD) && operand.IsZero() {
			break
		}
		cpu.set(reg1, aluMap[op](cpu.value(reg1), operand))
		cpu.Flags.update(cpu.Register[reg1])
	case OP_SHF:
		amount := operand.Int()
		value := cpu.Register[reg1]
		switch {
		case amount < 0 && amount >= -15:
			value <<= -amount
		case amount > 0 && amount <= 15:
			value >>= amount
		case amount != 0:
			value = 0
		}
		cpu.Register[reg1] = value
		cpu.Flags.update(value)
	case OP_ROT:
		// Reserved; no rotate is defined.
	case OP_NEG:
		cpu.set(reg1, cpu.value(reg1).Negate())
		cpu.Flags.update(cpu.Register[reg1])
	case OP_CMP:
		cpu.Flags.update(fixed.WordOf(cpu.value(reg1).Sub(operand)))
	case OP_JMP:
		cond := code.Cond()
		if cond == COND_ALWAYS || cpu.Flags.Test(cond) {
			cpu.setPc(fixed.WordOf(cpu.value(reg1).Add(imm)))
		}
	case OP_DJZ:
		cpu.set(reg1, cpu.value(reg1).Sub(fixed.Int16(1)))
		cpu.Flags.update(cpu.Register[reg1])
		if cpu.Register[reg1] == 0 {
			cpu.setPc(fixed.WordOf(cpu.value(reg2).Add(imm)))
		}
	case OP_DLY:
		count := operand.Int()
		if count >= 1 {
			cpu.Delay = uint32(count - 1)
		}
	default:
		cpu.Fault = errors.Join(ErrOpcode(code), ErrOpcodeValid)
		log.Printf("cpu: %v", cpu.Fault)
	}

	cpu.Register[REG_ZERO] = 0
	cpu.Instructions++
}

// Spinning reports whether the next instruction is an unconditional jump
// to itself, the conventional way to stop a program.
func (cpu *Cpu) Spinning() bool {
	if cpu.Delay > 0 {
		return false
	}

	pc := cpu.pc()
	code := Code{Word: uint16(cpu.Ram[pc])}
	if code.Op() != OP_JMP || code.Teeny() || code.Cond() != COND_ALWAYS {
		return false
	}

	// The jump sees PC after both of its words.
	base := cpu.Register[code.Reg1()]
	if code.Reg1() == REG_PC {
		base = pc + 2
	}
	imm := cpu.Ram[(pc+1)&RAM_MAX_ADDRESS]

	return (base+imm)&RAM_MAX_ADDRESS == pc
}
