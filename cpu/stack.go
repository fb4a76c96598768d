package cpu

import (
	"github.com/ezrec/teenyat/fixed"
)

// The stack lives in RAM and grows down from SP_RESET. SP always addresses
// the next free slot.

// push stores value at SP, then moves SP down.
func (cpu *Cpu) push(value fixed.Word) {
	sp := cpu.Register[REG_SP] & RAM_MAX_ADDRESS
	cpu.Ram[sp] = value
	cpu.Register[REG_SP] = (sp - 1) & RAM_MAX_ADDRESS
}

// pop moves SP up, then loads from SP.
func (cpu *Cpu) pop() (value fixed.Word) {
	sp := (cpu.Register[REG_SP] + 1) & RAM_MAX_ADDRESS
	cpu.Register[REG_SP] = sp
	value = cpu.Ram[sp]
	return
}

// Peek returns the word the next pop would load, without moving SP.
func (cpu *Cpu) Peek() fixed.Word {
	return cpu.Ram[(cpu.Register[REG_SP]+1)&RAM_MAX_ADDRESS]
}

// Depth returns the number of words pushed since reset, assuming SP has only
// been moved by push and pop.
func (cpu *Cpu) Depth() int {
	return int((SP_RESET - cpu.Register[REG_SP]) & RAM_MAX_ADDRESS)
}
