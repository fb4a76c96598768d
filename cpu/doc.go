// Package cpu implements the processor and assembler for the TeenyAT system.
//
// The CPU has eight 16-bit registers (pc, sp, rz and ra-re), three
// comparison flags, 32K words of RAM and a peripheral bus that answers
// every address above the top of RAM. Instructions are one word, or two
// when the immediate does not fit in the four bit "teeny" field. Memory
// instructions, bus accesses and the dly instruction cost extra clock
// cycles, counted down by Tick.
//
// The assembler repeats whole passes over the source until every label and
// variable address is stable, so forward references and instruction
// lengths settle together. Compile-time expressions are written $(...).
package cpu
