package cpu

import (
	"fmt"
	"strings"
)

// CodeOp is the 5-bit opcode field of an instruction word.
type CodeOp int

const (
	OP_SET = CodeOp(0)  // set
	OP_LOD = CodeOp(1)  // lod
	OP_STR = CodeOp(2)  // str
	OP_PSH = CodeOp(3)  // psh
	OP_POP = CodeOp(4)  // pop
	OP_BTS = CodeOp(5)  // bts
	OP_BTC = CodeOp(6)  // btc
	OP_BTF = CodeOp(7)  // btf
	OP_CAL = CodeOp(8)  // cal
	OP_ADD = CodeOp(9)  // add
	OP_SUB = CodeOp(10) // sub
	OP_MPY = CodeOp(11) // mpy
	OP_DIV = CodeOp(12) // div
	OP_MOD = CodeOp(13) // mod
	OP_AND = CodeOp(14) // and
	OP_OR  = CodeOp(15) // or
	OP_XOR = CodeOp(16) // xor
	OP_SHF = CodeOp(17) // shf
	OP_ROT = CodeOp(18) // rot
	OP_NEG = CodeOp(19) // neg
	OP_CMP = CodeOp(20) // cmp
	OP_JMP = CodeOp(21) // jmp
	OP_DJZ = CodeOp(22) // djz
	OP_DLY = CodeOp(23) // dly
)

var opNames = [...]string{
	"set", "lod", "str", "psh", "pop", "bts", "btc", "btf",
	"cal", "add", "sub", "mpy", "div", "mod", "and", "or",
	"xor", "shf", "rot", "neg", "cmp", "jmp", "djz", "dly",
}

// opMap is the name to opcode lookup, built once.
var opMap = func() map[string]CodeOp {
	m := make(map[string]CodeOp, len(opNames))
	for n, name := range opNames {
		m[name] = CodeOp(n)
	}
	return m
}()

// LookupOp finds an opcode by its mnemonic.
func LookupOp(name string) (op CodeOp, ok bool) {
	op, ok = opMap[strings.ToLower(name)]
	return
}

// Valid is false for the eight unassigned opcode values.
func (op CodeOp) Valid() bool {
	return op >= 0 && int(op) < len(opNames)
}

func (op CodeOp) String() string {
	if !op.Valid() {
		return fmt.Sprintf("op%d", int(op))
	}
	return opNames[op]
}

// CodeReg is a register index.
type CodeReg int

const (
	REG_PC   = CodeReg(0) // pc
	REG_SP   = CodeReg(1) // sp
	REG_ZERO = CodeReg(2) // rz
	REG_A    = CodeReg(3) // ra
	REG_B    = CodeReg(4) // rb
	REG_C    = CodeReg(5) // rc
	REG_D    = CodeReg(6) // rd
	REG_E    = CodeReg(7) // re

	REGISTER_COUNT = 8
)

var regNames = [REGISTER_COUNT]string{"pc", "sp", "rz", "ra", "rb", "rc", "rd", "re"}

// regMap accepts both the architectural names and r0..r7.
var regMap = func() map[string]CodeReg {
	m := make(map[string]CodeReg, 2*REGISTER_COUNT)
	for n, name := range regNames {
		m[name] = CodeReg(n)
		m[fmt.Sprintf("r%d", n)] = CodeReg(n)
	}
	return m
}()

// LookupReg finds a register by name.
func LookupReg(name string) (reg CodeReg, ok bool) {
	reg, ok = regMap[strings.ToLower(name)]
	return
}

func (reg CodeReg) String() string {
	return regNames[reg&7]
}

// CodeCond is the condition mask of a jump.
type CodeCond int

const (
	COND_ALWAYS  = CodeCond(0)
	COND_GREATER = CodeCond(1 << 0)
	COND_LESS    = CodeCond(1 << 1)
	COND_EQUALS  = CodeCond(1 << 2)

	COND_MASK = CodeCond(0x7)
)

// jumpMap holds the conditional jump pseudo-instructions.
var jumpMap = map[string]CodeCond{
	"jmp": COND_ALWAYS,
	"jg":  COND_GREATER,
	"jl":  COND_LESS,
	"jne": COND_LESS | COND_GREATER,
	"je":  COND_EQUALS,
	"jge": COND_EQUALS | COND_GREATER,
	"jle": COND_EQUALS | COND_LESS,
}

func (cond CodeCond) String() (text string) {
	for _, name := range []string{"jg", "jl", "jne", "je", "jge", "jle"} {
		if jumpMap[name] == cond&COND_MASK {
			return name
		}
	}
	return "jmp"
}

// Teeny immediate range.
const (
	TEENY_MIN = -8
	TEENY_MAX = 7
)

// Teeny reports whether an immediate fits the one word encoding.
func Teeny(imm int) bool {
	return imm >= TEENY_MIN && imm <= TEENY_MAX
}

// Code is a single instruction, with its optional immediate word.
type Code struct {
	Word       uint16
	Immediates []uint16
}

// makeWord packs the first instruction word.
func makeWord(op CodeOp, teeny bool, reg1, reg2 CodeReg, low4 uint16) uint16 {
	word := (uint16(op)&0x1f)<<11 |
		(uint16(reg1)&7)<<7 |
		(uint16(reg2)&7)<<4 |
		(low4 & 0xf)
	if teeny {
		word |= 1 << 10
	}
	return word
}

// MakeCode encodes an instruction, picking the teeny form when the
// immediate fits in four signed bits.
func MakeCode(op CodeOp, reg1, reg2 CodeReg, imm int) Code {
	if Teeny(imm) {
		return Code{Word: makeWord(op, true, reg1, reg2, uint16(imm))}
	}

	return Code{
		Word:       makeWord(op, false, reg1, reg2, 0),
		Immediates: []uint16{uint16(imm)},
	}
}

// MakeCodeJmp encodes a jump. The low bits of a jump carry its condition,
// so a jump always uses the two word form.
func MakeCodeJmp(cond CodeCond, reg1 CodeReg, imm int) Code {
	return Code{
		Word:       makeWord(OP_JMP, false, reg1, REG_ZERO, uint16(cond&COND_MASK)),
		Immediates: []uint16{uint16(imm)},
	}
}

// Len is the number of words the instruction occupies.
func (code Code) Len() int {
	return 1 + len(code.Immediates)
}

// Op returns bits 15-11.
func (code Code) Op() CodeOp {
	return CodeOp((code.Word >> 11) & 0x1f)
}

// Teeny returns bit 10.
func (code Code) Teeny() bool {
	return (code.Word>>10)&1 != 0
}

// Reg1 returns bits 9-7.
func (code Code) Reg1() CodeReg {
	return CodeReg((code.Word >> 7) & 7)
}

// Reg2 returns bits 6-4.
func (code Code) Reg2() CodeReg {
	return CodeReg((code.Word >> 4) & 7)
}

// Cond returns bits 2-0.
func (code Code) Cond() CodeCond {
	return CodeCond(code.Word) & COND_MASK
}

// Immediate returns the sign extended immediate of either form.
func (code Code) Immediate() (imm int) {
	if code.Teeny() {
		imm = int(code.Word & 0xf)
		if imm > TEENY_MAX {
			imm -= 16
		}
		return
	}

	if len(code.Immediates) > 0 {
		imm = int(int16(code.Immediates[0]))
	}

	return
}

// String returns the assembly language representation of this instruction.
func (code Code) String() (out string) {
	op := code.Op()
	imm := code.Immediate()

	switch op {
	case OP_JMP:
		out = fmt.Sprintf("%v %v + %d", code.Cond().String(), code.Reg1(), imm)
	case OP_STR:
		out = fmt.Sprintf("%v [%v + %d], %v", op, code.Reg1(), imm, code.Reg2())
	case OP_PSH, OP_CAL, OP_DLY:
		out = fmt.Sprintf("%v %v + %d", op, code.Reg2(), imm)
	case OP_POP, OP_NEG, OP_ROT:
		out = fmt.Sprintf("%v %v", op, code.Reg1())
	default:
		out = fmt.Sprintf("%v %v, %v + %d", op, code.Reg1(), code.Reg2(), imm)
	}

	return
}

// Opcode represents a line of assembled source and the words it produced.
type Opcode struct {
	LineNo int
	Ip     int
	Words  []string
	Codes  []Code
}

// Len is the number of image words this line produced.
func (op Opcode) Len() (count int) {
	for _, code := range op.Codes {
		count += code.Len()
	}
	return
}
