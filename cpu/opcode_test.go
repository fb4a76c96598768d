package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMakeCode(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name string
		code Code
		word uint16
		imms []uint16
	}){
		{"set_teeny", MakeCode(OP_SET, REG_A, REG_ZERO, 5), 0x05a5, nil},
		{"add_teeny", MakeCode(OP_ADD, REG_A, REG_ZERO, 3), 0x4da3, nil},
		{"teeny_max", MakeCode(OP_SET, REG_A, REG_ZERO, 7), 0x05a7, nil},
		{"teeny_min", MakeCode(OP_SET, REG_A, REG_ZERO, -8), 0x05a8, nil},
		{"wide_above", MakeCode(OP_SET, REG_A, REG_ZERO, 8), 0x01a0, []uint16{0x0008}},
		{"wide_below", MakeCode(OP_SET, REG_A, REG_ZERO, -9), 0x01a0, []uint16{0xfff7}},
		{"dly", MakeCode(OP_DLY, REG_ZERO, REG_ZERO, 100), 0xb920, []uint16{100}},
		{"jmp", MakeCodeJmp(COND_ALWAYS, REG_ZERO, 0x10), 0xa920, []uint16{0x0010}},
		{"je", MakeCodeJmp(COND_EQUALS, REG_A, 3), 0xa9a4, []uint16{0x0003}},
		{"jle", MakeCodeJmp(COND_EQUALS|COND_LESS, REG_ZERO, -1), 0xa926, []uint16{0xffff}},
	}

	for _, entry := range table {
		assert.Equal(entry.word, entry.code.Word, entry.name)
		assert.Equal(entry.imms, entry.code.Immediates, entry.name)
		assert.Equal(1+len(entry.imms), entry.code.Len(), entry.name)
	}
}

func TestCodeDecode(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name  string
		code  Code
		op    CodeOp
		teeny bool
		reg1  CodeReg
		reg2  CodeReg
		imm   int
	}){
		{"teeny", MakeCode(OP_LOD, REG_B, REG_C, -3), OP_LOD, true, REG_B, REG_C, -3},
		{"wide", MakeCode(OP_STR, REG_E, REG_SP, 0x1234), OP_STR, false, REG_E, REG_SP, 0x1234},
		{"negative", MakeCode(OP_SUB, REG_D, REG_PC, -1000), OP_SUB, false, REG_D, REG_PC, -1000},
		{"jmp", MakeCodeJmp(COND_LESS, REG_A, 7), OP_JMP, false, REG_A, REG_ZERO, 7},
	}

	for _, entry := range table {
		assert.Equal(entry.op, entry.code.Op(), entry.name)
		assert.Equal(entry.teeny, entry.code.Teeny(), entry.name)
		assert.Equal(entry.reg1, entry.code.Reg1(), entry.name)
		assert.Equal(entry.reg2, entry.code.Reg2(), entry.name)
		assert.Equal(entry.imm, entry.code.Immediate(), entry.name)
	}

	assert.Equal(COND_LESS, MakeCodeJmp(COND_LESS, REG_A, 7).Cond())
}

func TestCodeString(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		code Code
		text string
	}){
		{MakeCode(OP_SET, REG_A, REG_ZERO, 5), "set ra, rz + 5"},
		{MakeCode(OP_STR, REG_B, REG_A, 1), "str [rb + 1], ra"},
		{MakeCode(OP_PSH, REG_ZERO, REG_C, 0), "psh rc + 0"},
		{MakeCode(OP_POP, REG_PC, REG_PC, 0), "pop pc"},
		{MakeCodeJmp(COND_ALWAYS, REG_ZERO, 0x20), "jmp rz + 32"},
		{MakeCodeJmp(COND_LESS|COND_GREATER, REG_ZERO, -2), "jne rz + -2"},
		{Code{Word: 0xc400}, "op24 pc, pc + 0"},
	}

	for _, entry := range table {
		assert.Equal(entry.text, entry.code.String())
	}
}

func TestLookup(t *testing.T) {
	assert := assert.New(t)

	op, ok := LookupOp("DJZ")
	assert.True(ok)
	assert.Equal(OP_DJZ, op)

	_, ok = LookupOp("nop")
	assert.False(ok)

	for n, name := range []string{"pc", "sp", "rz", "ra", "rb", "rc", "rd", "re"} {
		reg, ok := LookupReg(name)
		assert.True(ok, name)
		assert.Equal(CodeReg(n), reg, name)
		assert.Equal(name, reg.String())

		alias, ok := LookupReg("r" + string(rune('0'+n)))
		assert.True(ok, name)
		assert.Equal(reg, alias, name)
	}

	_, ok = LookupReg("r8")
	assert.False(ok)

	assert.True(OP_DLY.Valid())
	assert.False(CodeOp(24).Valid())
	assert.Equal("op24", CodeOp(24).String())

	assert.True(Teeny(TEENY_MIN))
	assert.True(Teeny(TEENY_MAX))
	assert.False(Teeny(TEENY_MIN - 1))
	assert.False(Teeny(TEENY_MAX + 1))
}
