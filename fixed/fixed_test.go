package fixed

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValue_Int(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name     string
		value    Value
		signed   int64
		unsigned uint32
	}){
		{"int4_neg1", Int4(-1), -1, 0xf},
		{"int4_min", Int4(-8), -8, 0x8},
		{"int4_max", Int4(7), 7, 0x7},
		{"int4_wrap", Int4(8), -8, 0x8},
		{"uint4", Uint4(0x1f), -1, 0xf},
		{"int16_min", Int16(-32768), -32768, 0x8000},
		{"int16_wrap", Int16(0x18000), -32768, 0x8000},
		{"uint16", Uint16(0xffff), -1, 0xffff},
		{"int32", Int32(-2), -2, 0xfffffffe},
	}

	for _, entry := range table {
		assert.Equal(entry.signed, entry.value.Int(), entry.name)
		assert.Equal(entry.unsigned, entry.value.Unsigned(), entry.name)
	}
}

func TestValue_Operators(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name   string
		result Value
		expect int64
	}){
		{"add_wrap", Int16(32767).Add(Int16(1)), -32768},
		{"add_promote", Int16(5).Add(Int4(-1)), 4},
		{"add_unsigned4", Int16(5).Add(Uint4(0xf)), 20},
		{"sub", Int16(3).Sub(Int16(5)), -2},
		{"sub_wrap", Int16(-32768).Sub(Int16(1)), 32767},
		{"mul", Int16(-3).Mul(Int16(7)), -21},
		{"mul_wrap", Int16(256).Mul(Int16(256)), 0},
		{"div", Int16(-7).Div(Int16(2)), -3},
		{"div_minint", Int16(-32768).Div(Int16(-1)), -32768},
		{"mod", Int16(-7).Mod(Int16(2)), -1},
		{"mod_pos", Int16(7).Mod(Int16(-2)), 1},
		{"and", Int16(0x0ff0).And(Int16(0x00ff)), 0x00f0},
		{"or", Int16(0x0f00).Or(Int4(1)), 0x0f01},
		{"xor", Int16(-1).Xor(Int16(0x7fff)), -32768},
		{"width4", Int4(7).Add(Int4(1)), -8},
	}

	for _, entry := range table {
		assert.Equal(entry.expect, entry.result.Int(), entry.name)
	}

	assert.Equal(WIDTH_16, Int4(1).Add(Int16(1)).Width)
	assert.Equal(WIDTH_32, Int16(1).Add(Int32(1)).Width)
}

func TestValue_DivideByZero(t *testing.T) {
	assert := assert.New(t)

	assert.True(Int16(5).Div(Int16(0)).IsZero())
	assert.True(Int16(5).Mod(Int16(0)).IsZero())
}

func TestValue_Negate(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(int64(-5), Int16(5).Negate().Int())
	assert.Equal(int64(5), Int16(-5).Negate().Int())
	assert.Equal(int64(0), Int16(0).Negate().Int())
	assert.Equal(int64(-32768), Int16(-32768).Negate().Int())
	assert.Equal(int64(-7), Int4(7).Negate().Int())
	assert.Equal(uint32(0xffffffff), Uint32(1).Negate().Unsigned())
}

func TestWord(t *testing.T) {
	assert := assert.New(t)

	w := Word(0xfffe)
	assert.Equal(uint16(0xfffe), w.Unsigned())
	assert.Equal(int16(-2), w.Signed())
	assert.Equal(int64(-2), w.Value().Int())

	assert.Equal(Word(0xffff), WordOf(Int4(-1)))
	assert.Equal(Word(0x000f), WordOf(Uint4(0xf)))
	assert.Equal(Word(0x2345), WordOf(Int32(0x12345)))
	assert.Equal("FFFE(-2)", w.String())
}
