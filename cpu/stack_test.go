package cpu

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/teenyat/fixed"
)

func TestStack_Push(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	assert.Equal(0, cpu.Depth())

	cpu.push(0x1234)
	assert.Equal(1, cpu.Depth())
	assert.Equal(fixed.Word(0x1234), cpu.Ram[SP_RESET])
	assert.Equal(fixed.Word(SP_RESET-1), cpu.Register[REG_SP])
}

func TestStack_Pop(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	cpu.push(0x1234)
	cpu.push(0xabcd)

	assert.Equal(fixed.Word(0xabcd), cpu.pop())
	assert.Equal(1, cpu.Depth())

	assert.Equal(fixed.Word(0x1234), cpu.pop())
	assert.Equal(0, cpu.Depth())
	assert.Equal(fixed.Word(SP_RESET), cpu.Register[REG_SP])
}

func TestStack_Peek(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	cpu.push(0x1234)
	cpu.push(0xabcd)

	assert.Equal(fixed.Word(0xabcd), cpu.Peek())
	assert.Equal(2, cpu.Depth())
}

func TestStack_Wrap(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()

	// Popping an empty stack wraps SP to the bottom of RAM.
	cpu.Ram[0] = 0x5555
	assert.Equal(fixed.Word(0x5555), cpu.pop())
	assert.Equal(fixed.Word(0), cpu.Register[REG_SP])

	cpu.push(0x6666)
	assert.Equal(fixed.Word(0x6666), cpu.Ram[0])
	assert.Equal(fixed.Word(SP_RESET), cpu.Register[REG_SP])
}

func TestStack_Symmetry(t *testing.T) {
	assert := assert.New(t)

	for _, count := range []int{1, 2, 5, 16} {
		var program []string
		for n := range count {
			program = append(program, fmt.Sprintf("psh rz + %d", 100*(n+1)))
		}
		for n := range count {
			program = append(program, "pop rb", fmt.Sprintf("str [rz + %d], rb", 0x1000+n))
		}
		program = append(program, "!end jmp !end")

		cpu := loadSource(t, nil, program...)
		runCpu(cpu, 10000)

		assert.True(cpu.Spinning(), count)
		assert.Equal(fixed.Word(SP_RESET), cpu.Register[REG_SP], count)
		assert.Equal(0, cpu.Depth(), count)
		for n := range count {
			assert.Equal(fixed.Word(100*(count-n)), cpu.Ram[0x1000+n], count)
		}
	}
}
