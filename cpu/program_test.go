package cpu

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgram_Debug(t *testing.T) {
	assert := assert.New(t)

	prog := &Program{
		Opcodes: []Opcode{
			{LineNo: 1, Ip: 0, Words: []string{"set", "ra", "5"},
				Codes: []Code{MakeCode(OP_SET, REG_A, REG_ZERO, 5)}},
			{LineNo: 2, Ip: 1, Words: []string{"set", "rb", "0x100"},
				Codes: []Code{MakeCode(OP_SET, REG_B, REG_ZERO, 0x100)}},
			{LineNo: 4, Ip: 3, Words: []string{".raw", "1", "2"},
				Codes: []Code{{Word: 1}, {Word: 2}}},
		},
	}

	table := [](struct {
		ip     uint16
		lineno int
		index  int
	}){
		{0, 1, 0},
		{1, 2, 0},
		{2, 2, 1},
		{3, 4, 0},
		{4, 4, 1},
	}

	for _, entry := range table {
		dbg := prog.Debug(entry.ip)
		if assert.NotNil(dbg.Opcode, entry.ip) {
			assert.Equal(entry.lineno, dbg.Opcode.LineNo, entry.ip)
			assert.Equal(entry.index, dbg.Index, entry.ip)
		}
	}

	dbg := prog.Debug(5)
	assert.Nil(dbg.Opcode)
	assert.Equal(0, dbg.Index)
}

func TestProgram_Codes(t *testing.T) {
	assert := assert.New(t)

	prog := assemble(t,
		"set ra, 5",
		"set rb, 0x100",
		".raw 1 2",
	)

	var ips []uint16
	for ip := range prog.Codes() {
		ips = append(ips, ip)
	}
	assert.Equal([]uint16{0, 1, 3, 4}, ips)

	// Early stop
	count := 0
	for range prog.Codes() {
		count++
		break
	}
	assert.Equal(1, count)

	assert.Equal([]uint16{0x05a5, 0x0220, 0x0100, 0x0001, 0x0002}, prog.Binary())
}

func TestProgram_Image(t *testing.T) {
	assert := assert.New(t)

	prog := assemble(t,
		"set rb, 0x1234",
		".raw -1",
	)

	buf := &bytes.Buffer{}
	n, err := prog.WriteTo(buf)
	assert.NoError(err)
	assert.Equal(int64(6), n)
	assert.Equal([]byte{0x20, 0x02, 0x34, 0x12, 0xff, 0xff}, buf.Bytes())

	words, err := ReadImage(bytes.NewReader(buf.Bytes()))
	assert.NoError(err)
	assert.Equal(prog.Binary(), words)

	_, err = ReadImage(bytes.NewReader([]byte{1, 2, 3}))
	assert.ErrorIs(err, ErrImageOdd)

	_, err = ReadImage(bytes.NewReader(make([]byte, 2*RAM_SIZE+2)))
	assert.ErrorIs(err, ErrImageSize)

	words, err = ReadImage(bytes.NewReader(nil))
	assert.NoError(err)
	assert.Empty(words)

	buf.Reset()
	n, err = WriteImage(buf, []uint16{0xbeef, 0x0001})
	assert.NoError(err)
	assert.Equal(int64(4), n)
	assert.Equal([]byte{0xef, 0xbe, 0x01, 0x00}, buf.Bytes())
}

func TestProgram_WriteListing(t *testing.T) {
	assert := assert.New(t)

	prog := assemble(t,
		"!start",
		"set ra, 5",
		"jmp !start",
		".raw 0x1234",
	)

	buf := &strings.Builder{}
	err := prog.WriteListing(buf)
	assert.NoError(err)

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if assert.Equal(3, len(lines)) {
		assert.True(strings.HasPrefix(lines[0], "0000: 05a5"), lines[0])
		assert.Contains(lines[0], "set ra, rz + 5")
		assert.Contains(lines[0], "; 2: set ra 5")
		assert.True(strings.HasPrefix(lines[1], "0001: a920 0000"), lines[1])
		assert.Contains(lines[1], "jmp rz + 0")
		assert.True(strings.HasPrefix(lines[2], "0003: 1234"), lines[2])
		assert.Contains(lines[2], ".raw 0x1234")
	}
}
