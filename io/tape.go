package io

import (
	"io"
	"iter"
	"log"
	"maps"
)

// TAPE_EOF is read once the input is exhausted.
const TAPE_EOF = 0xffff

// Tape provides sequential byte I/O. A read returns the next input byte,
// a write sends the low byte of the word.
type Tape struct {
	Verbose bool
	Input   io.Reader
	Output  io.Writer
	Delay   uint32 // Cycles charged per access.
}

var _ Device = (*Tape)(nil)

// Defines returns an iter of defines for the device.
func (tc *Tape) Defines() iter.Seq2[string, string] {
	return maps.All(map[string]string{
		"tape_eof": "0xffff",
	})
}

// Rewind seeks the input back to its start, when the input can seek.
func (tc *Tape) Rewind() {
	seeker, ok := tc.Input.(io.Seeker)
	if !ok {
		return
	}

	_, err := seeker.Seek(0, io.SeekStart)
	if err != nil && tc.Verbose {
		log.Printf("tape: rewind: %v", err)
	}
}

func (tc *Tape) Read(addr uint16) (result ReadResult) {
	result.Delay = tc.Delay
	result.Data = TAPE_EOF

	if tc.Input == nil {
		return
	}

	var one [1]byte
	n, err := io.ReadFull(tc.Input, one[:])
	if err != nil || n != 1 {
		return
	}

	result.Data = uint16(one[0])
	return
}

func (tc *Tape) Write(addr uint16, data uint16) (result WriteResult) {
	result.Delay = tc.Delay

	if tc.Output == nil {
		return
	}

	_, err := tc.Output.Write([]byte{byte(data)})
	if err != nil && tc.Verbose {
		log.Printf("tape: %v, %02x dropped", err, byte(data))
	}
	return
}
