package io

import (
	"fmt"
	"io"
)

// Debug prints every word written to it. Reads return the last word written.
type Debug struct {
	Output io.Writer
	Delay  uint32 // Cycles charged per access.

	last uint16
}

var _ Device = (*Debug)(nil)

func (dc *Debug) Rewind() {
	dc.last = 0
}

func (dc *Debug) Read(addr uint16) (result ReadResult) {
	result.Delay = dc.Delay
	result.Data = dc.last
	return
}

func (dc *Debug) Write(addr uint16, data uint16) (result WriteResult) {
	result.Delay = dc.Delay
	dc.last = data

	if dc.Output != nil {
		fmt.Fprintln(dc.Output, f("debug[%d]: 0x%04x %d", addr, data, int16(data)))
	}

	return
}
