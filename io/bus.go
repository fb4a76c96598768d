// Package io provides the peripheral side of the TeenyAT bus. Every address
// above the top of RAM is answered by a Bus; the Mux routes those addresses
// to devices such as the sequential Tape, the Temporary FIFO, the Debug port
// and a read-only Rom window.
package io

// ReadResult is the answer to a bus read.
type ReadResult struct {
	Data  uint16 // Word read.
	Delay uint32 // Extra cycles the CPU stalls.
}

// WriteResult is the answer to a bus write.
type WriteResult struct {
	Delay uint32 // Extra cycles the CPU stalls.
}

// Bus answers CPU accesses outside of RAM.
type Bus interface {
	// Read returns the word at addr.
	Read(addr uint16) ReadResult
	// Write stores data at addr.
	Write(addr uint16, data uint16) WriteResult
}

// Device is a peripheral attached to a Mux. Device addresses are offsets
// from the device's mapped base.
type Device interface {
	Bus
	// Rewind resets the device to its initial state.
	Rewind()
}

// Hooks adapts a pair of functions to a Bus. A nil function answers with
// zero data and no delay.
type Hooks struct {
	ReadFunc  func(addr uint16) ReadResult
	WriteFunc func(addr uint16, data uint16) WriteResult
}

var _ Bus = (*Hooks)(nil)

func (hk *Hooks) Read(addr uint16) (result ReadResult) {
	if hk.ReadFunc != nil {
		result = hk.ReadFunc(addr)
	}
	return
}

func (hk *Hooks) Write(addr uint16, data uint16) (result WriteResult) {
	if hk.WriteFunc != nil {
		result = hk.WriteFunc(addr, data)
	}
	return
}
