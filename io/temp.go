package io

import (
	"iter"
	"log"
	"maps"
)

// TEMP_EMPTY is read from an empty Temporary.
const TEMP_EMPTY = 0xffff

// Temporary implements a circular buffer of words.
// It operates as a FIFO queue with a fixed capacity and separate read/write positions.
type Temporary struct {
	Verbose  bool
	Capacity int    // Capacity in words.
	Delay    uint32 // Cycles charged per access.

	ReadIndex  int
	WriteIndex int
	Size       int
	Data       []uint16
}

var _ Device = (*Temporary)(nil)

// Defines returns an iter of defines for the device.
func (temp *Temporary) Defines() iter.Seq2[string, string] {
	return maps.All(map[string]string{
		"temp_empty": "0xffff",
	})
}

// Rewind resets the temporary storage to empty, resetting indices and
// reinitializing the data buffer.
func (temp *Temporary) Rewind() {
	temp.ReadIndex = 0
	temp.WriteIndex = 0
	temp.Size = 0
	temp.Data = make([]uint16, temp.Capacity)
}

// Pop removes the oldest word.
func (temp *Temporary) Pop() (value uint16, ok bool) {
	if temp.Size == 0 {
		return
	}

	value = temp.Data[temp.ReadIndex]
	temp.ReadIndex++
	if temp.ReadIndex == temp.Capacity {
		temp.ReadIndex = 0
	}
	temp.Size--

	ok = true
	return
}

// Push appends a word.
// Returns ErrDeviceFull if the buffer has reached capacity.
func (temp *Temporary) Push(value uint16) (err error) {
	if len(temp.Data) != temp.Capacity {
		temp.Rewind()
	}

	if temp.Size >= temp.Capacity {
		err = ErrDeviceFull
		return
	}

	temp.Data[temp.WriteIndex] = value

	temp.WriteIndex++
	if temp.WriteIndex == temp.Capacity {
		temp.WriteIndex = 0
	}
	temp.Size++

	return
}

func (temp *Temporary) Read(addr uint16) (result ReadResult) {
	result.Delay = temp.Delay

	value, ok := temp.Pop()
	if !ok {
		value = TEMP_EMPTY
	}
	result.Data = value

	return
}

func (temp *Temporary) Write(addr uint16, data uint16) (result WriteResult) {
	result.Delay = temp.Delay

	err := temp.Push(data)
	if err != nil && temp.Verbose {
		log.Printf("temp: %v, %04x dropped", err, data)
	}

	return
}
