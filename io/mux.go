package io

import (
	"fmt"
	"iter"
	"log"
	"slices"
)

// PERIPHERAL_BASE is the lowest address answered by the bus.
const PERIPHERAL_BASE = 0x8000

// mapping is a device window.
type mapping struct {
	name   string
	base   uint16
	size   int
	device Device
}

func (mp *mapping) contains(addr uint16) bool {
	return int(addr) >= int(mp.base) && int(addr) < int(mp.base)+mp.size
}

// Mux routes bus addresses to mapped devices.
type Mux struct {
	Verbose  bool   // If set, logs every access.
	Fallback uint16 // Data read from an unmapped address.

	mappings []mapping
}

var _ Bus = (*Mux)(nil)

// Map attaches a device at [base, base+size).
func (mux *Mux) Map(name string, base uint16, size int, device Device) (err error) {
	if base < PERIPHERAL_BASE || size <= 0 || int(base)+size > 0x10000 {
		err = fmt.Errorf("%s: %w", name, ErrDeviceRange)
		return
	}

	mp := mapping{name: name, base: base, size: size, device: device}
	for _, other := range mux.mappings {
		if other.contains(base) || mp.contains(other.base) {
			err = fmt.Errorf("%s: %w", name, ErrDeviceOverlap)
			return
		}
	}

	mux.mappings = append(mux.mappings, mp)
	slices.SortFunc(mux.mappings, func(a, b mapping) int {
		return int(a.base) - int(b.base)
	})

	return
}

// Defines returns port_NAME for every mapped device.
func (mux *Mux) Defines() iter.Seq2[string, string] {
	return func(yield func(name, value string) bool) {
		for _, mp := range mux.mappings {
			if !yield("port_"+mp.name, fmt.Sprintf("%#x", mp.base)) {
				return
			}
		}
	}
}

// Rewind rewinds every mapped device.
func (mux *Mux) Rewind() {
	for _, mp := range mux.mappings {
		mp.device.Rewind()
	}
}

// find returns the mapping holding addr, or nil.
func (mux *Mux) find(addr uint16) *mapping {
	for n := range mux.mappings {
		if mux.mappings[n].contains(addr) {
			return &mux.mappings[n]
		}
	}
	return nil
}

func (mux *Mux) Read(addr uint16) (result ReadResult) {
	mp := mux.find(addr)
	if mp == nil {
		result.Data = mux.Fallback
	} else {
		result = mp.device.Read(addr - mp.base)
	}

	if mux.Verbose {
		log.Printf("mux: read %04x: %04x", addr, result.Data)
	}

	return
}

func (mux *Mux) Write(addr uint16, data uint16) (result WriteResult) {
	mp := mux.find(addr)
	if mp != nil {
		result = mp.device.Write(addr-mp.base, data)
	}

	if mux.Verbose {
		log.Printf("mux: write %04x: %04x", addr, data)
	}

	return
}
